package tutor

// System prompt templates. Each takes the personalization directive
// (possibly empty) followed by the study content.

const tutorSystemTemplate = `You are a helpful tutor. Answer using ONLY the provided content.
Be encouraging. If something isn't covered, say so.
%s

CONTENT:
%s`

const practiceSystemTemplate = `Create practice problems based on this content.
Generate 5-10 problems with varying difficulty.
Include ANSWERS section at end.
%s

CONTENT:
%s`

const examSystemTemplate = `Create a mock exam based on this content.
Include 15-25 questions: multiple choice, true/false, short answer.
Include ANSWER KEY at end.
%s

CONTENT:
%s`

const cleanTranscriptTemplate = `Clean this transcript. Fix errors, remove filler words, fix punctuation.
DO NOT summarize. Keep original meaning.

Subject: %s

Transcript:
%s

Return ONLY cleaned transcript:`

const quizTemplate = `Create %d quiz questions. Include multiple choice, true/false, short answer. End with ANSWER KEY.

CONTENT:
%s`

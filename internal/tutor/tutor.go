package tutor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hallway-labs/sage/internal/groq"
	"github.com/hallway-labs/sage/internal/learning"
)

// Study content above this size is rejected rather than silently cut:
// the caller should ask against a narrower scope instead.
const maxContextChars = 48000

// Quiz generation works on a bounded slice of content.
const maxQuizContentChars = 15000

const historyWindow = 10

var (
	ErrContextTooLarge = errors.New("content too large")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Tutor builds personalized prompts and runs them against the hosted
// model. The personalization directive comes from the learning engine
// and is injected verbatim into the system prompt.
type Tutor struct {
	llm          *groq.Client
	whisperModel string
	logger       *slog.Logger
}

func New(llm *groq.Client, whisperModel string, logger *slog.Logger) *Tutor {
	return &Tutor{llm: llm, whisperModel: whisperModel, logger: logger}
}

// Turn is one prior exchange in the study conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ask answers a study question against the given content in the given
// mode. history is trimmed to the last ten user/assistant turns.
func (t *Tutor) Ask(ctx context.Context, mode learning.Mode, content, question string, history []Turn, directive string) (string, error) {
	if len(content) > maxContextChars {
		return "", ErrContextTooLarge
	}

	var template string
	var temperature float64
	var maxTokens int
	switch mode {
	case learning.ModeTutor:
		template, temperature, maxTokens = tutorSystemTemplate, 0.7, 2000
	case learning.ModePractice:
		template, temperature, maxTokens = practiceSystemTemplate, 0.8, 3000
	case learning.ModeExam:
		template, temperature, maxTokens = examSystemTemplate, 0.7, 4000
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	system := fmt.Sprintf(template, directive, content)

	messages := make([]groq.Message, 0, historyWindow+1)
	for _, turn := range trimHistory(history) {
		if turn.Role == "user" || turn.Role == "assistant" {
			messages = append(messages, groq.Message{Role: turn.Role, Content: turn.Content})
		}
	}
	messages = append(messages, groq.Message{Role: "user", Content: question})

	t.logger.Info("asking study question",
		"mode", mode,
		"content_len", len(content),
		"history_turns", len(messages)-1,
		"personalized", directive != "",
	)

	answer, err := t.llm.Complete(ctx, system, messages, temperature, maxTokens)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Quiz generates a quiz over the given content.
func (t *Tutor) Quiz(ctx context.Context, content string, numQuestions int) (string, error) {
	if len(content) > maxQuizContentChars {
		content = content[:maxQuizContentChars]
	}

	prompt := fmt.Sprintf(quizTemplate, numQuestions, content)
	quiz, err := t.llm.Complete(ctx, "", []groq.Message{{Role: "user", Content: prompt}}, 0.7, 4096)
	if err != nil {
		return "", fmt.Errorf("quiz generation: %w", err)
	}
	return strings.TrimSpace(quiz), nil
}

// CleanTranscript tidies a raw Whisper transcript. Cleanup is best
// effort: on model failure the raw transcript is returned unchanged.
func (t *Tutor) CleanTranscript(ctx context.Context, raw, subject string) string {
	prompt := fmt.Sprintf(cleanTranscriptTemplate, subject, raw)
	cleaned, err := t.llm.Complete(ctx, "", []groq.Message{{Role: "user", Content: prompt}}, 0.3, 4096)
	if err != nil {
		t.logger.Warn("transcript cleanup failed, keeping raw transcript", "error", err)
		return raw
	}
	return strings.TrimSpace(cleaned)
}

// Transcribe converts lecture audio into a cleaned transcript and
// reports the audio duration in seconds.
func (t *Tutor) Transcribe(ctx context.Context, filename, subject string, audio io.Reader) (string, int, error) {
	raw, err := t.llm.Transcribe(ctx, t.whisperModel, filename, audio)
	if err != nil {
		return "", 0, fmt.Errorf("transcription: %w", err)
	}

	t.logger.Info("audio transcribed",
		"filename", filename,
		"duration_s", raw.DurationSeconds,
		"transcript_len", len(raw.Text),
	)

	return t.CleanTranscript(ctx, raw.Text, subject), raw.DurationSeconds, nil
}

func trimHistory(history []Turn) []Turn {
	if len(history) <= historyWindow {
		return history
	}
	return history[len(history)-historyWindow:]
}

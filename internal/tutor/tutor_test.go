package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hallway-labs/sage/internal/groq"
	"github.com/hallway-labs/sage/internal/learning"
)

// capturedChat is the request body shape the fake Groq server decodes.
type capturedChat struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func fakeGroq(t *testing.T, captured *capturedChat, reply string) *groq.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Fatalf("failed to decode chat request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, reply)
	}))
	t.Cleanup(server.Close)

	c := groq.NewClient("test-key", "test-model")
	c.SetTestTransport(server.URL)
	return c
}

func testTutor(t *testing.T, captured *capturedChat, reply string) *Tutor {
	return New(fakeGroq(t, captured, reply), "whisper-large-v3", slog.New(slog.DiscardHandler))
}

func TestAsk_InjectsDirective(t *testing.T) {
	var captured capturedChat
	tut := testTutor(t, &captured, "an answer")

	directive := "\n\nPERSONALIZATION (adapt your response based on learned preferences):\n- Use BULLET POINTS and NUMBERED STEPS. Organize information clearly."
	answer, err := tut.Ask(context.Background(), learning.ModeTutor, "LECTURE: entropy basics", "what is entropy?", nil, directive)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer != "an answer" {
		t.Errorf("answer = %q", answer)
	}

	if len(captured.Messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(captured.Messages))
	}
	system := captured.Messages[0]
	if system.Role != "system" {
		t.Errorf("first message role = %q, want system", system.Role)
	}
	if !strings.Contains(system.Content, "PERSONALIZATION") {
		t.Errorf("system prompt missing directive:\n%s", system.Content)
	}
	if !strings.Contains(system.Content, "LECTURE: entropy basics") {
		t.Errorf("system prompt missing content:\n%s", system.Content)
	}
	if captured.Messages[1].Content != "what is entropy?" {
		t.Errorf("question not last message: %+v", captured.Messages[1])
	}
}

func TestAsk_ModeParameters(t *testing.T) {
	tests := []struct {
		mode            learning.Mode
		wantTemperature float64
		wantMaxTokens   int
		wantSystemLine  string
	}{
		{learning.ModeTutor, 0.7, 2000, "You are a helpful tutor"},
		{learning.ModePractice, 0.8, 3000, "Create practice problems"},
		{learning.ModeExam, 0.7, 4000, "Create a mock exam"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var captured capturedChat
			tut := testTutor(t, &captured, "ok")

			if _, err := tut.Ask(context.Background(), tt.mode, "content", "question", nil, ""); err != nil {
				t.Fatalf("Ask failed: %v", err)
			}
			if captured.Temperature != tt.wantTemperature {
				t.Errorf("temperature = %g, want %g", captured.Temperature, tt.wantTemperature)
			}
			if captured.MaxTokens != tt.wantMaxTokens {
				t.Errorf("max_tokens = %d, want %d", captured.MaxTokens, tt.wantMaxTokens)
			}
			if !strings.Contains(captured.Messages[0].Content, tt.wantSystemLine) {
				t.Errorf("system prompt missing %q", tt.wantSystemLine)
			}
		})
	}
}

func TestAsk_InvalidMode(t *testing.T) {
	var captured capturedChat
	tut := testTutor(t, &captured, "ok")

	_, err := tut.Ask(context.Background(), learning.Mode("banana"), "content", "q", nil, "")
	if !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestAsk_ContextTooLarge(t *testing.T) {
	var captured capturedChat
	tut := testTutor(t, &captured, "ok")

	_, err := tut.Ask(context.Background(), learning.ModeTutor, strings.Repeat("x", maxContextChars+1), "q", nil, "")
	if !errors.Is(err, ErrContextTooLarge) {
		t.Errorf("expected ErrContextTooLarge, got %v", err)
	}
}

func TestAsk_TrimsHistory(t *testing.T) {
	var captured capturedChat
	tut := testTutor(t, &captured, "ok")

	var history []Turn
	for i := 0; i < 15; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, Turn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	// Roles outside user/assistant are dropped entirely.
	history = append(history, Turn{Role: "system", Content: "ignore me"})

	if _, err := tut.Ask(context.Background(), learning.ModeTutor, "content", "q", history, ""); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	// system prompt + at most 10 history turns + question; the trailing
	// system-role turn is filtered out of the kept window.
	got := len(captured.Messages)
	if got != 1+9+1 {
		t.Errorf("message count = %d, want 11", got)
	}
	if captured.Messages[1].Content != "turn 6" {
		t.Errorf("oldest kept turn = %q, want turn 6", captured.Messages[1].Content)
	}
}

func TestQuiz_TruncatesContent(t *testing.T) {
	var captured capturedChat
	tut := testTutor(t, &captured, "1. What is entropy?")

	quiz, err := tut.Quiz(context.Background(), strings.Repeat("y", maxQuizContentChars+500), 20)
	if err != nil {
		t.Fatalf("Quiz failed: %v", err)
	}
	if quiz == "" {
		t.Error("expected quiz text")
	}
	prompt := captured.Messages[0].Content
	if !strings.Contains(prompt, "Create 20 quiz questions") {
		t.Errorf("prompt missing question count:\n%.120s", prompt)
	}
	if len(prompt) > maxQuizContentChars+200 {
		t.Errorf("quiz content not truncated: prompt is %d chars", len(prompt))
	}
}

func TestTranscribe_CleansRawTranscript(t *testing.T) {
	var whisperModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/audio/transcriptions"):
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("failed to parse multipart request: %v", err)
			}
			whisperModel = r.FormValue("model")
			fmt.Fprint(w, `{"text":"um so today we uh cover entropy","duration":42.9}`)
		default:
			fmt.Fprint(w, `{"choices":[{"message":{"content":"Today we cover entropy."}}]}`)
		}
	}))
	defer server.Close()

	c := groq.NewClient("test-key", "test-model")
	c.SetTestTransport(server.URL)
	tut := New(c, "whisper-large-v3", slog.New(slog.DiscardHandler))

	transcript, duration, err := tut.Transcribe(context.Background(), "lecture.mp3", "Thermodynamics", strings.NewReader("fake audio bytes"))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if transcript != "Today we cover entropy." {
		t.Errorf("transcript = %q", transcript)
	}
	if duration != 42 {
		t.Errorf("duration = %d, want 42", duration)
	}
	if whisperModel != "whisper-large-v3" {
		t.Errorf("whisper model = %q, want whisper-large-v3", whisperModel)
	}
}

func TestCleanTranscript_FallsBackToRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"server_error","message":"boom"}}`))
	}))
	defer server.Close()

	c := groq.NewClient("test-key", "test-model")
	c.SetTestTransport(server.URL)
	tut := New(c, "whisper-large-v3", slog.New(slog.DiscardHandler))

	raw := "um so like today we uh cover entropy"
	if got := tut.CleanTranscript(context.Background(), raw, "Thermodynamics"); got != raw {
		t.Errorf("expected raw transcript on failure, got %q", got)
	}
}

func TestCleanTranscript_UsesCleanedText(t *testing.T) {
	var captured capturedChat
	tut := testTutor(t, &captured, "  Today we cover entropy.  ")

	got := tut.CleanTranscript(context.Background(), "um today we uh cover entropy", "Thermodynamics")
	if got != "Today we cover entropy." {
		t.Errorf("cleaned = %q", got)
	}
	if !strings.Contains(captured.Messages[0].Content, "Subject: Thermodynamics") {
		t.Errorf("prompt missing subject context")
	}
}

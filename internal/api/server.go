package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hallway-labs/sage/internal/learning"
	"github.com/hallway-labs/sage/internal/tutor"
)

type Server struct {
	router *chi.Mux
	port   int
	engine *learning.Engine
	tutor  *tutor.Tutor
	logger *slog.Logger
}

func NewServer(port int, apiToken string, engine *learning.Engine, tut *tutor.Tutor, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		engine: engine,
		tutor:  tut,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Get("/", s.root)

	router.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/responses/like", s.likeResponse)
		r.Get("/learning/status", s.learningStatus)
		r.Post("/learning/reset", s.learningReset)
		r.Get("/learning/directive", s.learningDirective)
		r.Post("/ask", s.ask)
		r.Post("/quiz", s.quiz)
		r.Post("/transcribe", s.transcribe)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// BearerAuthMiddleware rejects requests without the configured bearer
// token. An empty token disables the check (local development).
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "sage",
		"status":  "ok",
	})
}

// LikeRequest is the payload for POST /responses/like.
type LikeRequest struct {
	UserID     string `json:"user_id"`
	AnswerText string `json:"answer_text"`
	Question   string `json:"question"`
	Mode       string `json:"mode"`
}

func (s *Server) likeResponse(w http.ResponseWriter, r *http.Request) {
	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}
	if req.AnswerText == "" {
		http.Error(w, `{"error":"answer_text is required"}`, http.StatusBadRequest)
		return
	}

	receipt, err := s.engine.OnLike(r.Context(), userID, req.AnswerText, req.Question, learning.Mode(req.Mode))
	if err != nil {
		s.logger.Error("failed to record like", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to record like"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) learningStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Status(r.Context(), userID))
}

// ResetRequest is the payload for POST /learning/reset.
type ResetRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) learningReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}

	if err := s.engine.Reset(r.Context(), userID); err != nil {
		s.logger.Error("failed to reset learning profile", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to reset learning profile"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) learningDirective(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	directive := s.engine.Directive(r.Context(), userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"directive": directive,
		"active":    directive != "",
	})
}

// AskRequest is the payload for POST /ask. Content is the study
// material the question is asked against; the caller supplies it.
type AskRequest struct {
	UserID   string       `json:"user_id"`
	Mode     string       `json:"mode"`
	Content  string       `json:"content"`
	Question string       `json:"question"`
	History  []tutor.Turn `json:"history"`
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, `{"error":"question is required"}`, http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = string(learning.ModeTutor)
	}

	directive := s.engine.Directive(r.Context(), userID)

	answer, err := s.tutor.Ask(r.Context(), learning.Mode(req.Mode), req.Content, req.Question, req.History, directive)
	switch {
	case errors.Is(err, tutor.ErrInvalidMode):
		http.Error(w, fmt.Sprintf(`{"error":"invalid mode: %q"}`, req.Mode), http.StatusBadRequest)
		return
	case errors.Is(err, tutor.ErrContextTooLarge):
		http.Error(w, `{"error":"content too large"}`, http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		s.logger.Error("ask failed", "user_id", userID, "error", err)
		http.Error(w, `{"error":"failed to generate answer"}`, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":       answer,
		"personalized": directive != "",
	})
}

// QuizRequest is the payload for POST /quiz.
type QuizRequest struct {
	Content      string `json:"content"`
	NumQuestions int    `json:"num_questions"`
}

func (s *Server) quiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, `{"error":"content is required"}`, http.StatusBadRequest)
		return
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = 5
	}

	quiz, err := s.tutor.Quiz(r.Context(), req.Content, req.NumQuestions)
	if err != nil {
		s.logger.Error("quiz generation failed", "error", err)
		http.Error(w, `{"error":"failed to generate quiz"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"quiz": quiz})
}

// maxAudioUploadBytes bounds the in-memory portion of an upload;
// larger files spill to disk via the multipart reader.
const maxAudioUploadBytes = 32 << 20

// transcribe handles POST /transcribe: multipart audio upload in the
// "file" field, optional "subject" field for cleanup context.
func (s *Server) transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid multipart form: %v"}`, err), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	subject := r.FormValue("subject")
	if subject == "" {
		subject = "general"
	}

	transcript, duration, err := s.tutor.Transcribe(r.Context(), header.Filename, subject, file)
	if err != nil {
		s.logger.Error("transcription failed", "filename", header.Filename, "error", err)
		http.Error(w, `{"error":"failed to transcribe audio"}`, http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transcript":       transcript,
		"duration_seconds": duration,
	})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

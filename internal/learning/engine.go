package learning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Storage limits for pending likes.
const (
	maxAnswerChars   = 5000
	maxQuestionChars = 500
)

// SubjectProfileUpdated is published after every successful fold.
const SubjectProfileUpdated = "campus.sage.profile.updated"

// Publisher is the event-bus surface the engine needs. Optional: a nil
// publisher disables event emission.
type Publisher interface {
	Publish(subject string, data any) error
}

// Engine owns the like → fold → profile pipeline. All profile mutation
// goes through here.
type Engine struct {
	store  Store
	bus    Publisher
	logger *slog.Logger
}

func NewEngine(store Store, bus Publisher, logger *slog.Logger) *Engine {
	return &Engine{store: store, bus: bus, logger: logger}
}

// LikeReceipt reports the learning state after a like was recorded.
type LikeReceipt struct {
	PendingLikes   int `json:"pending_likes"`
	TotalProcessed int `json:"total_processed"`
	NextAnalysisAt int `json:"next_analysis_at"`
}

// Learning system status values.
const (
	StatusActive   = "active"
	StatusLearning = "learning"
	StatusInactive = "inactive"
)

// LearningStatus is the minimal state exposed to users. No score
// details are shown.
type LearningStatus struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	TotalLikes int    `json:"total_likes"`
}

// OnLike records a liked answer and runs the fold check. Any store
// failure aborts the whole operation and propagates; partial state is
// never left behind (the fold itself is one store transaction).
func (e *Engine) OnLike(ctx context.Context, userID uuid.UUID, answerText, questionText string, mode Mode) (*LikeReceipt, error) {
	switch mode {
	case ModeTutor, ModePractice, ModeExam:
	default:
		mode = ModeTutor
	}

	like := LikedAnswer{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      truncateChars(answerText, maxAnswerChars),
		Question:  truncateChars(questionText, maxQuestionChars),
		Mode:      mode,
		Features:  Analyze(answerText),
		CreatedAt: time.Now().UTC(),
	}

	if err := e.store.AppendPending(ctx, like); err != nil {
		return nil, fmt.Errorf("append pending like: %w", err)
	}

	if err := e.maybeFold(ctx, userID); err != nil {
		return nil, err
	}

	pending, err := e.store.CountPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count pending likes: %w", err)
	}
	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	receipt := &LikeReceipt{PendingLikes: pending}
	if profile != nil {
		receipt.TotalProcessed = profile.TotalLikes
	}
	if pending < likesBeforeAnalysis {
		receipt.NextAnalysisAt = likesBeforeAnalysis - pending
	}
	return receipt, nil
}

// maybeFold consumes the pending batch once the activation threshold is
// reached. The upsert and the exact-ID delete happen in one store
// transaction, so the batch is folded all-or-nothing and likes appended
// mid-fold are left for the next one.
func (e *Engine) maybeFold(ctx context.Context, userID uuid.UUID) error {
	pending, err := e.store.GetPending(ctx, userID)
	if err != nil {
		return fmt.Errorf("get pending likes: %w", err)
	}
	if len(pending) < likesBeforeAnalysis {
		return nil
	}

	batch := make([]FeatureVector, len(pending))
	consumed := make([]uuid.UUID, len(pending))
	for i, like := range pending {
		batch[i] = like.Features
		consumed[i] = like.ID
	}

	fresh := ScoreBatch(batch)
	if fresh == nil {
		return nil
	}

	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	now := time.Now().UTC()
	var next Profile
	if profile == nil {
		next = Profile{
			UserID:         userID,
			Scores:         *fresh,
			TotalLikes:     len(pending),
			LastAnalyzedAt: now,
			UpdatedAt:      now,
		}
	} else {
		next = *profile
		next.Scores = BlendScores(profile.Scores, profile.TotalLikes, *fresh)
		next.TotalLikes += len(pending)
		next.LastAnalyzedAt = now
		next.UpdatedAt = now
	}

	if err := e.store.FoldProfile(ctx, &next, consumed); err != nil {
		if errors.Is(err, ErrStaleFold) {
			e.logger.Info("pending batch folded concurrently, discarding blend", "user_id", userID)
			return nil
		}
		return fmt.Errorf("fold profile: %w", err)
	}

	e.logger.Info("learning profile updated",
		"user_id", userID,
		"likes_folded", len(pending),
		"total_likes", next.TotalLikes,
	)

	if e.bus != nil {
		if err := e.bus.Publish(SubjectProfileUpdated, map[string]any{
			"user_id":      userID.String(),
			"total_likes":  next.TotalLikes,
			"likes_folded": len(pending),
			"updated_at":   now.Format(time.RFC3339),
		}); err != nil {
			e.logger.Warn("failed to publish profile update", "error", err)
		}
	}
	return nil
}

// Status reports the learning state. Never fails: on store trouble it
// degrades to inactive, since personalization is an enhancement.
func (e *Engine) Status(ctx context.Context, userID uuid.UUID) LearningStatus {
	inactive := LearningStatus{
		Status:  StatusInactive,
		Message: "Like responses to activate personalization",
	}

	pending, err := e.store.CountPending(ctx, userID)
	if err != nil {
		e.logger.Warn("pending count failed, reporting inactive", "user_id", userID, "error", err)
		return inactive
	}
	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		e.logger.Warn("profile lookup failed, reporting inactive", "user_id", userID, "error", err)
		return inactive
	}

	switch {
	case profile != nil && profile.TotalLikes >= likesBeforeAnalysis:
		return LearningStatus{
			Status:     StatusActive,
			Message:    "AI is personalized to your learning style",
			TotalLikes: profile.TotalLikes + pending,
		}
	case profile != nil || pending > 0:
		total := pending
		if profile != nil {
			total += profile.TotalLikes
		}
		return LearningStatus{
			Status:     StatusLearning,
			Message:    fmt.Sprintf("Like %d more responses to activate personalization", likesBeforeAnalysis-pending),
			TotalLikes: total,
		}
	default:
		return LearningStatus{
			Status:  StatusInactive,
			Message: "Like responses you find helpful to activate personalization",
		}
	}
}

// Reset deletes the learned profile and any pending likes. Idempotent.
func (e *Engine) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := e.store.DeleteProfile(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := e.store.DeletePending(ctx, userID); err != nil {
		return fmt.Errorf("delete pending likes: %w", err)
	}
	e.logger.Info("learning profile reset", "user_id", userID)
	return nil
}

// Directive fetches the user's profile and renders prompt instructions.
// Never fails: any lookup trouble yields no personalization.
func (e *Engine) Directive(ctx context.Context, userID uuid.UUID) string {
	profile, err := e.store.GetProfile(ctx, userID)
	if err != nil {
		e.logger.Warn("profile lookup failed, skipping personalization", "user_id", userID, "error", err)
		return ""
	}
	return BuildDirective(profile)
}

// truncateChars limits a string to max characters, not bytes, so a
// multi-byte rune is never split.
func truncateChars(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

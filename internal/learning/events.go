package learning

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// LikeEvent is the payload other services publish when a user likes an
// answer outside the HTTP surface (e.g. the app gateway over NATS).
type LikeEvent struct {
	UserID     string `json:"user_id"`
	AnswerText string `json:"answer_text"`
	Question   string `json:"question"`
	Mode       string `json:"mode"`
}

// HandleLikeEvent is the bus handler for like events. Malformed events
// are logged and dropped; there is no caller to report to.
func (e *Engine) HandleLikeEvent(subject string, data []byte) {
	var evt LikeEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		e.logger.Error("failed to parse like event", "subject", subject, "error", err)
		return
	}

	userID, err := uuid.Parse(evt.UserID)
	if err != nil {
		e.logger.Error("invalid user id in like event", "user_id", evt.UserID, "error", err)
		return
	}
	if evt.AnswerText == "" {
		e.logger.Warn("like event without answer text, dropping", "user_id", evt.UserID)
		return
	}

	if _, err := e.OnLike(context.Background(), userID, evt.AnswerText, evt.Question, Mode(evt.Mode)); err != nil {
		e.logger.Error("failed to process like event", "user_id", evt.UserID, "error", err)
	}
}

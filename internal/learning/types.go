package learning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrStaleFold is returned by FoldProfile when some of the batch was
// already consumed by a concurrent fold. The caller's blend is based on
// likes that no longer exist and must be discarded, or total_likes
// would double-count the batch.
var ErrStaleFold = errors.New("pending batch already folded")

// Mode is the study mode that produced an answer.
type Mode string

const (
	ModeTutor    Mode = "tutor"
	ModePractice Mode = "practice"
	ModeExam     Mode = "exam"
)

// FeatureVector holds the structural indicators extracted from one
// answer's text. Derived deterministically; immutable once computed.
type FeatureVector struct {
	Length           int  `json:"length"`
	HasBullets       bool `json:"has_bullets"`
	HasNumberedSteps bool `json:"has_numbered_steps"`
	HasExamples      bool `json:"has_examples"`
	HasAnalogies     bool `json:"has_analogies"`
	HasDefinitions   bool `json:"has_definitions"`
	StepCount        int  `json:"step_count"`
	ExampleCount     int  `json:"example_count"`
}

// LikedAnswer is a pending like waiting to be folded into the user's
// profile. Consumed exactly once, as part of one batch.
type LikedAnswer struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Text      string        `json:"text"`
	Question  string        `json:"question"`
	Mode      Mode          `json:"mode"`
	Features  FeatureVector `json:"features"`
	CreatedAt time.Time     `json:"created_at"`
}

// Scores is one learning-style score vector. Every field is in [0,100].
type Scores struct {
	Visual              int `json:"visual_score"`
	Verbal              int `json:"verbal_score"`
	ReadingWriting      int `json:"reading_writing_score"`
	TheoryVsExample     int `json:"theory_vs_example"`
	DetailLevel         int `json:"detail_level"`
	StructurePreference int `json:"structure_preference"`
}

// Profile is a user's learned style profile. It exists only after the
// first fold and is mutated only by the engine.
type Profile struct {
	UserID uuid.UUID `json:"user_id"`
	Scores
	TotalLikes     int       `json:"total_likes"`
	LastAnalyzedAt time.Time `json:"last_analyzed_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store is the persistence surface the engine needs. GetProfile returns
// (nil, nil) when the user has no profile yet, so callers can tell
// "no profile" apart from a store failure.
//
// FoldProfile must upsert the profile and delete exactly the given
// pending like IDs in one transaction. Likes appended while a fold is
// in flight survive to the next fold. If any of the given IDs are
// already gone, the whole fold rolls back and ErrStaleFold is returned.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	DeleteProfile(ctx context.Context, userID uuid.UUID) error

	GetPending(ctx context.Context, userID uuid.UUID) ([]LikedAnswer, error)
	AppendPending(ctx context.Context, like LikedAnswer) error
	CountPending(ctx context.Context, userID uuid.UUID) (int, error)
	DeletePending(ctx context.Context, userID uuid.UUID) error

	FoldProfile(ctx context.Context, profile *Profile, consumed []uuid.UUID) error
}

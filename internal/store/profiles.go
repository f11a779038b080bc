package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hallway-labs/sage/internal/learning"
)

// GetProfile fetches a user's learned profile. Returns (nil, nil) when
// the user has no profile yet; an error only on a real store failure.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*learning.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, visual_score, verbal_score, reading_writing_score,
		       theory_vs_example, detail_level, structure_preference,
		       total_likes, last_analyzed_at, updated_at
		FROM learned_profiles
		WHERE user_id = $1`,
		userID,
	)

	var p learning.Profile
	err := row.Scan(&p.UserID, &p.Visual, &p.Verbal, &p.ReadingWriting,
		&p.TheoryVsExample, &p.DetailLevel, &p.StructurePreference,
		&p.TotalLikes, &p.LastAnalyzedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// DeleteProfile removes a user's learned profile. Deleting a missing
// profile is not an error.
func (s *Store) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM learned_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// FoldProfile upserts the profile and deletes exactly the consumed
// pending likes in one transaction. Likes appended while the fold was
// being computed are untouched and roll into the next batch. When a
// concurrent fold got to the batch first the delete comes up short, the
// transaction rolls back, and learning.ErrStaleFold is returned.
func (s *Store) FoldProfile(ctx context.Context, p *learning.Profile, consumed []uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO learned_profiles (user_id, visual_score, verbal_score, reading_writing_score,
			theory_vs_example, detail_level, structure_preference,
			total_likes, last_analyzed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id)
		DO UPDATE SET
			visual_score = $2,
			verbal_score = $3,
			reading_writing_score = $4,
			theory_vs_example = $5,
			detail_level = $6,
			structure_preference = $7,
			total_likes = $8,
			last_analyzed_at = $9,
			updated_at = $10`,
		p.UserID, p.Visual, p.Verbal, p.ReadingWriting,
		p.TheoryVsExample, p.DetailLevel, p.StructurePreference,
		p.TotalLikes, p.LastAnalyzedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM liked_answers WHERE id = ANY($1)`, consumed)
	if err != nil {
		return fmt.Errorf("delete folded likes: %w", err)
	}
	// A concurrent fold may have consumed part of this batch already.
	// Committing anyway would fold those likes twice, so roll back.
	if int(tag.RowsAffected()) != len(consumed) {
		return learning.ErrStaleFold
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit fold: %w", err)
	}
	return nil
}

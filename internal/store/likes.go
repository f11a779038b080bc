package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hallway-labs/sage/internal/learning"
)

// AppendPending stores a liked answer with its precomputed features.
func (s *Store) AppendPending(ctx context.Context, like learning.LikedAnswer) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO liked_answers (id, user_id, answer_text, question, mode,
			length, has_bullets, has_numbered_steps, has_examples,
			has_analogies, has_definitions, step_count, example_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		like.ID, like.UserID, like.Text, like.Question, like.Mode,
		like.Features.Length, like.Features.HasBullets, like.Features.HasNumberedSteps,
		like.Features.HasExamples, like.Features.HasAnalogies, like.Features.HasDefinitions,
		like.Features.StepCount, like.Features.ExampleCount, like.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert liked answer: %w", err)
	}
	return nil
}

// GetPending returns all unfolded liked answers for a user, oldest first.
func (s *Store) GetPending(ctx context.Context, userID uuid.UUID) ([]learning.LikedAnswer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, answer_text, question, mode,
		       length, has_bullets, has_numbered_steps, has_examples,
		       has_analogies, has_definitions, step_count, example_count, created_at
		FROM liked_answers
		WHERE user_id = $1
		ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query liked answers: %w", err)
	}
	defer rows.Close()

	var likes []learning.LikedAnswer
	for rows.Next() {
		var l learning.LikedAnswer
		err := rows.Scan(&l.ID, &l.UserID, &l.Text, &l.Question, &l.Mode,
			&l.Features.Length, &l.Features.HasBullets, &l.Features.HasNumberedSteps,
			&l.Features.HasExamples, &l.Features.HasAnalogies, &l.Features.HasDefinitions,
			&l.Features.StepCount, &l.Features.ExampleCount, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan liked answer: %w", err)
		}
		likes = append(likes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked answers: %w", err)
	}
	return likes, nil
}

// CountPending counts a user's unfolded liked answers.
func (s *Store) CountPending(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM liked_answers WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count liked answers: %w", err)
	}
	return n, nil
}

// DeletePending bulk-deletes a user's pending likes. Used by reset;
// folds delete by explicit ID set instead (see FoldProfile).
func (s *Store) DeletePending(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM liked_answers WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete liked answers: %w", err)
	}
	return nil
}

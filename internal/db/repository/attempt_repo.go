package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/courseloop/assessment-platform/internal/attempt"
)

// AttemptRepository appends graded attempt results. Rows are immutable;
// retries create new rows.
type AttemptRepository struct {
	db DB
}

var _ attempt.Store = (*AttemptRepository)(nil)

func NewAttemptRepository(db DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Insert(ctx context.Context, res attempt.Result) error {
	selections, err := json.Marshal(res.Selections)
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO attempts (
			attempt_id, item_id, user_id, score, max_score,
			correct_count, total_units, selections, time_spent_seconds, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		res.ID, res.ItemID, res.UserID, res.Score, res.MaxScore,
		res.CorrectCount, res.TotalUnits, selections, res.TimeSpentSeconds, res.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

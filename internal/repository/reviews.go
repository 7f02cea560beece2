package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ratul0407/collab-study-server/internal/model"
)

// CreateReview inserts the review and bumps the session's rating
// counter in one transaction, so neither write can land without the
// other. Returns false when the referenced session does not exist.
func (s *Store) CreateReview(ctx context.Context, review model.Review) (bool, error) {
	created := false
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE sessions SET rating = rating + 1 WHERE id = $1`, review.SessionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		created = true
		_, err = tx.Exec(ctx, `
			INSERT INTO reviews (id, session_id, student_email, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, review.ID, review.SessionID, review.StudentEmail, review.Rating, review.Comment, review.CreatedAt)
		return err
	})
	return created, err
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ratul0407/collab-study-server/internal/model"
)

const sessionColumns = `id, tutor_email, tutor_name, title, description, reg_start, reg_end, class_start, class_end, fee, hours, mins, img, status, rating, created_at`

func scanSession(row pgx.Row) (model.Session, error) {
	var session model.Session
	err := row.Scan(
		&session.ID,
		&session.TutorEmail,
		&session.TutorName,
		&session.Title,
		&session.Description,
		&session.RegStart,
		&session.RegEnd,
		&session.ClassStart,
		&session.ClassEnd,
		&session.Fee,
		&session.Hours,
		&session.Mins,
		&session.Img,
		&session.Status,
		&session.Rating,
		&session.CreatedAt,
	)
	return session, err
}

func (s *Store) CreateSession(ctx context.Context, session model.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		session.ID, session.TutorEmail, session.TutorName, session.Title, session.Description,
		session.RegStart, session.RegEnd, session.ClassStart, session.ClassEnd,
		session.Fee, session.Hours, session.Mins, session.Img, session.Status, session.Rating, session.CreatedAt,
	)
	return err
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (model.Session, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, sessionID)
	return scanSession(row)
}

func (s *Store) ListSessionsByTutor(ctx context.Context, tutorEmail string) ([]model.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE tutor_email = $1
		ORDER BY created_at DESC
	`, tutorEmail)
}

// ListSessions returns every session ordered by status so the handler
// can group them into the status -> sessions mapping.
func (s *Store) ListSessions(ctx context.Context) ([]model.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		ORDER BY status, created_at DESC
	`)
}

func (s *Store) ListApprovedSessions(ctx context.Context, limit int) ([]model.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, model.StatusApproved, limit)
}

func (s *Store) querySessions(ctx context.Context, query string, args ...interface{}) ([]model.Session, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// SessionUpdate lists the editable session fields; nil fields are left
// unchanged. Img in particular is only written when supplied.
type SessionUpdate struct {
	Title       *string
	Description *string
	RegStart    *time.Time
	RegEnd      *time.Time
	ClassStart  *time.Time
	ClassEnd    *time.Time
	Fee         *float64
	Hours       *int
	Mins        *int
	Img         *string
}

func (s *Store) UpdateSession(ctx context.Context, sessionID string, update SessionUpdate) (bool, error) {
	sets := make([]string, 0, 10)
	args := make([]interface{}, 0, 11)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.RegStart != nil {
		add("reg_start", *update.RegStart)
	}
	if update.RegEnd != nil {
		add("reg_end", *update.RegEnd)
	}
	if update.ClassStart != nil {
		add("class_start", *update.ClassStart)
	}
	if update.ClassEnd != nil {
		add("class_end", *update.ClassEnd)
	}
	if update.Fee != nil {
		add("fee", *update.Fee)
	}
	if update.Hours != nil {
		add("hours", *update.Hours)
	}
	if update.Mins != nil {
		add("mins", *update.Mins)
	}
	if update.Img != nil {
		add("img", *update.Img)
	}
	if len(sets) == 0 {
		return s.sessionExists(ctx, sessionID)
	}

	args = append(args, sessionID)
	query := fmt.Sprintf("UPDATE sessions SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) sessionExists(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, sessionID).Scan(&exists)
	return exists, err
}

// SetSessionStatus updates status and, when fee is non-nil, the fee.
func (s *Store) SetSessionStatus(ctx context.Context, sessionID, status string, fee *float64) (bool, error) {
	var tag pgconn.CommandTag
	var err error
	if fee != nil {
		tag, err = s.pool.Exec(ctx, `UPDATE sessions SET status = $1, fee = $2 WHERE id = $3`, status, *fee, sessionID)
	} else {
		tag, err = s.pool.Exec(ctx, `UPDATE sessions SET status = $1 WHERE id = $2`, status, sessionID)
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RejectSession flips the session to Rejected and appends the audit
// record in one transaction. A missing session id returns false
// without writing anything.
func (s *Store) RejectSession(ctx context.Context, rejection model.Rejection) (bool, error) {
	rejected := false
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE sessions SET status = $1 WHERE id = $2`, model.StatusRejected, rejection.SessionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		rejected = true
		if rejection.ID == "" {
			rejection.ID = uuid.NewString()
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO session_rejections (id, session_id, reason, feedback, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, rejection.ID, rejection.SessionID, rejection.Reason, rejection.Feedback, rejection.CreatedAt)
		return err
	})
	return rejected, err
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

package repository

import (
	"context"

	"github.com/ratul0407/collab-study-server/internal/model"
)

func (s *Store) CreateNote(ctx context.Context, note model.Note) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notes (id, email, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, note.ID, note.Email, note.Title, note.Description, note.CreatedAt)
	return err
}

func (s *Store) ListNotesByEmail(ctx context.Context, email string) ([]model.Note, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, title, description, created_at
		FROM notes
		WHERE email = $1
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var note model.Note
		if err := rows.Scan(&note.ID, &note.Email, &note.Title, &note.Description, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (s *Store) UpdateNote(ctx context.Context, noteID, title, description string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notes SET title = $1, description = $2 WHERE id = $3
	`, title, description, noteID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteNote(ctx context.Context, noteID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

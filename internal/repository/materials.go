package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ratul0407/collab-study-server/internal/model"
)

func (s *Store) CreateMaterial(ctx context.Context, material model.Material) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO materials (id, tutor_email, session_id, title, link, img, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, material.ID, material.TutorEmail, material.SessionID, material.Title, material.Link, material.Img, material.CreatedAt)
	return err
}

func (s *Store) ListMaterials(ctx context.Context) ([]model.Material, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tutor_email, session_id, title, link, img, created_at
		FROM materials
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := make([]model.Material, 0)
	for rows.Next() {
		var material model.Material
		if err := rows.Scan(&material.ID, &material.TutorEmail, &material.SessionID, &material.Title, &material.Link, &material.Img, &material.CreatedAt); err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}
	return materials, rows.Err()
}

// ListMaterialsByTutor joins each material with display fields from
// the session it references.
func (s *Store) ListMaterialsByTutor(ctx context.Context, tutorEmail string) ([]model.MaterialWithSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.tutor_email, m.session_id, m.title, m.link, m.img, m.created_at,
		       s.title, s.img
		FROM materials m
		JOIN sessions s ON s.id = m.session_id
		WHERE m.tutor_email = $1
		ORDER BY m.created_at DESC
	`, tutorEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := make([]model.MaterialWithSession, 0)
	for rows.Next() {
		var material model.MaterialWithSession
		err := rows.Scan(
			&material.ID, &material.TutorEmail, &material.SessionID, &material.Title,
			&material.Link, &material.Img, &material.CreatedAt,
			&material.SessionTitle, &material.SessionImg,
		)
		if err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}
	return materials, rows.Err()
}

type MaterialUpdate struct {
	Title *string
	Link  *string
	Img   *string
}

func (s *Store) UpdateMaterial(ctx context.Context, materialID string, update MaterialUpdate) (bool, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Link != nil {
		add("link", *update.Link)
	}
	if update.Img != nil {
		add("img", *update.Img)
	}
	if len(sets) == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM materials WHERE id = $1)`, materialID).Scan(&exists)
		return exists, err
	}

	args = append(args, materialID)
	query := fmt.Sprintf("UPDATE materials SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteMaterial(ctx context.Context, materialID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, materialID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

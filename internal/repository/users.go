package repository

import (
	"context"

	"github.com/ratul0407/collab-study-server/internal/model"
)

// CreateUser registers a user if the email is new and otherwise
// returns the stored record unchanged. The second return reports
// whether a row was inserted. The ON CONFLICT clause makes concurrent
// duplicate registrations collapse into a single row.
func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, bool, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, role, photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, name, role, photo, created_at
	`, user.ID, user.Email, user.Name, user.Role, user.Photo, user.CreatedAt)

	var inserted model.User
	err := row.Scan(&inserted.ID, &inserted.Email, &inserted.Name, &inserted.Role, &inserted.Photo, &inserted.CreatedAt)
	if err == nil {
		return inserted, true, nil
	}

	existing, lookupErr := s.GetUserByEmail(ctx, user.Email)
	if lookupErr != nil {
		return model.User{}, false, lookupErr
	}
	return existing, false, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, role, photo, created_at
		FROM users
		WHERE email = $1
	`, email)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Photo, &user.CreatedAt)
	return user, err
}

func (s *Store) GetRoleByEmail(ctx context.Context, email string) (string, error) {
	var role string
	row := s.pool.QueryRow(ctx, `SELECT role FROM users WHERE email = $1`, email)
	err := row.Scan(&role)
	return role, err
}

// ListUsers returns a page of users excluding the caller's own record.
// The search term matches email or name case-insensitively; page is
// zero-based.
func (s *Store) ListUsers(ctx context.Context, excludeEmail, search string, page, limit int) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, name, role, photo, created_at
		FROM users
		WHERE email <> $1
		  AND (email ILIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4
	`, excludeEmail, search, page*limit, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Photo, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count)
	return count, err
}

func (s *Store) SetUserRole(ctx context.Context, userID, role string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListTutors(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, name, role, photo, created_at
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC
	`, model.RoleTutor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tutors := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Photo, &user.CreatedAt); err != nil {
			return nil, err
		}
		tutors = append(tutors, user)
	}
	return tutors, rows.Err()
}

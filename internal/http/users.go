package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ratul0407/collab-study-server/internal/model"
)

type registerUserRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Role  string `json:"role"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
}

func mapUser(user model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Photo:     user.Photo,
		CreatedAt: user.CreatedAt,
	}
}

// handleRegisterUser is idempotent: registering an email that already
// exists returns the stored record unchanged.
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email")
		return
	}

	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	user := model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Role:      strings.TrimSpace(strings.ToLower(req.Role)),
		Photo:     req.Photo,
		CreatedAt: time.Now().UTC(),
	}

	stored, created, err := s.store.CreateUser(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, mapUser(stored))
}

func (s *Server) handleGetRole(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))

	role, err := s.store.GetRoleByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, map[string]string{"role": ""})
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"role": role})
}

// handleListUsers pages through the directory, excluding the caller's
// own record so an admin does not manage themselves from the list.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	excludeEmail := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))
	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", 10)
	if limit == 0 {
		limit = 10
	}
	search := r.URL.Query().Get("search")

	users, err := s.store.ListUsers(r.Context(), excludeEmail, search, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, mapUser(user))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUsersCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.cachedUsersCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Role = strings.TrimSpace(strings.ToLower(req.Role))
	if !isValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "invalid_role")
		return
	}

	updated, err := s.store.SetUserRole(r.Context(), userID, req.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleListTutors(w http.ResponseWriter, r *http.Request) {
	tutors, err := s.store.ListTutors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]userResponse, 0, len(tutors))
	for _, tutor := range tutors {
		resp = append(resp, mapUser(tutor))
	}
	writeJSON(w, http.StatusOK, resp)
}

func isValidRole(role string) bool {
	switch role {
	case model.RoleStudent, model.RoleTutor, model.RoleAdmin:
		return true
	default:
		return false
	}
}

const usersCountKey = "collab-study:users-count"

// cachedUsersCount serves the admin dashboard counter from redis when
// available. The figure may lag the table by up to UsersCountTTL.
func (s *Server) cachedUsersCount(ctx context.Context) (int64, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, usersCountKey).Result(); err == nil {
			if count, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if s.redis != nil {
		_ = s.redis.Set(ctx, usersCountKey, strconv.FormatInt(count, 10), s.cfg.UsersCountTTL).Err()
	}
	return count, nil
}

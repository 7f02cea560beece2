package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ratul0407/collab-study-server/internal/model"
	"github.com/ratul0407/collab-study-server/internal/repository"
)

const homeSessionLimit = 6

type createSessionRequest struct {
	TutorName   string    `json:"tutorName"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RegStart    time.Time `json:"regStart"`
	RegEnd      time.Time `json:"regEnd"`
	ClassStart  time.Time `json:"classStart"`
	ClassEnd    time.Time `json:"classEnd"`
	Fee         float64   `json:"fee"`
	Hours       int       `json:"hours"`
	Mins        int       `json:"mins"`
	Img         string    `json:"img"`
}

type sessionResponse struct {
	ID          string    `json:"id"`
	TutorEmail  string    `json:"tutorEmail"`
	TutorName   string    `json:"tutorName"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RegStart    time.Time `json:"regStart"`
	RegEnd      time.Time `json:"regEnd"`
	ClassStart  time.Time `json:"classStart"`
	ClassEnd    time.Time `json:"classEnd"`
	Fee         float64   `json:"fee"`
	Hours       int       `json:"hours"`
	Mins        int       `json:"mins"`
	Img         string    `json:"img"`
	Status      string    `json:"status"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
}

func mapSession(session model.Session) sessionResponse {
	return sessionResponse{
		ID:          session.ID,
		TutorEmail:  session.TutorEmail,
		TutorName:   session.TutorName,
		Title:       session.Title,
		Description: session.Description,
		RegStart:    session.RegStart,
		RegEnd:      session.RegEnd,
		ClassStart:  session.ClassStart,
		ClassEnd:    session.ClassEnd,
		Fee:         session.Fee,
		Hours:       session.Hours,
		Mins:        session.Mins,
		Img:         session.Img,
		Status:      session.Status,
		Rating:      session.Rating,
		CreatedAt:   session.CreatedAt,
	}
}

func mapSessions(sessions []model.Session) []sessionResponse {
	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, mapSession(session))
	}
	return resp
}

// handleCreateSession creates a Pending session owned by the calling
// tutor; the tutor email always comes from the verified claim, never
// the body.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "missing_title")
		return
	}

	session := model.Session{
		ID:          uuid.NewString(),
		TutorEmail:  claims.Email,
		TutorName:   strings.TrimSpace(req.TutorName),
		Title:       req.Title,
		Description: req.Description,
		RegStart:    req.RegStart,
		RegEnd:      req.RegEnd,
		ClassStart:  req.ClassStart,
		ClassEnd:    req.ClassEnd,
		Fee:         req.Fee,
		Hours:       req.Hours,
		Mins:        req.Mins,
		Img:         req.Img,
		Status:      model.StatusPending,
		Rating:      0,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateSession(r.Context(), session); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapSession(session))
}

func (s *Server) handleSessionsByTutor(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))

	sessions, err := s.store.ListSessionsByTutor(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, mapSessions(sessions))
}

// handleSessionsGrouped returns every session keyed by its status; the
// keys are exactly the statuses present and the lists partition the
// session table.
func (s *Server) handleSessionsGrouped(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	grouped := make(map[string][]sessionResponse)
	for _, session := range sessions {
		grouped[session.Status] = append(grouped[session.Status], mapSession(session))
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (s *Server) handleHomeSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListApprovedSessions(r.Context(), homeSessionLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, mapSessions(sessions))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	session, err := s.store.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, mapSession(session))
}

type updateSessionRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	RegStart    *time.Time `json:"regStart,omitempty"`
	RegEnd      *time.Time `json:"regEnd,omitempty"`
	ClassStart  *time.Time `json:"classStart,omitempty"`
	ClassEnd    *time.Time `json:"classEnd,omitempty"`
	Fee         *float64   `json:"fee,omitempty"`
	Hours       *int       `json:"hours,omitempty"`
	Mins        *int       `json:"mins,omitempty"`
	Img         *string    `json:"img,omitempty"`
}

// handleUpdateSession applies a partial edit. An absent or empty img
// leaves the stored image untouched.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.SessionUpdate{
		Title:       req.Title,
		Description: req.Description,
		RegStart:    req.RegStart,
		RegEnd:      req.RegEnd,
		ClassStart:  req.ClassStart,
		ClassEnd:    req.ClassEnd,
		Fee:         req.Fee,
		Hours:       req.Hours,
		Mins:        req.Mins,
	}
	if req.Img != nil && strings.TrimSpace(*req.Img) != "" {
		update.Img = req.Img
	}

	updated, err := s.store.UpdateSession(r.Context(), sessionID, update)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type setStatusRequest struct {
	Status string   `json:"status"`
	Fee    *float64 `json:"fee,omitempty"`
}

func (s *Server) handleSetSessionStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Status = strings.TrimSpace(req.Status)
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "missing_status")
		return
	}

	updated, err := s.store.SetSessionStatus(r.Context(), sessionID, req.Status, req.Fee)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type rejectSessionRequest struct {
	Reason   string `json:"reason"`
	Feedback string `json:"feedback"`
}

// handleRejectSession flips the session to Rejected and records the
// reason as an audit entry. A missing id is a 404, never a new row.
func (s *Server) handleRejectSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req rejectSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	rejection := model.Rejection{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Reason:    req.Reason,
		Feedback:  req.Feedback,
		CreatedAt: time.Now().UTC(),
	}

	rejected, err := s.store.RejectSession(r.Context(), rejection)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !rejected {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

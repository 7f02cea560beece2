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

type bookSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type bookedSessionResponse struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	StudentEmail string    `json:"studentEmail"`
	TutorEmail   string    `json:"tutorEmail"`
	Title        string    `json:"title"`
	ClassStart   time.Time `json:"classStart"`
	ClassEnd     time.Time `json:"classEnd"`
	Fee          float64   `json:"fee"`
	Rating       int       `json:"rating"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// handleBookSession books the calling student onto a session. The
// unique constraint on (student, session) makes the duplicate check
// safe under concurrent requests.
func (s *Server) handleBookSession(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var req bookSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "missing_session_id")
		return
	}

	session, err := s.store.GetSession(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	booking := model.Booking{
		ID:           uuid.NewString(),
		StudentEmail: claims.Email,
		SessionID:    session.ID,
		TutorEmail:   session.TutorEmail,
		Title:        session.Title,
		ClassStart:   session.ClassStart,
		ClassEnd:     session.ClassEnd,
		Fee:          session.Fee,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateBooking(r.Context(), booking); err != nil {
		if errors.Is(err, repository.ErrAlreadyBooked) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "You have already booked this session"})
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, bookedSessionResponse{
		ID:           booking.ID,
		SessionID:    booking.SessionID,
		StudentEmail: booking.StudentEmail,
		TutorEmail:   booking.TutorEmail,
		Title:        booking.Title,
		ClassStart:   booking.ClassStart,
		ClassEnd:     booking.ClassEnd,
		Fee:          booking.Fee,
		Rating:       session.Rating,
		Status:       session.Status,
		CreatedAt:    booking.CreatedAt,
	})
}

// handleListBookings returns the student's bookings with the live
// session title, schedule, fee and rating joined in.
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))

	booked, err := s.store.ListBookingsByStudent(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]bookedSessionResponse, 0, len(booked))
	for _, entry := range booked {
		resp = append(resp, bookedSessionResponse{
			ID:           entry.ID,
			SessionID:    entry.SessionID,
			StudentEmail: entry.StudentEmail,
			TutorEmail:   entry.TutorEmail,
			Title:        entry.SessionTitle,
			ClassStart:   entry.ClassStart,
			ClassEnd:     entry.ClassEnd,
			Fee:          entry.SessionFee,
			Rating:       entry.Rating,
			Status:       entry.Status,
			CreatedAt:    entry.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type createReviewRequest struct {
	SessionID string `json:"sessionId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// handleCreateReview stores the review and bumps the session rating
// counter as one unit.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "missing_session_id")
		return
	}

	review := model.Review{
		ID:           uuid.NewString(),
		SessionID:    req.SessionID,
		StudentEmail: claims.Email,
		Rating:       req.Rating,
		Comment:      req.Comment,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.store.CreateReview(r.Context(), review)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !created {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

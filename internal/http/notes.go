package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ratul0407/collab-study-server/internal/model"
)

type noteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type noteResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func mapNote(note model.Note) noteResponse {
	return noteResponse{
		ID:          note.ID,
		Email:       note.Email,
		Title:       note.Title,
		Description: note.Description,
		CreatedAt:   note.CreatedAt,
	}
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "missing_title")
		return
	}

	note := model.Note{
		ID:          uuid.NewString(),
		Email:       claims.Email,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateNote(r.Context(), note); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapNote(note))
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))

	notes, err := s.store.ListNotesByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, mapNote(note))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update and delete require only a valid token, not a matching owner,
// mirroring how the notes surface has always behaved.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	updated, err := s.store.UpdateNote(r.Context(), noteID, req.Title, req.Description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "note_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteNote(r.Context(), noteID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "note_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

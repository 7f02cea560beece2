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

type createMaterialRequest struct {
	SessionID string `json:"sessionId"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Img       string `json:"img"`
}

type materialResponse struct {
	ID           string    `json:"id"`
	TutorEmail   string    `json:"tutorEmail"`
	SessionID    string    `json:"sessionId"`
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	Img          string    `json:"img"`
	SessionTitle string    `json:"sessionTitle,omitempty"`
	SessionImg   string    `json:"sessionImg,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func mapMaterial(material model.Material) materialResponse {
	return materialResponse{
		ID:         material.ID,
		TutorEmail: material.TutorEmail,
		SessionID:  material.SessionID,
		Title:      material.Title,
		Link:       material.Link,
		Img:        material.Img,
		CreatedAt:  material.CreatedAt,
	}
}

func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var req createMaterialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "missing_session_id")
		return
	}

	if _, err := s.store.GetSession(r.Context(), req.SessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	material := model.Material{
		ID:         uuid.NewString(),
		TutorEmail: claims.Email,
		SessionID:  req.SessionID,
		Title:      strings.TrimSpace(req.Title),
		Link:       req.Link,
		Img:        req.Img,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.CreateMaterial(r.Context(), material); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapMaterial(material))
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.ListMaterials(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]materialResponse, 0, len(materials))
	for _, material := range materials {
		resp = append(resp, mapMaterial(material))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMaterialsByTutor(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))

	materials, err := s.store.ListMaterialsByTutor(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]materialResponse, 0, len(materials))
	for _, material := range materials {
		entry := mapMaterial(material.Material)
		entry.SessionTitle = material.SessionTitle
		entry.SessionImg = material.SessionImg
		resp = append(resp, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateMaterialRequest struct {
	Title *string `json:"title,omitempty"`
	Link  *string `json:"link,omitempty"`
	Img   *string `json:"img,omitempty"`
}

func (s *Server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "id")

	var req updateMaterialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	updated, err := s.store.UpdateMaterial(r.Context(), materialID, repository.MaterialUpdate{
		Title: req.Title,
		Link:  req.Link,
		Img:   req.Img,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "material_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteMaterial(r.Context(), materialID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "material_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

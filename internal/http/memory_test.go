package http

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/ratul0407/collab-study-server/internal/model"
	"github.com/ratul0407/collab-study-server/internal/repository"
)

// memoryStore is an in-memory Store used by the handler tests.
type memoryStore struct {
	mu         sync.Mutex
	users      map[string]model.User // keyed by email
	sessions   map[string]model.Session
	notes      map[string]model.Note
	bookings   map[string]model.Booking
	reviews    map[string]model.Review
	materials  map[string]model.Material
	rejections []model.Rejection
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     map[string]model.User{},
		sessions:  map[string]model.Session{},
		notes:     map[string]model.Note{},
		bookings:  map[string]model.Booking{},
		reviews:   map[string]model.Review{},
		materials: map[string]model.Material{},
	}
}

func (m *memoryStore) Ping(context.Context) error { return nil }

func (m *memoryStore) seedUser(user model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
}

func (m *memoryStore) seedSession(session model.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
}

func (m *memoryStore) CreateUser(_ context.Context, user model.User) (model.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[user.Email]; ok {
		return existing, false, nil
	}
	m.users[user.Email] = user
	return user, true, nil
}

func (m *memoryStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return model.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memoryStore) GetRoleByEmail(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return user.Role, nil
}

func (m *memoryStore) ListUsers(_ context.Context, excludeEmail, search string, page, limit int) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(search)
	matched := make([]model.User, 0)
	for _, user := range m.users {
		if user.Email == excludeEmail {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(user.Email), needle) && !strings.Contains(strings.ToLower(user.Name), needle) {
			continue
		}
		matched = append(matched, user)
	}
	start := page * limit
	if start >= len(matched) {
		return []model.User{}, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (m *memoryStore) CountUsers(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memoryStore) SetUserRole(_ context.Context, userID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, user := range m.users {
		if user.ID == userID {
			user.Role = role
			m.users[email] = user
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) ListTutors(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tutors := make([]model.User, 0)
	for _, user := range m.users {
		if user.Role == model.RoleTutor {
			tutors = append(tutors, user)
		}
	}
	return tutors, nil
}

func (m *memoryStore) CreateSession(_ context.Context, session model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *memoryStore) GetSession(_ context.Context, sessionID string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return model.Session{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *memoryStore) ListSessionsByTutor(_ context.Context, tutorEmail string) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := make([]model.Session, 0)
	for _, session := range m.sessions {
		if session.TutorEmail == tutorEmail {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (m *memoryStore) ListSessions(context.Context) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := make([]model.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (m *memoryStore) ListApprovedSessions(_ context.Context, limit int) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := make([]model.Session, 0)
	for _, session := range m.sessions {
		if session.Status == model.StatusApproved && len(sessions) < limit {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (m *memoryStore) UpdateSession(_ context.Context, sessionID string, update repository.SessionUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if update.Title != nil {
		session.Title = *update.Title
	}
	if update.Description != nil {
		session.Description = *update.Description
	}
	if update.RegStart != nil {
		session.RegStart = *update.RegStart
	}
	if update.RegEnd != nil {
		session.RegEnd = *update.RegEnd
	}
	if update.ClassStart != nil {
		session.ClassStart = *update.ClassStart
	}
	if update.ClassEnd != nil {
		session.ClassEnd = *update.ClassEnd
	}
	if update.Fee != nil {
		session.Fee = *update.Fee
	}
	if update.Hours != nil {
		session.Hours = *update.Hours
	}
	if update.Mins != nil {
		session.Mins = *update.Mins
	}
	if update.Img != nil {
		session.Img = *update.Img
	}
	m.sessions[sessionID] = session
	return true, nil
}

func (m *memoryStore) SetSessionStatus(_ context.Context, sessionID, status string, fee *float64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return false, nil
	}
	session.Status = status
	if fee != nil {
		session.Fee = *fee
	}
	m.sessions[sessionID] = session
	return true, nil
}

func (m *memoryStore) RejectSession(_ context.Context, rejection model.Rejection) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[rejection.SessionID]
	if !ok {
		return false, nil
	}
	session.Status = model.StatusRejected
	m.sessions[rejection.SessionID] = session
	m.rejections = append(m.rejections, rejection)
	return true, nil
}

func (m *memoryStore) DeleteSession(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(m.sessions, sessionID)
	return true, nil
}

func (m *memoryStore) CreateNote(_ context.Context, note model.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[note.ID] = note
	return nil
}

func (m *memoryStore) ListNotesByEmail(_ context.Context, email string) ([]model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notes := make([]model.Note, 0)
	for _, note := range m.notes {
		if note.Email == email {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (m *memoryStore) UpdateNote(_ context.Context, noteID, title, description string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.notes[noteID]
	if !ok {
		return false, nil
	}
	note.Title = title
	note.Description = description
	m.notes[noteID] = note
	return true, nil
}

func (m *memoryStore) DeleteNote(_ context.Context, noteID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[noteID]; !ok {
		return false, nil
	}
	delete(m.notes, noteID)
	return true, nil
}

func (m *memoryStore) CreateBooking(_ context.Context, booking model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.StudentEmail == booking.StudentEmail && existing.SessionID == booking.SessionID {
			return repository.ErrAlreadyBooked
		}
	}
	m.bookings[booking.ID] = booking
	return nil
}

func (m *memoryStore) ListBookingsByStudent(_ context.Context, studentEmail string) ([]model.BookedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booked := make([]model.BookedSession, 0)
	for _, booking := range m.bookings {
		if booking.StudentEmail != studentEmail {
			continue
		}
		session, ok := m.sessions[booking.SessionID]
		if !ok {
			continue
		}
		booked = append(booked, model.BookedSession{
			Booking:      booking,
			SessionTitle: session.Title,
			SessionFee:   session.Fee,
			Rating:       session.Rating,
			Status:       session.Status,
		})
	}
	return booked, nil
}

func (m *memoryStore) CreateReview(_ context.Context, review model.Review) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[review.SessionID]
	if !ok {
		return false, nil
	}
	session.Rating++
	m.sessions[review.SessionID] = session
	m.reviews[review.ID] = review
	return true, nil
}

func (m *memoryStore) CreateMaterial(_ context.Context, material model.Material) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.materials[material.ID] = material
	return nil
}

func (m *memoryStore) ListMaterials(context.Context) ([]model.Material, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	materials := make([]model.Material, 0, len(m.materials))
	for _, material := range m.materials {
		materials = append(materials, material)
	}
	return materials, nil
}

func (m *memoryStore) ListMaterialsByTutor(_ context.Context, tutorEmail string) ([]model.MaterialWithSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	materials := make([]model.MaterialWithSession, 0)
	for _, material := range m.materials {
		if material.TutorEmail != tutorEmail {
			continue
		}
		session := m.sessions[material.SessionID]
		materials = append(materials, model.MaterialWithSession{
			Material:     material,
			SessionTitle: session.Title,
			SessionImg:   session.Img,
		})
	}
	return materials, nil
}

func (m *memoryStore) UpdateMaterial(_ context.Context, materialID string, update repository.MaterialUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	material, ok := m.materials[materialID]
	if !ok {
		return false, nil
	}
	if update.Title != nil {
		material.Title = *update.Title
	}
	if update.Link != nil {
		material.Link = *update.Link
	}
	if update.Img != nil {
		material.Img = *update.Img
	}
	m.materials[materialID] = material
	return true, nil
}

func (m *memoryStore) DeleteMaterial(_ context.Context, materialID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.materials[materialID]; !ok {
		return false, nil
	}
	delete(m.materials, materialID)
	return true, nil
}

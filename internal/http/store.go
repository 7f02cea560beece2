package http

import (
	"context"

	"github.com/ratul0407/collab-study-server/internal/model"
	"github.com/ratul0407/collab-study-server/internal/repository"
)

// Store is the persistence surface the HTTP layer depends on,
// implemented by *repository.Store.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user model.User) (model.User, bool, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetRoleByEmail(ctx context.Context, email string) (string, error)
	ListUsers(ctx context.Context, excludeEmail, search string, page, limit int) ([]model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	SetUserRole(ctx context.Context, userID, role string) (bool, error)
	ListTutors(ctx context.Context) ([]model.User, error)

	CreateSession(ctx context.Context, session model.Session) error
	GetSession(ctx context.Context, sessionID string) (model.Session, error)
	ListSessionsByTutor(ctx context.Context, tutorEmail string) ([]model.Session, error)
	ListSessions(ctx context.Context) ([]model.Session, error)
	ListApprovedSessions(ctx context.Context, limit int) ([]model.Session, error)
	UpdateSession(ctx context.Context, sessionID string, update repository.SessionUpdate) (bool, error)
	SetSessionStatus(ctx context.Context, sessionID, status string, fee *float64) (bool, error)
	RejectSession(ctx context.Context, rejection model.Rejection) (bool, error)
	DeleteSession(ctx context.Context, sessionID string) (bool, error)

	CreateNote(ctx context.Context, note model.Note) error
	ListNotesByEmail(ctx context.Context, email string) ([]model.Note, error)
	UpdateNote(ctx context.Context, noteID, title, description string) (bool, error)
	DeleteNote(ctx context.Context, noteID string) (bool, error)

	CreateBooking(ctx context.Context, booking model.Booking) error
	ListBookingsByStudent(ctx context.Context, studentEmail string) ([]model.BookedSession, error)

	CreateReview(ctx context.Context, review model.Review) (bool, error)

	CreateMaterial(ctx context.Context, material model.Material) error
	ListMaterials(ctx context.Context) ([]model.Material, error)
	ListMaterialsByTutor(ctx context.Context, tutorEmail string) ([]model.MaterialWithSession, error)
	UpdateMaterial(ctx context.Context, materialID string, update repository.MaterialUpdate) (bool, error)
	DeleteMaterial(ctx context.Context, materialID string) (bool, error)
}

var _ Store = (*repository.Store)(nil)

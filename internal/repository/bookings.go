package repository

import (
	"context"

	"github.com/ratul0407/collab-study-server/internal/model"
)

// CreateBooking inserts a booking and maps the unique-constraint
// violation on (student_email, session_id) to ErrAlreadyBooked.
func (s *Store) CreateBooking(ctx context.Context, booking model.Booking) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bookings (id, student_email, session_id, tutor_email, title, class_start, class_end, fee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		booking.ID, booking.StudentEmail, booking.SessionID, booking.TutorEmail,
		booking.Title, booking.ClassStart, booking.ClassEnd, booking.Fee, booking.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyBooked
	}
	return err
}

// ListBookingsByStudent joins each booking with the live session so
// the response carries the current title, schedule, fee and rating.
func (s *Store) ListBookingsByStudent(ctx context.Context, studentEmail string) ([]model.BookedSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT b.id, b.student_email, b.session_id, b.tutor_email, b.title,
		       b.class_start, b.class_end, b.fee, b.created_at,
		       s.title, s.fee, s.rating, s.status
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		WHERE b.student_email = $1
		ORDER BY b.created_at DESC
	`, studentEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make([]model.BookedSession, 0)
	for rows.Next() {
		var entry model.BookedSession
		err := rows.Scan(
			&entry.ID, &entry.StudentEmail, &entry.SessionID, &entry.TutorEmail, &entry.Title,
			&entry.ClassStart, &entry.ClassEnd, &entry.Fee, &entry.CreatedAt,
			&entry.SessionTitle, &entry.SessionFee, &entry.Rating, &entry.Status,
		)
		if err != nil {
			return nil, err
		}
		booked = append(booked, entry)
	}
	return booked, rows.Err()
}

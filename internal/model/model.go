package model

import "time"

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type User struct {
	ID        string
	Email     string
	Name      string
	Role      string
	Photo     string
	CreatedAt time.Time
}

type Session struct {
	ID          string
	TutorEmail  string
	TutorName   string
	Title       string
	Description string
	RegStart    time.Time
	RegEnd      time.Time
	ClassStart  time.Time
	ClassEnd    time.Time
	Fee         float64
	Hours       int
	Mins        int
	Img         string
	Status      string
	Rating      int
	CreatedAt   time.Time
}

// Rejection is the append-only audit record written when an admin
// rejects a session.
type Rejection struct {
	ID        string
	SessionID string
	Reason    string
	Feedback  string
	CreatedAt time.Time
}

type Note struct {
	ID          string
	Email       string
	Title       string
	Description string
	CreatedAt   time.Time
}

// Booking snapshots the session fields a student saw at booking time.
type Booking struct {
	ID           string
	StudentEmail string
	SessionID    string
	TutorEmail   string
	Title        string
	ClassStart   time.Time
	ClassEnd     time.Time
	Fee          float64
	CreatedAt    time.Time
}

// BookedSession is a booking enriched with the live session fields.
type BookedSession struct {
	Booking
	SessionTitle string
	SessionFee   float64
	Rating       int
	Status       string
}

type Review struct {
	ID           string
	SessionID    string
	StudentEmail string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

type Material struct {
	ID         string
	TutorEmail string
	SessionID  string
	Title      string
	Link       string
	Img        string
	CreatedAt  time.Time
}

// MaterialWithSession is a material enriched with display fields from
// the session it references.
type MaterialWithSession struct {
	Material
	SessionTitle string
	SessionImg   string
}

package models

import "time"

// User represents a person who signed up for the assessment
type User struct {
	ID          string
	Name        string
	Age         int
	Grade       int
	Mobile      int64
	DateOfBirth string
	State       string
	CreatedAt   time.Time
}

// Student is the assessment-facing mirror of a User. StudentID equals User.ID.
type Student struct {
	StudentID  string
	Name       string
	Age        int
	GradeLevel int
	State      string
}

// Session represents an authenticated session.
// SessionID is the stored bcrypt hash; clients present it back verbatim.
type Session struct {
	SessionID string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return !time.Now().Before(s.ExpiresAt)
}

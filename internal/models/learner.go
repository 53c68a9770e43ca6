package models

import "time"

// Learner represents a registered learner account
type Learner struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an authenticated learner session
type Session struct {
	ID        string
	LearnerID int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired returns true if the session has passed its expiry time
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

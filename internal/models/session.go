package models

import "time"

// Session correlates a client-held token with an optional authenticated user.
// A session with a nil UserID is anonymous.
type Session struct {
	ID        int64     `json:"id"`
	TokenHash string    `json:"-"` // Never expose in JSON
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Authenticated returns true if the session is bound to a user
func (s *Session) Authenticated() bool {
	return s.UserID != nil
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	User      User   `json:"user"`
	CSRFToken string `json:"csrf_token"`
}

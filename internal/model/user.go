package model

import "time"

// User represents an account in the database.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents account data safe for API responses (no hash).
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionUser is the identity shape returned by login and profile reads.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AuthResult bundles a signed session token with the identity it asserts.
// The token travels in the session cookie, never in the response body.
type AuthResult struct {
	Token string
	User  SessionUser
}

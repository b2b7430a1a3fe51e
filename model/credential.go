package model

import "time"

// GumroadCredentials is the per-user login used by the publish automation.
// Stored as provided. Passwords are not encrypted at rest; this mirrors
// the upstream store and must be addressed before any real deployment.
type GumroadCredentials struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

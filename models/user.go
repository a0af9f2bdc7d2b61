package models

import "time"

// User is the thin account record the session and device layers key on.
// AuthHash is derived client-side from the master password; the server never
// sees the password or any key material (zero-knowledge login).
type User struct {
	UserID    int64      `json:"user_id"`
	Login     string     `json:"login"`
	AuthHash  string     `json:"auth_hash,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

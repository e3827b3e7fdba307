package models

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Name         string    `json:"name"`
	IsPro        bool      `json:"is_pro"`
	CreatedAt    time.Time `json:"created_at"`
}

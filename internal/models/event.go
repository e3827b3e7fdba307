package models

import "time"

// Event records a change made by a caller, e.g. "task.create" or "settings.update".
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	TaskID    *int64    `json:"task_id,omitempty"`
	UserID    *int64    `json:"-"` // Nil for the anonymous pool
	CreatedAt time.Time `json:"created_at"`
}

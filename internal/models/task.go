package models

import (
	"encoding/json"
	"time"
)

// Task statuses and priorities used as creation defaults. Updates store
// whatever string the client sends.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a single to-do item. A nil UserID places it in the shared anonymous pool.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	UserID      *int64     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// TaskPatch carries a partial update. A nil pointer means the field was not
// sent. DueDateSet distinguishes an explicit null (clear the date) from absence.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	DueDateSet  bool
	Status      *string
	Priority    *string
	Category    *string
}

// UnmarshalJSON records which keys were present in the request body.
func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	targets := map[string]**string{
		"title":       &p.Title,
		"description": &p.Description,
		"status":      &p.Status,
		"priority":    &p.Priority,
		"category":    &p.Category,
	}
	for key, dst := range targets {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*dst = &s
	}

	if raw, ok := fields["due_date"]; ok {
		p.DueDateSet = true
		if !isNull(raw) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			p.DueDate = &s
		}
	}
	return nil
}

// IsEmpty reports whether the patch changes no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && !p.DueDateSet &&
		p.Status == nil && p.Priority == nil && p.Category == nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

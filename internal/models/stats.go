package models

// Stats summarizes the tasks visible to one caller.
type Stats struct {
	Total          int     `json:"total_tasks"`
	Completed      int     `json:"completed_tasks"`
	Pending        int     `json:"pending_tasks"`
	Overdue        int     `json:"overdue_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

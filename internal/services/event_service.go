package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/database"
	"github.com/isdelr/life-planner-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Event types written by the services.
const (
	EventTaskCreate     = "task.create"
	EventTaskUpdate     = "task.update"
	EventTaskDelete     = "task.delete"
	EventSettingsUpdate = "settings.update"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(ctx context.Context, owner auth.Identity, eventType, message string, taskID *int64)
	GetRecentEvents(ctx context.Context, owner auth.Identity, limit int) ([]models.Event, error)
}

// Publisher fans an encoded message out to the listeners of one owner scope.
type Publisher interface {
	Publish(scope string, message []byte)
}

// EventService keeps the activity log of each owner scope.
type EventService struct {
	db        *sql.DB
	publisher Publisher
	now       func() time.Time
}

// NewEventService creates a new EventService. publisher may be nil.
func NewEventService(db *sql.DB, publisher Publisher) *EventService {
	return &EventService{db: db, publisher: publisher, now: time.Now}
}

// Record stores an event and publishes it to the owner's live feed. The
// change it describes has already been committed, so failures are only logged.
func (s *EventService) Record(ctx context.Context, owner auth.Identity, eventType, message string, taskID *int64) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Message:   message,
		TaskID:    taskID,
		UserID:    owner.Owner(),
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, user_id, type, message, task_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.UserID, event.Type, event.Message, event.TaskID, database.FormatTime(event.CreatedAt))
	if err != nil {
		log.Error().Err(err).Str("owner", owner.Key()).Str("type", eventType).Msg("Failed to record event")
		return
	}

	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(struct {
		Action  string       `json:"action"`
		Payload models.Event `json:"payload"`
	}{Action: "activity", Payload: event})
	if err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to encode event")
		return
	}
	s.publisher.Publish(owner.Key(), payload)
}

// GetRecentEvents retrieves the newest events of the owner scope.
func (s *EventService) GetRecentEvents(ctx context.Context, owner auth.Identity, limit int) ([]models.Event, error) {
	clause, args := ownerClause(owner)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, type, message, task_id, created_at FROM events WHERE "+clause+
			" ORDER BY created_at DESC, rowid DESC LIMIT ?",
		append(args, limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var userID, taskID sql.NullInt64
		var createdAt string
		if err := rows.Scan(&event.ID, &userID, &event.Type, &event.Message, &taskID, &createdAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			event.UserID = &userID.Int64
		}
		if taskID.Valid {
			event.TaskID = &taskID.Int64
		}
		if event.CreatedAt, err = database.ParseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ownerClause returns the WHERE fragment selecting the rows of owner.
// Anonymous callers see only rows with a NULL user_id.
func ownerClause(owner auth.Identity) (string, []interface{}) {
	id, ok := owner.UserID()
	if !ok {
		return "user_id IS NULL", nil
	}
	return "user_id = ?", []interface{}{id}
}

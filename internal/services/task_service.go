package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/database"
	"github.com/isdelr/life-planner-be/internal/models"
	"github.com/rs/zerolog/log"
)

// TaskServiceProvider defines the interface for task services. Every method
// is scoped to the caller's identity; a task owned by someone else is
// reported exactly like a missing one.
type TaskServiceProvider interface {
	ListTasks(ctx context.Context, owner auth.Identity) ([]models.Task, error)
	GetTask(ctx context.Context, owner auth.Identity, id int64) (models.Task, error)
	CreateTask(ctx context.Context, owner auth.Identity, in models.TaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, owner auth.Identity, id int64, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, owner auth.Identity, id int64) error
}

// TaskService provides owner-scoped task storage.
type TaskService struct {
	db     *sql.DB
	events EventServiceProvider
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB, events EventServiceProvider) *TaskService {
	return &TaskService{db: db, events: events, now: time.Now}
}

const taskColumns = "id, title, description, due_date, status, priority, category, user_id, created_at, updated_at"

// ListTasks returns the owner's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, owner auth.Identity) ([]models.Task, error) {
	clause, args := ownerClause(owner)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE "+clause+" ORDER BY created_at DESC, id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a single task of the owner.
func (s *TaskService) GetTask(ctx context.Context, owner auth.Identity, id int64) (models.Task, error) {
	return getTask(ctx, s.db, owner, id)
}

// CreateTask stores a new task owned by owner.
func (s *TaskService) CreateTask(ctx context.Context, owner auth.Identity, in models.TaskInput) (models.Task, error) {
	if in.Title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := database.FormatTime(s.now())

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, due_date, status, priority, category, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Description, dueDate, models.StatusPending, priority, in.Category, owner.Owner(), now, now)
	if err != nil {
		return models.Task{}, unknownOwner(owner, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, err
	}

	task, err := getTask(ctx, s.db, owner, id)
	if err != nil {
		return models.Task{}, err
	}
	s.events.Record(ctx, owner, EventTaskCreate, fmt.Sprintf("Task '%s' created.", task.Title), &task.ID)
	return task, nil
}

// UpdateTask applies the fields present in patch. updated_at is refreshed even
// when the patch is empty. Status and priority are stored as sent.
func (s *TaskService) UpdateTask(ctx context.Context, owner auth.Identity, id int64, patch models.TaskPatch) (models.Task, error) {
	sets := []string{}
	args := []interface{}{}
	set := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.DueDateSet {
		raw := ""
		if patch.DueDate != nil {
			raw = *patch.DueDate
		}
		dueDate, err := parseDueDate(raw)
		if err != nil {
			return models.Task{}, err
		}
		set("due_date", dueDate)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.IsEmpty() {
		log.Debug().Str("owner", owner.Key()).Int64("task_id", id).Msg("Empty task patch, touching updated_at only")
	}
	set("updated_at", database.FormatTime(s.now()))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, err
	}
	defer tx.Rollback()

	if _, err := getTask(ctx, tx, owner, id); err != nil {
		return models.Task{}, err
	}

	clause, ownerArgs := ownerClause(owner)
	args = append(append(args, id), ownerArgs...)
	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ? AND "+clause, args...); err != nil {
		return models.Task{}, err
	}

	task, err := getTask(ctx, tx, owner, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, err
	}

	s.events.Record(ctx, owner, EventTaskUpdate, fmt.Sprintf("Task '%s' updated.", task.Title), &task.ID)
	return task, nil
}

// DeleteTask removes a task of the owner.
func (s *TaskService) DeleteTask(ctx context.Context, owner auth.Identity, id int64) error {
	clause, args := ownerClause(owner)
	var title string
	err := s.db.QueryRowContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND "+clause+" RETURNING title",
		append([]interface{}{id}, args...)...).Scan(&title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %w", ErrNotFound)
		}
		return err
	}

	s.events.Record(ctx, owner, EventTaskDelete, fmt.Sprintf("Task '%s' was deleted.", title), &id)
	return nil
}

// unknownOwner reports a write rejected because the token's user has no
// account row, e.g. after the database was reset under the same secret.
func unknownOwner(owner auth.Identity, err error) error {
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: no account for %s", auth.ErrInvalidToken, owner)
	}
	return err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getTask(ctx context.Context, q queryer, owner auth.Identity, id int64) (models.Task, error) {
	clause, args := ownerClause(owner)
	row := q.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND "+clause,
		append([]interface{}{id}, args...)...)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task %w", ErrNotFound)
		}
		return models.Task{}, err
	}
	return task, nil
}

// scanTask is a helper to scan a task from a row or rows object.
func scanTask(scanner interface{ Scan(...interface{}) error }) (models.Task, error) {
	var task models.Task
	var description, dueDate, status, priority, category sql.NullString
	var userID sql.NullInt64
	var createdAt, updatedAt string

	err := scanner.Scan(&task.ID, &task.Title, &description, &dueDate, &status,
		&priority, &category, &userID, &createdAt, &updatedAt)
	if err != nil {
		return task, err
	}

	task.Description = description.String
	task.Status = status.String
	task.Priority = priority.String
	task.Category = category.String
	if userID.Valid {
		task.UserID = &userID.Int64
	}
	if dueDate.Valid && dueDate.String != "" {
		t, err := database.ParseTime(dueDate.String)
		if err != nil {
			return task, err
		}
		task.DueDate = &t
	}
	if task.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return task, err
	}
	if task.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return task, err
	}
	return task, nil
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDueDate converts client input to the stored form. An empty string
// means no due date and yields NULL.
func parseDueDate(raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return database.FormatTime(t), nil
		}
	}
	return nil, fmt.Errorf("%w: due_date %q is not a valid date", ErrValidation, raw)
}

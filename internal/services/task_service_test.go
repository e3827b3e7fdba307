package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedUser(t, env, "a@x.com")
	task, err := env.tasks.CreateTask(ctx, owner, models.TaskInput{Title: "Buy milk"})
	require.NoError(t, err)

	assert.NotZero(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.Empty(t, task.Description)
	assert.Empty(t, task.Category)
	require.NotNil(t, task.UserID)
	ownerID, _ := owner.UserID()
	assert.Equal(t, ownerID, *task.UserID)
	assert.True(t, task.CreatedAt.Equal(env.clock.Now()))
	assert.True(t, task.UpdatedAt.Equal(task.CreatedAt))
}

func TestCreateTaskFields(t *testing.T) {
	env := newTestEnv(t)

	task, err := env.tasks.CreateTask(context.Background(), auth.Anonymous, models.TaskInput{
		Title:       "Dentist",
		Description: "Annual checkup",
		DueDate:     "2025-07-01T09:30",
		Priority:    models.PriorityHigh,
		Category:    "health",
	})
	require.NoError(t, err)

	assert.Nil(t, task.UserID)
	assert.Equal(t, "Annual checkup", task.Description)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, "health", task.Category)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)))
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input models.TaskInput
	}{
		{name: "missing title", input: models.TaskInput{}},
		{name: "bad due date", input: models.TaskInput{Title: "x", DueDate: "next tuesday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.tasks.CreateTask(ctx, auth.Anonymous, tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	tasks, err := env.tasks.ListTasks(ctx, auth.Anonymous)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasksNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedUser(t, env, "a@x.com")
	tasks, err := env.tasks.ListTasks(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	for _, title := range []string{"first", "second", "third"} {
		_, err := env.tasks.CreateTask(ctx, owner, models.TaskInput{Title: title})
		require.NoError(t, err)
		env.clock.Advance(time.Second)
	}
	// Same timestamp as the previous one; id breaks the tie.
	env.clock.Advance(-time.Second)
	_, err = env.tasks.CreateTask(ctx, owner, models.TaskInput{Title: "fourth"})
	require.NoError(t, err)

	tasks, err = env.tasks.ListTasks(ctx, owner)
	require.NoError(t, err)
	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, titles)
}

func TestTaskOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedUser(t, env, "alice@x.com")
	bob := seedUser(t, env, "bob@x.com")

	anonTask, err := env.tasks.CreateTask(ctx, auth.Anonymous, models.TaskInput{Title: "Buy milk"})
	require.NoError(t, err)
	userTask, err := env.tasks.CreateTask(ctx, alice, models.TaskInput{Title: "Pay rent"})
	require.NoError(t, err)

	owners := []struct {
		name    string
		owner   auth.Identity
		own     int64
		foreign []int64
	}{
		{name: "anonymous", owner: auth.Anonymous, own: anonTask.ID, foreign: []int64{userTask.ID}},
		{name: "alice", owner: alice, own: userTask.ID, foreign: []int64{anonTask.ID}},
		{name: "bob", owner: bob, foreign: []int64{anonTask.ID, userTask.ID}},
	}

	for _, o := range owners {
		t.Run(o.name, func(t *testing.T) {
			tasks, err := env.tasks.ListTasks(ctx, o.owner)
			require.NoError(t, err)
			if o.own == 0 {
				assert.Empty(t, tasks)
			} else {
				require.Len(t, tasks, 1)
				assert.Equal(t, o.own, tasks[0].ID)
			}

			for _, id := range o.foreign {
				_, err := env.tasks.GetTask(ctx, o.owner, id)
				assert.ErrorIs(t, err, ErrNotFound)

				_, err = env.tasks.UpdateTask(ctx, o.owner, id, models.TaskPatch{Title: strPtr("hijacked")})
				assert.ErrorIs(t, err, ErrNotFound)

				err = env.tasks.DeleteTask(ctx, o.owner, id)
				assert.ErrorIs(t, err, ErrNotFound)
			}
		})
	}

	got, err := env.tasks.GetTask(ctx, auth.Anonymous, anonTask.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	got, err = env.tasks.GetTask(ctx, alice, userTask.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", got.Title)
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env, "a@x.com")

	created, err := env.tasks.CreateTask(ctx, owner, models.TaskInput{
		Title:    "Write report",
		DueDate:  "2025-06-20",
		Category: "work",
	})
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	updated, err := env.tasks.UpdateTask(ctx, owner, created.ID, models.TaskPatch{
		Status:   strPtr(models.StatusCompleted),
		Priority: strPtr("urgent"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "urgent", updated.Priority)
	assert.Equal(t, "Write report", updated.Title)
	assert.Equal(t, "work", updated.Category)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(*created.DueDate))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateTaskEmptyPatchTouchesTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.tasks.CreateTask(ctx, auth.Anonymous, models.TaskInput{Title: "Stretch"})
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	updated, err := env.tasks.UpdateTask(ctx, auth.Anonymous, created.ID, models.TaskPatch{})
	require.NoError(t, err)

	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Status, updated.Status)
	assert.Equal(t, created.Priority, updated.Priority)
	assert.True(t, updated.UpdatedAt.Equal(created.UpdatedAt.Add(time.Hour)))
}

func TestUpdateTaskDueDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.tasks.CreateTask(ctx, auth.Anonymous, models.TaskInput{Title: "Renew passport", DueDate: "2025-08-01"})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)

	updated, err := env.tasks.UpdateTask(ctx, auth.Anonymous, created.ID, models.TaskPatch{DueDateSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	updated, err = env.tasks.UpdateTask(ctx, auth.Anonymous, created.ID,
		models.TaskPatch{DueDateSet: true, DueDate: strPtr("2025-09-15T10:00:00Z")})
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)))

	_, err = env.tasks.UpdateTask(ctx, auth.Anonymous, created.ID,
		models.TaskPatch{DueDateSet: true, DueDate: strPtr("soon")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := seedUser(t, env, "a@x.com")
	created, err := env.tasks.CreateTask(ctx, owner, models.TaskInput{Title: "Call mom"})
	require.NoError(t, err)

	require.NoError(t, env.tasks.DeleteTask(ctx, owner, created.ID))

	_, err = env.tasks.GetTask(ctx, owner, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.tasks.DeleteTask(ctx, owner, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.tasks.DeleteTask(ctx, owner, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"", nil},
		{"  ", nil},
		{"2025-06-01", "2025-06-01T00:00:00.000000Z"},
		{"2025-06-01T08:15", "2025-06-01T08:15:00.000000Z"},
		{"2025-06-01T08:15:30", "2025-06-01T08:15:30.000000Z"},
		{"2025-06-01 08:15:30", "2025-06-01T08:15:30.000000Z"},
		{"2025-06-01T08:15:30-03:00", "2025-06-01T11:15:30.000000Z"},
	}
	for _, tt := range tests {
		got, err := parseDueDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseDueDate("06/01/2025")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateTaskKeepsWhitespaceTitle(t *testing.T) {
	env := newTestEnv(t)

	task, err := env.tasks.CreateTask(context.Background(), auth.Anonymous, models.TaskInput{Title: "   "})
	require.NoError(t, err)
	assert.Equal(t, "   ", task.Title)
}

func TestCreateTaskForMissingAccount(t *testing.T) {
	env := newTestEnv(t)

	// A validly signed token can outlive its account row.
	_, err := env.tasks.CreateTask(context.Background(), auth.User(77), models.TaskInput{Title: "orphan"})
	require.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.NotContains(t, err.Error(), "FOREIGN KEY")
}

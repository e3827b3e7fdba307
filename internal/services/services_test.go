package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testClock is a manually advanced time source.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID int64) (string, error) {
	return fmt.Sprintf("token-%d", userID), nil
}

type published struct {
	scope   string
	message []byte
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []published
}

func (p *recordingPublisher) Publish(scope string, message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, published{scope: scope, message: message})
}

func (p *recordingPublisher) scopes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.scope)
	}
	return out
}

// testEnv bundles the services over one migrated database file.
type testEnv struct {
	db        *sql.DB
	clock     *testClock
	publisher *recordingPublisher
	users     *UserService
	tasks     *TaskService
	settings  *SettingsService
	stats     *StatsService
	events    *EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	clock := newTestClock()
	publisher := &recordingPublisher{}

	events := NewEventService(db, publisher)
	events.now = clock.Now

	users := NewUserService(db, stubIssuer{})
	users.hashCost = bcrypt.MinCost
	users.now = clock.Now

	tasks := NewTaskService(db, events)
	tasks.now = clock.Now

	stats := NewStatsService(db)
	stats.now = clock.Now

	return &testEnv{
		db:        db,
		clock:     clock,
		publisher: publisher,
		users:     users,
		tasks:     tasks,
		settings:  NewSettingsService(db, events),
		stats:     stats,
		events:    events,
	}
}

// seedUser registers an account and returns its identity.
func seedUser(t *testing.T, env *testEnv, email string) auth.Identity {
	t.Helper()
	user, _, err := env.users.Register(context.Background(), email, "pw", "Test")
	require.NoError(t, err)
	return auth.User(user.ID)
}

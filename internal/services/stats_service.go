package services

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/database"
	"github.com/isdelr/life-planner-be/internal/models"
)

// StatsServiceProvider defines the interface for task statistics.
type StatsServiceProvider interface {
	ComputeStats(ctx context.Context, owner auth.Identity) (models.Stats, error)
}

// StatsService aggregates task counts per owner.
type StatsService struct {
	db  *sql.DB
	now func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

// ComputeStats counts the owner's tasks. Overdue tasks are pending tasks whose
// due date lies strictly before now.
func (s *StatsService) ComputeStats(ctx context.Context, owner auth.Identity) (models.Stats, error) {
	clause, args := ownerClause(owner)
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'pending' AND due_date IS NOT NULL AND due_date <> ''
		                          AND due_date < ? THEN 1 ELSE 0 END), 0)
		FROM tasks WHERE ` + clause

	var stats models.Stats
	err := s.db.QueryRowContext(ctx, query, append([]interface{}{database.FormatTime(s.now())}, args...)...).
		Scan(&stats.Total, &stats.Completed, &stats.Pending, &stats.Overdue)
	if err != nil {
		return models.Stats{}, err
	}
	stats.CompletionRate = completionRate(stats.Completed, stats.Total)
	return stats, nil
}

// completionRate is completed/total as a percentage rounded to one decimal,
// or 0 when there are no tasks.
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

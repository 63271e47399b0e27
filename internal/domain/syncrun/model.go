package syncrun

import (
	"context"
	"time"
)

// Statuses of a scoreboard sync run.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// SyncRun records one execution of the scoreboard sync job.
type SyncRun struct {
	ID           string
	Season       int
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       string
	GamesUpdated int
	Error        string
}

// Repository persists sync run history for operational visibility.
type Repository interface {
	Create(ctx context.Context, run SyncRun) error
	Update(ctx context.Context, run SyncRun) error
	ListRecent(ctx context.Context, limit int) ([]SyncRun, error)
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu    sync.RWMutex
	items map[string]syncrun.SyncRun
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{items: map[string]syncrun.SyncRun{}}
}

func (r *SyncRunRepository) Create(_ context.Context, run syncrun.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[run.ID] = run
	return nil
}

func (r *SyncRunRepository) Update(_ context.Context, run syncrun.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[run.ID] = run
	return nil
}

func (r *SyncRunRepository) ListRecent(_ context.Context, limit int) ([]syncrun.SyncRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncrun.SyncRun, 0, len(r.items))
	for _, run := range r.items {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pickemleague/pickem-api/internal/domain/pick"
)

type pickKey struct {
	userID string
	gameID string
}

type PickRepository struct {
	mu    sync.RWMutex
	items map[pickKey]pick.Pick
}

func NewPickRepository() *PickRepository {
	return &PickRepository{items: map[pickKey]pick.Pick{}}
}

func (r *PickRepository) ListByUserAndWeek(_ context.Context, userID string, week int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, item := range r.items {
		if item.UserID == userID && item.Week == week {
			out = append(out, item)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListByUser(_ context.Context, userID string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListByWeek(_ context.Context, week int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, item := range r.items {
		if item.Week == week {
			out = append(out, item)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListAll(_ context.Context) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) UpsertBatch(_ context.Context, picks []pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range picks {
		r.items[pickKey{userID: item.UserID, gameID: item.GameID}] = item
	}
	return nil
}

func (r *PickRepository) ReplaceAll(_ context.Context, picks []pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[pickKey]pick.Pick, len(picks))
	for _, item := range picks {
		r.items[pickKey{userID: item.UserID, gameID: item.GameID}] = item
	}
	return nil
}

// DeleteByUser keeps the in-memory store consistent with the cascading
// delete the postgres schema provides.
func (r *PickRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.items {
		if key.userID == userID {
			delete(r.items, key)
		}
	}
	return nil
}

func sortPicks(items []pick.Pick) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].UserID != items[j].UserID {
			return items[i].UserID < items[j].UserID
		}
		if items[i].Week != items[j].Week {
			return items[i].Week < items[j].Week
		}
		return items[i].GameID < items[j].GameID
	})
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/platform/id"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, g := range games {
		items[g.ID] = g
	}
	return &GameRepository{items: items}
}

func (r *GameRepository) ListByWeek(_ context.Context, season, week int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, g := range r.items {
		if g.Season == season && g.Week == week {
			out = append(out, g)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func (r *GameRepository) List(_ context.Context, season int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, g := range r.items {
		if season <= 0 || g.Season == season {
			out = append(out, g)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[gameID]
	return g, ok, nil
}

func (r *GameRepository) UpsertByESPNID(_ context.Context, items []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		existingID := ""
		for gid, existing := range r.items {
			if existing.ESPNID == item.ESPNID {
				existingID = gid
				break
			}
		}
		if existingID != "" {
			item.ID = existingID
		} else if item.ID == "" {
			item.ID = id.NewID()
		}
		r.items[item.ID] = item
	}
	return nil
}

func (r *GameRepository) ReplaceAll(_ context.Context, items []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]game.Game, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = id.NewID()
		}
		r.items[item.ID] = item
	}
	return nil
}

func sortByKickoff(items []game.Game) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
}

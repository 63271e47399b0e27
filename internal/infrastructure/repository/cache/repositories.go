package cache

import (
	"context"
	"strconv"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	basecache "github.com/pickemleague/pickem-api/internal/platform/cache"
)

// GameRepository caches schedule reads. Game rows change only through
// the ESPN sync and backup restores, so list results stay hot between
// sync runs and are dropped wholesale on any write.
type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	key := "game:list:season:" + strconv.Itoa(season) + ":week:" + strconv.Itoa(week)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByWeek(ctx, season, week)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) List(ctx context.Context, season int) ([]game.Game, error) {
	key := "game:list:season:" + strconv.Itoa(season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	key := "game:id:" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cached.value, cached.exists, nil
}

func (r *GameRepository) UpsertByESPNID(ctx context.Context, items []game.Game) error {
	if err := r.next.UpsertByESPNID(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

func (r *GameRepository) ReplaceAll(ctx context.Context, items []game.Game) error {
	if err := r.next.ReplaceAll(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}

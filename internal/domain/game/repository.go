package game

import "context"

// Repository describes game persistence needs from use cases. Games are
// written only by the feed synchronization job.
type Repository interface {
	ListByWeek(ctx context.Context, season, week int) ([]Game, error)
	// List returns a season's schedule; season <= 0 returns every game.
	List(ctx context.Context, season int) ([]Game, error)
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	UpsertByESPNID(ctx context.Context, items []Game) error
	ReplaceAll(ctx context.Context, items []Game) error
}

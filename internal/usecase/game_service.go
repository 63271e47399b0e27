package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/pickemleague/pickem-api/internal/domain/game"
)

type GameService struct {
	gameRepo game.Repository
	season   int
}

func NewGameService(gameRepo game.Repository, season int) *GameService {
	return &GameService{gameRepo: gameRepo, season: season}
}

// List returns the season schedule ordered by kickoff, optionally
// narrowed to one week.
func (s *GameService) List(ctx context.Context, week *int) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	if week != nil && *week < 1 {
		return nil, fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}

	var items []game.Game
	var err error
	if week != nil {
		items, err = s.gameRepo.ListByWeek(ctx, s.season, *week)
	} else {
		items, err = s.gameRepo.List(ctx, s.season)
	}
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *GameService) GetByID(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetByID")
	defer span.End()

	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return item, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/pickem"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

type StatsService struct {
	pickRepo pick.Repository
	gameRepo game.Repository
	userRepo user.Repository
	season   int
}

func NewStatsService(pickRepo pick.Repository, gameRepo game.Repository, userRepo user.Repository, season int) *StatsService {
	return &StatsService{
		pickRepo: pickRepo,
		gameRepo: gameRepo,
		userRepo: userRepo,
		season:   season,
	}
}

// GetForUser scores every pick the user has made this season and returns
// weekly and overall records.
func (s *StatsService) GetForUser(ctx context.Context, userID string) (pickem.UserStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetForUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return pickem.UserStats{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return pickem.UserStats{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return pickem.UserStats{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	picks, err := s.pickRepo.ListByUser(ctx, userID)
	if err != nil {
		return pickem.UserStats{}, fmt.Errorf("list picks: %w", err)
	}

	gamesByID, err := s.seasonGamesByID(ctx)
	if err != nil {
		return pickem.UserStats{}, err
	}

	stats, err := pickem.ComputeStats(userID, picks, gamesByID)
	if err != nil {
		return pickem.UserStats{}, fmt.Errorf("compute stats: %w", err)
	}
	return stats, nil
}

func (s *StatsService) seasonGamesByID(ctx context.Context) (map[string]game.Game, error) {
	games, err := s.gameRepo.List(ctx, s.season)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	out := make(map[string]game.Game, len(games))
	for _, g := range games {
		out[g.ID] = g
	}
	return out, nil
}

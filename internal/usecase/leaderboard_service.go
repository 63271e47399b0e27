package usecase

import (
	"context"
	"fmt"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/pickem"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

type LeaderboardService struct {
	pickRepo pick.Repository
	gameRepo game.Repository
	userRepo user.Repository
	season   int
}

func NewLeaderboardService(pickRepo pick.Repository, gameRepo game.Repository, userRepo user.Repository, season int) *LeaderboardService {
	return &LeaderboardService{
		pickRepo: pickRepo,
		gameRepo: gameRepo,
		userRepo: userRepo,
		season:   season,
	}
}

// Get ranks the league. A nil week covers the whole season; otherwise
// only picks from that week count.
func (s *LeaderboardService) Get(ctx context.Context, week *int) ([]pickem.LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Get")
	defer span.End()

	if week != nil && *week < 1 {
		return nil, fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}

	var picks []pick.Pick
	var err error
	if week != nil {
		picks, err = s.pickRepo.ListByWeek(ctx, *week)
	} else {
		picks, err = s.pickRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	games, err := s.gameRepo.List(ctx, s.season)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	gamesByID := make(map[string]game.Game, len(games))
	for _, g := range games {
		gamesByID[g.ID] = g
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	usersByID := make(map[string]user.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	rows, err := pickem.ComputeLeaderboard(week, picks, gamesByID, usersByID)
	if err != nil {
		return nil, fmt.Errorf("compute leaderboard: %w", err)
	}
	return rows, nil
}

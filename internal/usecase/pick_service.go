package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/pickem"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

type PickService struct {
	pickRepo pick.Repository
	gameRepo game.Repository
	season   int
	now      func() time.Time
}

func NewPickService(pickRepo pick.Repository, gameRepo game.Repository, season int) *PickService {
	return &PickService{
		pickRepo: pickRepo,
		gameRepo: gameRepo,
		season:   season,
		now:      time.Now,
	}
}

func (s *PickService) ListMine(ctx context.Context, userID string, week *int) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListMine")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if week != nil {
		items, err := s.pickRepo.ListByUserAndWeek(ctx, userID, *week)
		if err != nil {
			return nil, fmt.Errorf("list picks by week: %w", err)
		}
		return items, nil
	}

	items, err := s.pickRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	return items, nil
}

type PickSelection struct {
	GameID         string `json:"gameId" validate:"required"`
	PickedTeam     string `json:"pickedTeam" validate:"required"`
	MNFTotalPoints *int   `json:"mnfTotalPoints,omitempty" validate:"omitempty,gte=0"`
}

// Submit stores the caller's selections for one week. The whole batch is
// checked against the week's lock boundary and every selection is
// validated before anything persists; one bad entry rejects them all.
func (s *PickService) Submit(ctx context.Context, principal user.Principal, week int, selections []PickSelection) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Submit")
	defer span.End()

	if week < 1 {
		return nil, fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: at least one selection is required", ErrInvalidInput)
	}

	weekGames, err := s.gameRepo.ListByWeek(ctx, s.season, week)
	if err != nil {
		return nil, fmt.Errorf("list games for week: %w", err)
	}

	if !pickem.CanModify(weekGames, s.now(), principal.IsAdmin) {
		return nil, fmt.Errorf("%w: week=%d", pickem.ErrPicksLocked, week)
	}

	gamesByID := make(map[string]game.Game, len(weekGames))
	for _, g := range weekGames {
		gamesByID[g.ID] = g
	}

	now := s.now().UTC()
	seen := make(map[string]struct{}, len(selections))
	items := make([]pick.Pick, 0, len(selections))
	for _, sel := range selections {
		gameID := strings.TrimSpace(sel.GameID)
		team := strings.ToUpper(strings.TrimSpace(sel.PickedTeam))
		if gameID == "" || team == "" {
			return nil, fmt.Errorf("%w: game id and picked team are required", ErrInvalidInput)
		}
		if _, dup := seen[gameID]; dup {
			return nil, fmt.Errorf("%w: duplicate selection for game %s", ErrInvalidInput, gameID)
		}
		seen[gameID] = struct{}{}

		g, ok := gamesByID[gameID]
		if !ok {
			return nil, fmt.Errorf("%w: game %s is not part of week %d", ErrNotFound, gameID, week)
		}
		if !g.HasTeam(team) {
			return nil, fmt.Errorf("%w: team %q in game %s vs %s",
				pickem.ErrInvalidSelection, team, g.AwayTeam, g.HomeTeam)
		}

		items = append(items, pick.Pick{
			UserID:         principal.UserID,
			GameID:         gameID,
			Week:           week,
			PickedTeam:     team,
			MNFTotalPoints: sel.MNFTotalPoints,
			UpdatedAt:      now,
		})
	}

	if err := s.pickRepo.UpsertBatch(ctx, items); err != nil {
		return nil, fmt.Errorf("upsert picks: %w", err)
	}

	return items, nil
}

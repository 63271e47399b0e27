package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	gamemock "github.com/pickemleague/pickem-api/internal/mocks/domain/game"
	"github.com/stretchr/testify/mock"
)

func TestGameService_List_WeekFilterUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)

	service := NewGameService(gameRepo, 2025)
	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	expected := []game.Game{
		{ID: "game-2", Season: 2025, Week: 1, HomeTeam: "PHI", AwayTeam: "DAL", KickoffAt: kickoff.Add(3 * time.Hour)},
		{ID: "game-1", Season: 2025, Week: 1, HomeTeam: "KC", AwayTeam: "BAL", KickoffAt: kickoff},
	}

	gameRepo.
		On("ListByWeek", mock.Anything, 2025, 1).
		Return(expected, nil).
		Once()

	week := 1
	got, err := service.List(ctx, &week)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected game count: got=%d want=2", len(got))
	}
	if got[0].ID != "game-1" {
		t.Fatalf("expected kickoff ordering, got first game %s", got[0].ID)
	}
}

func TestGameService_List_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)

	service := NewGameService(gameRepo, 2025)
	repoErr := errors.New("connection reset")

	gameRepo.
		On("List", mock.Anything, 2025).
		Return(nil, repoErr).
		Once()

	if _, err := service.List(ctx, nil); !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error to propagate, got %v", err)
	}
}

func TestGameService_GetByID_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)

	service := NewGameService(gameRepo, 2025)

	gameRepo.
		On("GetByID", mock.Anything, "missing-game").
		Return(game.Game{}, false, nil).
		Once()

	if _, err := service.GetByID(ctx, "missing-game"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

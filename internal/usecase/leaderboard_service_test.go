package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

func TestLeaderboardService_Get(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 9, 7, 18, 0, 0, 0, time.UTC)
	homeWin, awayScore := 27, 20
	gameRepo := newStubGameRepository(
		game.Game{ID: "g-1", Season: testSeason, Week: 1, HomeTeam: "KC", AwayTeam: "BUF", KickoffAt: kickoff, HomeScore: &homeWin, AwayScore: &awayScore, Winner: "KC", Status: game.StatusFinished},
		game.Game{ID: "g-2", Season: testSeason, Week: 2, HomeTeam: "SF", AwayTeam: "SEA", KickoffAt: kickoff.AddDate(0, 0, 7)},
	)
	userRepo := newStubUserRepository(
		user.User{ID: "u-1", Username: "zoe"},
		user.User{ID: "u-2", Username: "alice"},
	)
	pickRepo := newStubPickRepository(
		pick.Pick{UserID: "u-1", GameID: "g-1", Week: 1, PickedTeam: "KC"},
		pick.Pick{UserID: "u-2", GameID: "g-1", Week: 1, PickedTeam: "BUF"},
		pick.Pick{UserID: "u-2", GameID: "g-2", Week: 2, PickedTeam: "SF"},
	)
	service := NewLeaderboardService(pickRepo, gameRepo, userRepo, testSeason)

	t.Run("season", func(t *testing.T) {
		t.Parallel()
		rows, err := service.Get(context.Background(), nil)
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0].Username != "zoe" || rows[0].Correct != 1 {
			t.Fatalf("unexpected rank 1: %+v", rows[0])
		}
		if rows[1].Username != "alice" || rows[1].Correct != 0 || rows[1].Total != 1 {
			t.Fatalf("unexpected rank 2: %+v", rows[1])
		}
	})

	t.Run("single week", func(t *testing.T) {
		t.Parallel()
		week := 2
		rows, err := service.Get(context.Background(), &week)
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if len(rows) != 1 || rows[0].Username != "alice" || rows[0].Total != 0 {
			t.Fatalf("unexpected week rows: %+v", rows)
		}
	})

	t.Run("invalid week", func(t *testing.T) {
		t.Parallel()
		week := 0
		if _, err := service.Get(context.Background(), &week); err == nil {
			t.Fatalf("expected error for week 0")
		}
	})
}

func TestStatsService_GetForUser(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 9, 7, 18, 0, 0, 0, time.UTC)
	home, away := 31, 17
	gameRepo := newStubGameRepository(
		game.Game{ID: "g-1", Season: testSeason, Week: 1, HomeTeam: "KC", AwayTeam: "BUF", KickoffAt: kickoff, HomeScore: &home, AwayScore: &away, Winner: "KC", Status: game.StatusFinished},
		game.Game{ID: "g-2", Season: testSeason, Week: 2, HomeTeam: "SF", AwayTeam: "SEA", KickoffAt: kickoff.AddDate(0, 0, 7)},
	)
	userRepo := newStubUserRepository(user.User{ID: "u-1", Username: "alice"})
	pickRepo := newStubPickRepository(
		pick.Pick{UserID: "u-1", GameID: "g-1", Week: 1, PickedTeam: "KC"},
		pick.Pick{UserID: "u-1", GameID: "g-2", Week: 2, PickedTeam: "SEA"},
	)
	service := NewStatsService(pickRepo, gameRepo, userRepo, testSeason)

	stats, err := service.GetForUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetForUser error: %v", err)
	}
	if stats.Correct != 1 || stats.Pending != 1 || stats.Total != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy over resolved picks, got %v", stats.Accuracy)
	}

	if _, err := service.GetForUser(context.Background(), "u-404"); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

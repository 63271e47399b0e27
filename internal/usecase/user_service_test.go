package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

func TestUserService_Create(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepository()
	service := NewUserService(repo, newStubPickRepository(), fakeHasher{}, &sequenceIDs{}, "password")

	created, err := service.Create(context.Background(), "  alice  ", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", created.Username)
	}
	if created.PasswordHash != "hashed:password" {
		t.Fatalf("expected default password hash, got %q", created.PasswordHash)
	}
	if !created.FirstLogin {
		t.Fatalf("expected FirstLogin=true for new accounts")
	}

	if _, err := service.Create(context.Background(), "alice", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate username, got %v", err)
	}
	if _, err := service.Create(context.Background(), "   ", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank username, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepository(
		user.User{ID: "u-1", Username: "alice", PasswordHash: "hashed:custom"},
		user.User{ID: "u-2", Username: "bob"},
	)
	service := NewUserService(repo, newStubPickRepository(), fakeHasher{}, &sequenceIDs{}, "password")

	t.Run("rename", func(t *testing.T) {
		newName := "alice2"
		updated, err := service.Update(context.Background(), "u-1", UpdateUserInput{Username: &newName})
		if err != nil {
			t.Fatalf("Update error: %v", err)
		}
		if updated.Username != "alice2" {
			t.Fatalf("unexpected username: %q", updated.Username)
		}
	})

	t.Run("rename to taken name", func(t *testing.T) {
		taken := "bob"
		if _, err := service.Update(context.Background(), "u-1", UpdateUserInput{Username: &taken}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("password reset restores default and first login", func(t *testing.T) {
		updated, err := service.Update(context.Background(), "u-1", UpdateUserInput{ResetPassword: true})
		if err != nil {
			t.Fatalf("Update error: %v", err)
		}
		if updated.PasswordHash != "hashed:password" {
			t.Fatalf("unexpected password hash: %q", updated.PasswordHash)
		}
		if !updated.FirstLogin {
			t.Fatalf("expected FirstLogin=true after reset")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := service.Update(context.Background(), "u-404", UpdateUserInput{}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepository(user.User{ID: "u-1", Username: "alice"})
	service := NewUserService(repo, newStubPickRepository(), fakeHasher{}, &sequenceIDs{}, "password")

	if err := service.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := service.Delete(context.Background(), "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUserService_Delete_CascadesPicks(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 9, 7, 18, 0, 0, 0, time.UTC)
	home, away := 24, 17
	gameRepo := newStubGameRepository(game.Game{
		ID: "g-1", Season: testSeason, Week: 1, HomeTeam: "KC", AwayTeam: "BUF",
		KickoffAt: kickoff, HomeScore: &home, AwayScore: &away,
		Winner: "KC", Status: game.StatusFinished,
	})
	userRepo := newStubUserRepository(
		user.User{ID: "u-1", Username: "alice"},
		user.User{ID: "u-2", Username: "bob"},
	)
	pickRepo := newStubPickRepository(
		pick.Pick{UserID: "u-1", GameID: "g-1", Week: 1, PickedTeam: "KC"},
		pick.Pick{UserID: "u-2", GameID: "g-1", Week: 1, PickedTeam: "BUF"},
	)
	service := NewUserService(userRepo, pickRepo, fakeHasher{}, &sequenceIDs{}, "password")

	if err := service.Delete(context.Background(), "u-2"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	remaining, err := pickRepo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].UserID != "u-1" {
		t.Fatalf("expected only alice's pick to survive, got %+v", remaining)
	}

	// The leaderboard must keep working once the member is gone.
	leaderboard := NewLeaderboardService(pickRepo, gameRepo, userRepo, testSeason)
	rows, err := leaderboard.Get(context.Background(), nil)
	if err != nil {
		t.Fatalf("Get leaderboard after delete: %v", err)
	}
	if len(rows) != 1 || rows[0].Username != "alice" {
		t.Fatalf("unexpected leaderboard rows: %+v", rows)
	}
}

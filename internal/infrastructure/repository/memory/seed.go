package memory

import (
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

// SeedUsers returns the demo accounts used when no database is
// configured. Every account shares passwordHash so the dev login flow
// works with the configured default password.
func SeedUsers(passwordHash string, now time.Time) []user.User {
	build := func(id, username string, isAdmin bool) user.User {
		return user.User{
			ID:           id,
			Username:     username,
			PasswordHash: passwordHash,
			IsAdmin:      isAdmin,
			FirstLogin:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	return []user.User{
		build("seed-admin", "admin", true),
		build("seed-alice", "alice", false),
		build("seed-bob", "bob", false),
	}
}

// SeedGames returns a small week-1 slate anchored around now so the
// lock window is exercisable in dev: one game already final, one live,
// and two upcoming (one inside the lock window, one outside).
func SeedGames(season int, now time.Time) []game.Game {
	final := func(v int) *int { return &v }
	finishedAt := now.Add(-20 * time.Hour)

	return []game.Game{
		{
			ID:         "seed-game-1",
			ESPNID:     "401000001",
			Week:       1,
			Season:     season,
			HomeTeam:   "KC",
			AwayTeam:   "BAL",
			KickoffAt:  now.Add(-24 * time.Hour),
			HomeScore:  final(27),
			AwayScore:  final(20),
			Winner:     "KC",
			Status:     game.StatusFinished,
			FinishedAt: &finishedAt,
		},
		{
			ID:        "seed-game-2",
			ESPNID:    "401000002",
			Week:      1,
			Season:    season,
			HomeTeam:  "PHI",
			AwayTeam:  "GB",
			KickoffAt: now.Add(-1 * time.Hour),
			HomeScore: final(10),
			AwayScore: final(7),
			Status:    game.StatusLive,
		},
		{
			ID:        "seed-game-3",
			ESPNID:    "401000003",
			Week:      1,
			Season:    season,
			HomeTeam:  "DAL",
			AwayTeam:  "NYG",
			KickoffAt: now.Add(90 * time.Minute),
			Status:    game.StatusScheduled,
		},
		{
			ID:        "seed-game-4",
			ESPNID:    "401000004",
			Week:      1,
			Season:    season,
			HomeTeam:  "SF",
			AwayTeam:  "SEA",
			KickoffAt: now.Add(6 * time.Hour),
			Status:    game.StatusScheduled,
		},
	}
}

package pickem

import (
	"testing"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
)

func TestCanModify(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 9, 7, 18, 0, 0, 0, time.UTC)
	week := []game.Game{
		{ID: "g-2", KickoffAt: kickoff.Add(3 * time.Hour)},
		{ID: "g-1", KickoffAt: kickoff},
		{ID: "g-3", KickoffAt: kickoff.Add(26 * time.Hour)},
	}
	lockAt := kickoff.Add(-2 * time.Hour)

	tests := []struct {
		name    string
		games   []game.Game
		now     time.Time
		isAdmin bool
		want    bool
	}{
		{name: "well before lock", games: week, now: lockAt.Add(-time.Hour), want: true},
		{name: "exactly at lock boundary", games: week, now: lockAt, want: true},
		{name: "one second past lock", games: week, now: lockAt.Add(time.Second), want: false},
		{name: "after first kickoff", games: week, now: kickoff.Add(time.Minute), want: false},
		{name: "admin bypasses lock", games: week, now: kickoff.Add(48 * time.Hour), isAdmin: true, want: true},
		{name: "empty week stays open", games: nil, now: kickoff.Add(400 * 24 * time.Hour), want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CanModify(tc.games, tc.now, tc.isAdmin); got != tc.want {
				t.Fatalf("CanModify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLockTimeUsesEarliestKickoff(t *testing.T) {
	t.Parallel()

	early := time.Date(2025, 9, 4, 23, 15, 0, 0, time.UTC)
	games := []game.Game{
		{ID: "g-1", KickoffAt: early.Add(70 * time.Hour)},
		{ID: "g-2", KickoffAt: early},
		{ID: "g-3", KickoffAt: early.Add(73 * time.Hour)},
	}
	got, ok := LockTime(games)
	if !ok {
		t.Fatalf("LockTime() ok = false, want true")
	}
	if want := early.Add(-2 * time.Hour); !got.Equal(want) {
		t.Fatalf("LockTime() = %v, want %v", got, want)
	}
}

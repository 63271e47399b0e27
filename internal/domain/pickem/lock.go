package pickem

import (
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
)

// LockLeadTime is how long before the week's first kickoff picks freeze.
const LockLeadTime = 2 * time.Hour

// LockTime returns the instant the week locks: two hours before the
// earliest kickoff among the given games. The second return is false when
// the slice is empty, in which case the week has no lock boundary.
func LockTime(games []game.Game) (time.Time, bool) {
	if len(games) == 0 {
		return time.Time{}, false
	}
	earliest := games[0].KickoffAt
	for _, g := range games[1:] {
		if g.KickoffAt.Before(earliest) {
			earliest = g.KickoffAt
		}
	}
	return earliest.Add(-LockLeadTime), true
}

// CanModify reports whether picks for the week covered by games may still
// be created or changed at now. Admins always may. A week with no games
// has nothing to lock against and stays open.
func CanModify(games []game.Game, now time.Time, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	lockAt, ok := LockTime(games)
	if !ok {
		return true
	}
	return !now.After(lockAt)
}

package game

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
)

// Game represents one scheduled NFL matchup.
type Game struct {
	ID         string
	ESPNID     string
	Week       int
	Season     int
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	HomeScore  *int
	AwayScore  *int
	Winner     string
	Status     string
	FinishedAt *time.Time
}

// Finished reports whether the game has gone final. A finished tie keeps
// an empty Winner.
func (g Game) Finished() bool {
	return NormalizeStatus(g.Status) == StatusFinished
}

// HasTeam reports whether code names one of the two participants.
func (g Game) HasTeam(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	return code != "" && (code == g.HomeTeam || code == g.AwayTeam)
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// DeriveWinner returns the team code with the strictly higher score, or ""
// for a tie or an unfinished game.
func DeriveWinner(g Game) string {
	if !g.Finished() || g.HomeScore == nil || g.AwayScore == nil {
		return ""
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeam
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeam
	default:
		return ""
	}
}

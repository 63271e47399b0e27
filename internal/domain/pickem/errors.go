package pickem

import "errors"

var (
	// ErrPicksLocked rejects submissions after the week's lock boundary.
	ErrPicksLocked = errors.New("picks are locked for this week")
	// ErrInvalidSelection marks a pick whose team is not part of its game.
	ErrInvalidSelection = errors.New("picked team is not playing in this game")
	// ErrReferentialIntegrity marks a pick referencing a missing game or user.
	ErrReferentialIntegrity = errors.New("pick references a missing game or user")
)

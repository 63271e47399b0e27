package pick

import "time"

// Pick is one user's winner prediction for one game. The pair
// (UserID, GameID) is unique; resubmission overwrites in place.
type Pick struct {
	UserID     string
	GameID     string
	Week       int
	PickedTeam string
	// MNFTotalPoints holds the Monday-night combined-score guess. It is
	// stored for future tie resolution and never affects scoring.
	MNFTotalPoints *int
	UpdatedAt      time.Time
}

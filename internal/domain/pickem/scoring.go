package pickem

import (
	"fmt"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
)

// Result is the scoring outcome of one pick against one game.
type Result string

const (
	ResultPending   Result = "pending"
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
)

// Score evaluates a pick against its game. A game without a decided
// winner, tied finals included, scores pending. A pick naming a team not
// playing in the game is invalid regardless of the game's state.
func Score(p pick.Pick, g game.Game) (Result, error) {
	if !g.HasTeam(p.PickedTeam) {
		return "", fmt.Errorf("%w: team %q in game %s vs %s",
			ErrInvalidSelection, p.PickedTeam, g.AwayTeam, g.HomeTeam)
	}
	if g.Winner == "" {
		return ResultPending, nil
	}
	if p.PickedTeam == g.Winner {
		return ResultCorrect, nil
	}
	return ResultIncorrect, nil
}

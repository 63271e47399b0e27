package pickem

import (
	"fmt"
	"math"
	"sort"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

// WeekStats is one user's record for a single week.
type WeekStats struct {
	Week      int     `json:"week"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Pending   int     `json:"pending"`
	Total     int     `json:"total"`
	Accuracy  float64 `json:"accuracy"`
}

// UserStats is one user's full record: per-week rows plus season totals.
// Total counts only resolved picks; pending picks never dilute accuracy.
type UserStats struct {
	UserID    string      `json:"userId"`
	Weekly    []WeekStats `json:"weekly"`
	Correct   int         `json:"correct"`
	Incorrect int         `json:"incorrect"`
	Pending   int         `json:"pending"`
	Total     int         `json:"total"`
	Accuracy  float64     `json:"accuracy"`
}

// LeaderboardRow is one user's standing. Rows are ordered by correct
// picks descending, then username ascending.
type LeaderboardRow struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// Accuracy returns correct/total as a percentage rounded to two decimals,
// and 0 when nothing has resolved yet.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*10000) / 100
}

type tally struct {
	correct   int
	incorrect int
	pending   int
}

func (t *tally) add(r Result) {
	switch r {
	case ResultCorrect:
		t.correct++
	case ResultIncorrect:
		t.incorrect++
	default:
		t.pending++
	}
}

func (t tally) total() int { return t.correct + t.incorrect }

// ComputeStats scores every pick belonging to userID and folds the
// results into weekly and overall records. Picks referencing a game
// absent from gamesByID fail with ErrReferentialIntegrity.
func ComputeStats(userID string, picks []pick.Pick, gamesByID map[string]game.Game) (UserStats, error) {
	byWeek := map[int]*tally{}
	var overall tally
	for _, p := range picks {
		if p.UserID != userID {
			continue
		}
		g, ok := gamesByID[p.GameID]
		if !ok {
			return UserStats{}, fmt.Errorf("%w: game %s", ErrReferentialIntegrity, p.GameID)
		}
		res, err := Score(p, g)
		if err != nil {
			return UserStats{}, err
		}
		wt := byWeek[p.Week]
		if wt == nil {
			wt = &tally{}
			byWeek[p.Week] = wt
		}
		wt.add(res)
		overall.add(res)
	}

	stats := UserStats{
		UserID:    userID,
		Weekly:    make([]WeekStats, 0, len(byWeek)),
		Correct:   overall.correct,
		Incorrect: overall.incorrect,
		Pending:   overall.pending,
		Total:     overall.total(),
		Accuracy:  Accuracy(overall.correct, overall.total()),
	}
	for week, t := range byWeek {
		stats.Weekly = append(stats.Weekly, WeekStats{
			Week:      week,
			Correct:   t.correct,
			Incorrect: t.incorrect,
			Pending:   t.pending,
			Total:     t.total(),
			Accuracy:  Accuracy(t.correct, t.total()),
		})
	}
	sort.Slice(stats.Weekly, func(i, j int) bool {
		return stats.Weekly[i].Week < stats.Weekly[j].Week
	})
	return stats, nil
}

// ComputeLeaderboard ranks users by correct picks within the scope: a
// single week when week is non-nil, the whole season otherwise. Users
// without a pick in scope are omitted; users whose picks are all pending
// appear with zero totals. Missing games or users fail the whole
// computation with ErrReferentialIntegrity.
func ComputeLeaderboard(week *int, picks []pick.Pick, gamesByID map[string]game.Game, usersByID map[string]user.User) ([]LeaderboardRow, error) {
	byUser := map[string]*tally{}
	for _, p := range picks {
		if week != nil && p.Week != *week {
			continue
		}
		g, ok := gamesByID[p.GameID]
		if !ok {
			return nil, fmt.Errorf("%w: game %s", ErrReferentialIntegrity, p.GameID)
		}
		if _, ok := usersByID[p.UserID]; !ok {
			return nil, fmt.Errorf("%w: user %s", ErrReferentialIntegrity, p.UserID)
		}
		res, err := Score(p, g)
		if err != nil {
			return nil, err
		}
		ut := byUser[p.UserID]
		if ut == nil {
			ut = &tally{}
			byUser[p.UserID] = ut
		}
		ut.add(res)
	}

	rows := make([]LeaderboardRow, 0, len(byUser))
	for userID, t := range byUser {
		rows = append(rows, LeaderboardRow{
			UserID:   userID,
			Username: usersByID[userID].Username,
			Correct:  t.correct,
			Total:    t.total(),
			Accuracy: Accuracy(t.correct, t.total()),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Correct != rows[j].Correct {
			return rows[i].Correct > rows[j].Correct
		}
		return rows[i].Username < rows[j].Username
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

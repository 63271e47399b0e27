package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
	"github.com/pickemleague/pickem-api/internal/platform/logging"
)

// The NFL regular season runs 18 weeks.
const regularSeasonWeeks = 18

// ExternalGame is one scoreboard entry as reported by the provider.
type ExternalGame struct {
	ExternalID string
	Week       int
	Season     int
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	HomeScore  *int
	AwayScore  *int
	Status     string
	FinishedAt *time.Time
}

// ScoreboardProvider fetches one week of games from the upstream feed.
type ScoreboardProvider interface {
	FetchWeek(ctx context.Context, season, week int) ([]ExternalGame, error)
}

type GameSyncService struct {
	gameRepo game.Repository
	runRepo  syncrun.Repository
	provider ScoreboardProvider
	ids      IDGenerator
	logger   *logging.Logger
	season   int
	workers  int
	now      func() time.Time
}

func NewGameSyncService(gameRepo game.Repository, runRepo syncrun.Repository, provider ScoreboardProvider, ids IDGenerator, logger *logging.Logger, season, workers int) *GameSyncService {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GameSyncService{
		gameRepo: gameRepo,
		runRepo:  runRepo,
		provider: provider,
		ids:      ids,
		logger:   logger,
		season:   season,
		workers:  workers,
		now:      time.Now,
	}
}

type SyncResult struct {
	RunID        string `json:"runId"`
	GamesUpdated int    `json:"gamesUpdated"`
	WeeksFailed  []int  `json:"weeksFailed,omitempty"`
}

// SyncNow pulls every regular-season week from the provider and upserts
// the results. Weeks fetch concurrently on a bounded pool; a week that
// fails is recorded but does not abort the others.
func (s *GameSyncService) SyncNow(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSyncService.SyncNow")
	defer span.End()

	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: scoreboard provider is not configured", ErrDependencyUnavailable)
	}

	run := syncrun.SyncRun{
		ID:        s.ids.NewID(),
		Season:    s.season,
		StartedAt: s.now().UTC(),
		Status:    syncrun.StatusRunning,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return SyncResult{}, fmt.Errorf("create sync run: %w", err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	var fetched []game.Game
	var failedWeeks []int

	var workers sync.WaitGroup
	for week := 1; week <= regularSeasonWeeks; week++ {
		week := week
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			items, fetchErr := s.provider.FetchWeek(ctx, s.season, week)
			mu.Lock()
			defer mu.Unlock()
			if fetchErr != nil {
				s.logger.WarnContext(ctx, "scoreboard fetch failed", "week", week, "error", fetchErr)
				failedWeeks = append(failedWeeks, week)
				return
			}
			for _, item := range items {
				fetched = append(fetched, mapExternalGame(item))
			}
		}); err != nil {
			workers.Done()
			return SyncResult{}, fmt.Errorf("submit week to worker pool: %w", err)
		}
	}
	workers.Wait()
	sort.Ints(failedWeeks)

	finishedAt := s.now().UTC()
	run.FinishedAt = &finishedAt
	run.GamesUpdated = len(fetched)

	if len(fetched) > 0 {
		if err := s.gameRepo.UpsertByESPNID(ctx, fetched); err != nil {
			run.Status = syncrun.StatusFailed
			run.Error = err.Error()
			_ = s.runRepo.Update(ctx, run)
			return SyncResult{}, fmt.Errorf("upsert games: %w", err)
		}
	}

	if len(failedWeeks) == regularSeasonWeeks {
		run.Status = syncrun.StatusFailed
		run.Error = "every week fetch failed"
	} else {
		run.Status = syncrun.StatusOK
		if len(failedWeeks) > 0 {
			run.Error = fmt.Sprintf("weeks failed: %v", failedWeeks)
		}
	}
	if err := s.runRepo.Update(ctx, run); err != nil {
		return SyncResult{}, fmt.Errorf("update sync run: %w", err)
	}
	if run.Status == syncrun.StatusFailed {
		return SyncResult{}, fmt.Errorf("%w: scoreboard feed unreachable", ErrDependencyUnavailable)
	}

	s.logger.InfoContext(ctx, "scoreboard sync finished",
		"run_id", run.ID,
		"games_updated", run.GamesUpdated,
		"weeks_failed", len(failedWeeks),
	)

	return SyncResult{
		RunID:        run.ID,
		GamesUpdated: run.GamesUpdated,
		WeeksFailed:  failedWeeks,
	}, nil
}

func (s *GameSyncService) ListRecentRuns(ctx context.Context, limit int) ([]syncrun.SyncRun, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSyncService.ListRecentRuns")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 20
	}
	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

func mapExternalGame(item ExternalGame) game.Game {
	g := game.Game{
		ESPNID:     strings.TrimSpace(item.ExternalID),
		Week:       item.Week,
		Season:     item.Season,
		HomeTeam:   strings.ToUpper(strings.TrimSpace(item.HomeTeam)),
		AwayTeam:   strings.ToUpper(strings.TrimSpace(item.AwayTeam)),
		KickoffAt:  item.KickoffAt.UTC(),
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
		Status:     game.NormalizeStatus(item.Status),
		FinishedAt: item.FinishedAt,
	}
	g.Winner = game.DeriveWinner(g)
	return g
}

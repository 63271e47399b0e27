package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
	"github.com/pickemleague/pickem-api/internal/platform/logging"
)

type stubScoreboardProvider struct {
	mu       sync.Mutex
	byWeek   map[int][]ExternalGame
	failWeek map[int]error
	calls    int
}

func (s *stubScoreboardProvider) FetchWeek(_ context.Context, _, week int) ([]ExternalGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.failWeek[week]; ok {
		return nil, err
	}
	return s.byWeek[week], nil
}

func TestGameSyncService_SyncNow(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 9, 7, 18, 0, 0, 0, time.UTC)
	home, away := 24, 17
	provider := &stubScoreboardProvider{
		byWeek: map[int][]ExternalGame{
			1: {
				{
					ExternalID: "401547401",
					Week:       1,
					Season:     testSeason,
					HomeTeam:   "kc",
					AwayTeam:   "buf",
					KickoffAt:  kickoff,
					HomeScore:  &home,
					AwayScore:  &away,
					Status:     "FINISHED",
				},
			},
		},
	}
	gameRepo := newStubGameRepository()
	runRepo := &stubSyncRunRepository{}
	service := NewGameSyncService(gameRepo, runRepo, provider, &sequenceIDs{}, logging.NewNop(), testSeason, 4)

	result, err := service.SyncNow(context.Background())
	if err != nil {
		t.Fatalf("SyncNow error: %v", err)
	}
	if result.GamesUpdated != 1 {
		t.Fatalf("expected 1 game updated, got %d", result.GamesUpdated)
	}
	if provider.calls != regularSeasonWeeks {
		t.Fatalf("expected %d week fetches, got %d", regularSeasonWeeks, provider.calls)
	}

	games, err := gameRepo.List(context.Background(), testSeason)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 stored game, got %d", len(games))
	}
	if games[0].Winner != "KC" {
		t.Fatalf("expected winner derived from final score, got %q", games[0].Winner)
	}

	runs, err := runRepo.ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent error: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != syncrun.StatusOK {
		t.Fatalf("unexpected sync runs: %+v", runs)
	}
}

func TestGameSyncService_SyncNow_PartialFailure(t *testing.T) {
	t.Parallel()

	provider := &stubScoreboardProvider{
		byWeek: map[int][]ExternalGame{
			2: {{ExternalID: "1", Week: 2, Season: testSeason, HomeTeam: "SF", AwayTeam: "SEA", KickoffAt: time.Now()}},
		},
		failWeek: map[int]error{7: fmt.Errorf("upstream 503")},
	}
	gameRepo := newStubGameRepository()
	runRepo := &stubSyncRunRepository{}
	service := NewGameSyncService(gameRepo, runRepo, provider, &sequenceIDs{}, logging.NewNop(), testSeason, 2)

	result, err := service.SyncNow(context.Background())
	if err != nil {
		t.Fatalf("SyncNow error: %v", err)
	}
	if len(result.WeeksFailed) != 1 || result.WeeksFailed[0] != 7 {
		t.Fatalf("unexpected failed weeks: %v", result.WeeksFailed)
	}
	if result.GamesUpdated != 1 {
		t.Fatalf("expected the healthy week to land, got %d games", result.GamesUpdated)
	}
}

func TestGameSyncService_SyncNow_AllWeeksFail(t *testing.T) {
	t.Parallel()

	failures := make(map[int]error, regularSeasonWeeks)
	for week := 1; week <= regularSeasonWeeks; week++ {
		failures[week] = fmt.Errorf("timeout")
	}
	provider := &stubScoreboardProvider{failWeek: failures}
	runRepo := &stubSyncRunRepository{}
	service := NewGameSyncService(newStubGameRepository(), runRepo, provider, &sequenceIDs{}, logging.NewNop(), testSeason, 2)

	_, err := service.SyncNow(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	runs, _ := runRepo.ListRecent(context.Background(), 5)
	if len(runs) != 1 || runs[0].Status != syncrun.StatusFailed {
		t.Fatalf("expected failed sync run, got %+v", runs)
	}
}

func TestGameSyncService_SyncNow_NoProvider(t *testing.T) {
	t.Parallel()

	service := NewGameSyncService(newStubGameRepository(), &stubSyncRunRepository{}, nil, &sequenceIDs{}, logging.NewNop(), testSeason, 2)
	if _, err := service.SyncNow(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

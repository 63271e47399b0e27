package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

type stubUserRepository struct {
	mu    sync.Mutex
	byID  map[string]user.User
	order []string
}

func newStubUserRepository(items ...user.User) *stubUserRepository {
	repo := &stubUserRepository{byID: map[string]user.User{}}
	for _, item := range items {
		repo.byID[item.ID] = item
		repo.order = append(repo.order, item.ID)
	}
	return repo
}

func (s *stubUserRepository) List(_ context.Context) ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]user.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *stubUserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[userID]
	return item, ok, nil
}

func (s *stubUserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.byID {
		if item.Username == username {
			return item, true, nil
		}
	}
	return user.User{}, false, nil
}

func (s *stubUserRepository) Create(_ context.Context, item user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[item.ID] = item
	s.order = append(s.order, item.ID)
	return nil
}

func (s *stubUserRepository) Update(_ context.Context, item user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[item.ID]; !ok {
		return fmt.Errorf("user %s not found", item.ID)
	}
	s.byID[item.ID] = item
	return nil
}

func (s *stubUserRepository) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, userID)
	for i, id := range s.order {
		if id == userID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stubUserRepository) ReplaceAll(_ context.Context, items []user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]user.User, len(items))
	s.order = s.order[:0]
	for _, item := range items {
		s.byID[item.ID] = item
		s.order = append(s.order, item.ID)
	}
	return nil
}

type stubGameRepository struct {
	mu   sync.Mutex
	byID map[string]game.Game
}

func newStubGameRepository(items ...game.Game) *stubGameRepository {
	repo := &stubGameRepository{byID: map[string]game.Game{}}
	for _, item := range items {
		repo.byID[item.ID] = item
	}
	return repo
}

func (s *stubGameRepository) ListByWeek(_ context.Context, season, week int) ([]game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []game.Game
	for _, item := range s.byID {
		if item.Season == season && item.Week == week {
			out = append(out, item)
		}
	}
	sortGames(out)
	return out, nil
}

func (s *stubGameRepository) List(_ context.Context, season int) ([]game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []game.Game
	for _, item := range s.byID {
		if season <= 0 || item.Season == season {
			out = append(out, item)
		}
	}
	sortGames(out)
	return out, nil
}

func (s *stubGameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[gameID]
	return item, ok, nil
}

func (s *stubGameRepository) UpsertByESPNID(_ context.Context, items []game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		found := false
		for id, existing := range s.byID {
			if existing.ESPNID == item.ESPNID {
				item.ID = existing.ID
				s.byID[id] = item
				found = true
				break
			}
		}
		if !found {
			if item.ID == "" {
				item.ID = "g-" + item.ESPNID
			}
			s.byID[item.ID] = item
		}
	}
	return nil
}

func (s *stubGameRepository) ReplaceAll(_ context.Context, items []game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]game.Game, len(items))
	for _, item := range items {
		s.byID[item.ID] = item
	}
	return nil
}

func sortGames(items []game.Game) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

type stubPickRepository struct {
	mu    sync.Mutex
	items []pick.Pick
}

func newStubPickRepository(items ...pick.Pick) *stubPickRepository {
	return &stubPickRepository{items: items}
}

func (s *stubPickRepository) ListByUserAndWeek(_ context.Context, userID string, week int) ([]pick.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pick.Pick
	for _, item := range s.items {
		if item.UserID == userID && item.Week == week {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubPickRepository) ListByUser(_ context.Context, userID string) ([]pick.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pick.Pick
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubPickRepository) ListByWeek(_ context.Context, week int) ([]pick.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pick.Pick
	for _, item := range s.items {
		if item.Week == week {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubPickRepository) ListAll(_ context.Context) ([]pick.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pick.Pick, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubPickRepository) UpsertBatch(_ context.Context, picks []pick.Pick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, incoming := range picks {
		replaced := false
		for i, existing := range s.items {
			if existing.UserID == incoming.UserID && existing.GameID == incoming.GameID {
				s.items[i] = incoming
				replaced = true
				break
			}
		}
		if !replaced {
			s.items = append(s.items, incoming)
		}
	}
	return nil
}

func (s *stubPickRepository) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return nil
}

func (s *stubPickRepository) ReplaceAll(_ context.Context, picks []pick.Pick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]pick.Pick, len(picks))
	copy(s.items, picks)
	return nil
}

type stubSyncRunRepository struct {
	mu   sync.Mutex
	runs []syncrun.SyncRun
}

func (s *stubSyncRunRepository) Create(_ context.Context, run syncrun.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubSyncRunRepository) Update(_ context.Context, run syncrun.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.runs {
		if existing.ID == run.ID {
			s.runs[i] = run
			return nil
		}
	}
	return fmt.Errorf("sync run %s not found", run.ID)
}

func (s *stubSyncRunRepository) ListRecent(_ context.Context, limit int) ([]syncrun.SyncRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]syncrun.SyncRun, len(s.runs))
	copy(out, s.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (fakeHasher) Compare(hashed, plain string) bool { return hashed == "hashed:"+plain }

type fakeIssuer struct{}

func (fakeIssuer) IssueAccessToken(_ context.Context, p user.Principal) (string, time.Time, error) {
	return "token-" + p.UserID, time.Now().Add(time.Hour), nil
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (s *sequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("id-%d", s.next)
}

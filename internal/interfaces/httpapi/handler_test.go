package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/user"
	"github.com/pickemleague/pickem-api/internal/infrastructure/auth"
	"github.com/pickemleague/pickem-api/internal/infrastructure/repository/memory"
	"github.com/pickemleague/pickem-api/internal/platform/id"
	"github.com/pickemleague/pickem-api/internal/usecase"
)

const (
	testSeason   = 2025
	testPassword = "secret-league-pass"
)

type testEnv struct {
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher := auth.NewPasswordHasher()
	passwordHash, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash test password: %v", err)
	}

	now := time.Now().UTC()
	users := []user.User{
		{ID: "u-admin", Username: "commissioner", PasswordHash: passwordHash, IsAdmin: true, CreatedAt: now, UpdatedAt: now},
		{ID: "u-alice", Username: "alice", PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now},
	}
	games := []game.Game{
		{ID: "g-open", ESPNID: "1001", Week: 1, Season: testSeason, HomeTeam: "KC", AwayTeam: "BAL", KickoffAt: now.Add(3 * time.Hour), Status: game.StatusScheduled},
		{ID: "g-locked", ESPNID: "1002", Week: 2, Season: testSeason, HomeTeam: "SF", AwayTeam: "SEA", KickoffAt: now.Add(time.Hour), Status: game.StatusScheduled},
	}

	userRepo := memory.NewUserRepository(users)
	gameRepo := memory.NewGameRepository(games)
	pickRepo := memory.NewPickRepository()

	tokens := auth.NewTokenManager("test-secret", "pickem-api-test", time.Hour)

	handler := NewHandler(
		usecase.NewAuthService(userRepo, tokens, hasher),
		usecase.NewUserService(userRepo, pickRepo, hasher, id.NewGenerator(), "password"),
		usecase.NewGameService(gameRepo, testSeason),
		usecase.NewPickService(pickRepo, gameRepo, testSeason),
		usecase.NewStatsService(pickRepo, gameRepo, userRepo, testSeason),
		usecase.NewLeaderboardService(pickRepo, gameRepo, userRepo, testSeason),
		nil,
		usecase.NewBackupService(userRepo, gameRepo, pickRepo, nil, t.TempDir(), 5),
		nil,
	)

	return &testEnv{
		router: NewRouter(handler, tokens, nil, []string{"*"}, "job-token"),
	}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/v1/auth/login", "", fmt.Sprintf(`{"username":%q,"password":%q}`, username, testPassword))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", username, rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if envelope.Data.Token == "" {
		t.Fatalf("expected a token in login response")
	}
	return envelope.Data.Token
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/auth/login", "", `{"username":"alice","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
}

func TestListGames_RequiresAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodGet, "/v1/games", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	token := env.login(t, "alice")
	rec := env.do(t, http.MethodGet, "/v1/games?week=1", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a token, got %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data []gameDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode games response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].ID != "g-open" {
		t.Fatalf("expected the single week-1 game, got %+v", envelope.Data)
	}
}

func TestSubmitPicks_RoundTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t, "alice")

	rec := env.do(t, http.MethodPost, "/v1/picks", token, `{"week":1,"picks":[{"gameId":"g-open","pickedTeam":"kc"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an open week, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/v1/picks/me?week=1", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing picks, got %d", rec.Code)
	}
	var envelope struct {
		Data []pickDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode picks response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected one stored pick, got %d", len(envelope.Data))
	}
	if envelope.Data[0].PickedTeam != "KC" {
		t.Fatalf("expected picked team normalized to KC, got %q", envelope.Data[0].PickedTeam)
	}
}

func TestSubmitPicks_LockedWeek(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	body := `{"week":2,"picks":[{"gameId":"g-locked","pickedTeam":"SF"}]}`

	token := env.login(t, "alice")
	rec := env.do(t, http.MethodPost, "/v1/picks", token, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 inside the lock window, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "picksLocked") {
		t.Fatalf("expected picksLocked reason, got body=%s", rec.Body.String())
	}

	adminToken := env.login(t, "commissioner")
	rec = env.do(t, http.MethodPost, "/v1/picks", adminToken, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected admin to bypass the lock, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	token := env.login(t, "alice")
	if rec := env.do(t, http.MethodGet, "/v1/admin/users", token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin, got %d", rec.Code)
	}

	adminToken := env.login(t, "commissioner")
	rec := env.do(t, http.MethodGet, "/v1/admin/users", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an admin, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLeaderboard_EmptySeason(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(t, "alice")

	rec := env.do(t, http.MethodGet, "/v1/leaderboard", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected an empty leaderboard, got body=%s", rec.Body.String())
	}
}

func TestInternalJobRoute_TokenGuard(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-scoreboard", strings.NewReader(""))
	req.Header.Set("X-Internal-Job-Token", "wrong")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad job token, got %d", rec.Code)
	}
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/user"
	"github.com/pickemleague/pickem-api/internal/platform/logging"
	"github.com/pickemleague/pickem-api/internal/usecase"
)

type Handler struct {
	authService        *usecase.AuthService
	userService        *usecase.UserService
	gameService        *usecase.GameService
	pickService        *usecase.PickService
	statsService       *usecase.StatsService
	leaderboardService *usecase.LeaderboardService
	syncService        *usecase.GameSyncService
	backupService      *usecase.BackupService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	userService *usecase.UserService,
	gameService *usecase.GameService,
	pickService *usecase.PickService,
	statsService *usecase.StatsService,
	leaderboardService *usecase.LeaderboardService,
	syncService *usecase.GameSyncService,
	backupService *usecase.BackupService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:        authService,
		userService:        userService,
		gameService:        gameService,
		pickService:        pickService,
		statsService:       statsService,
		leaderboardService: leaderboardService,
		syncService:        syncService,
		backupService:      backupService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, loginResponseDTO{
		Token:      result.Token,
		ExpiresAt:  result.ExpiresAt.UTC().Format(time.RFC3339),
		FirstLogin: result.FirstLogin,
		User:       userToDTO(result.User),
	})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangePassword")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req changePasswordRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.authService.ChangePassword(ctx, principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.logger.WarnContext(ctx, "change password failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.userService.GetByID(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(item))
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	week, err := optionalWeekParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.gameService.List(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.GetByID(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) SubmitPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPicksRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.pickService.Submit(ctx, principal, req.Week, req.Picks)
	if err != nil {
		h.logger.WarnContext(ctx, "submit picks failed", "user_id", principal.UserID, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(saved))
	for _, p := range saved {
		items = append(items, pickToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	week, err := optionalWeekParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.pickService.ListMine(ctx, principal.UserID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "list picks failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(picks))
	for _, p := range picks {
		items = append(items, pickToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	stats, err := h.statsService.GetForUser(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get stats failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserStats")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	stats, err := h.statsService.GetForUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get stats failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	week, err := optionalWeekParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.leaderboardService.Get(ctx, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, target any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, target)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// optionalWeekParam parses the ?week= query; absence means the whole
// season.
func optionalWeekParam(r *http.Request) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("week"))
	if raw == "" {
		return nil, nil
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week < 1 {
		return nil, fmt.Errorf("%w: week must be a positive integer", usecase.ErrInvalidInput)
	}
	return &week, nil
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type submitPicksRequest struct {
	Week  int                     `json:"week" validate:"required,gte=1"`
	Picks []usecase.PickSelection `json:"picks" validate:"required,min=1,dive"`
}

type loginResponseDTO struct {
	Token      string  `json:"token"`
	ExpiresAt  string  `json:"expiresAt"`
	FirstLogin bool    `json:"firstLogin"`
	User       userDTO `json:"user"`
}

type userDTO struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	IsAdmin    bool   `json:"isAdmin"`
	FirstLogin bool   `json:"firstLogin"`
	CreatedAt  string `json:"createdAt"`
}

type gameDTO struct {
	ID         string  `json:"id"`
	Week       int     `json:"week"`
	Season     int     `json:"season"`
	HomeTeam   string  `json:"homeTeam"`
	AwayTeam   string  `json:"awayTeam"`
	KickoffAt  string  `json:"kickoffAt"`
	HomeScore  *int    `json:"homeScore"`
	AwayScore  *int    `json:"awayScore"`
	Winner     string  `json:"winner,omitempty"`
	Status     string  `json:"status"`
	FinishedAt *string `json:"finishedAt,omitempty"`
}

type pickDTO struct {
	GameID         string `json:"gameId"`
	Week           int    `json:"week"`
	PickedTeam     string `json:"pickedTeam"`
	MNFTotalPoints *int   `json:"mnfTotalPoints,omitempty"`
	UpdatedAt      string `json:"updatedAt"`
}

func userToDTO(v user.User) userDTO {
	return userDTO{
		ID:         v.ID,
		Username:   v.Username,
		IsAdmin:    v.IsAdmin,
		FirstLogin: v.FirstLogin,
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func gameToDTO(v game.Game) gameDTO {
	out := gameDTO{
		ID:        v.ID,
		Week:      v.Week,
		Season:    v.Season,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		KickoffAt: v.KickoffAt.UTC().Format(time.RFC3339),
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
		Winner:    v.Winner,
		Status:    game.NormalizeStatus(v.Status),
	}
	if v.FinishedAt != nil {
		formatted := v.FinishedAt.UTC().Format(time.RFC3339)
		out.FinishedAt = &formatted
	}
	return out
}

func pickToDTO(v pick.Pick) pickDTO {
	return pickDTO{
		GameID:         v.GameID,
		Week:           v.Week,
		PickedTeam:     v.PickedTeam,
		MNFTotalPoints: v.MNFTotalPoints,
		UpdatedAt:      v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

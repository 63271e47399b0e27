package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
	"github.com/pickemleague/pickem-api/internal/usecase"
)

const defaultSyncRunLimit = 20

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	users, err := h.userService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list users failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(u))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateUser")
	defer span.End()

	var req createUserRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.userService.Create(ctx, req.Username, req.IsAdmin)
	if err != nil {
		h.logger.WarnContext(ctx, "create user failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, userToDTO(item))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateUser")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))

	var req updateUserRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.userService.Update(ctx, userID, usecase.UpdateUserInput{
		Username:      req.Username,
		IsAdmin:       req.IsAdmin,
		ResetPassword: req.ResetPassword,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update user failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, userToDTO(item))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteUser")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	userID := strings.TrimSpace(r.PathValue("userID"))
	if userID == principal.UserID {
		writeError(ctx, w, fmt.Errorf("%w: cannot delete your own account", usecase.ErrInvalidInput))
		return
	}

	if err := h.userService.Delete(ctx, userID); err != nil {
		h.logger.WarnContext(ctx, "delete user failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) RunScoreboardSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreboardSync")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoreboard sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.syncService.SyncNow(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "scoreboard sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	if h.syncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoreboard sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	limit := defaultSyncRunLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	runs, err := h.syncService.ListRecentRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, syncRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBackup")
	defer span.End()

	info, err := h.backupService.Create(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "create backup failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, info)
}

func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBackups")
	defer span.End()

	items, err := h.backupService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list backups failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestoreBackup")
	defer span.End()

	name := strings.TrimSpace(r.PathValue("name"))
	if err := h.backupService.Restore(ctx, name); err != nil {
		h.logger.ErrorContext(ctx, "restore backup failed", "name", name, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "restored", "name": name})
}

// RunScoreboardSyncJob is the scheduler-facing variant of the admin
// sync endpoint, guarded by the internal job token instead of a user
// session.
func (h *Handler) RunScoreboardSyncJob(w http.ResponseWriter, r *http.Request) {
	h.RunScoreboardSync(w, r)
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	IsAdmin  bool   `json:"isAdmin"`
}

type updateUserRequest struct {
	Username      *string `json:"username" validate:"omitempty,min=3,max=50"`
	IsAdmin       *bool   `json:"isAdmin"`
	ResetPassword bool    `json:"resetPassword"`
}

type syncRunDTO struct {
	ID           string  `json:"id"`
	Season       int     `json:"season"`
	StartedAt    string  `json:"startedAt"`
	FinishedAt   *string `json:"finishedAt,omitempty"`
	Status       string  `json:"status"`
	GamesUpdated int     `json:"gamesUpdated"`
	Error        string  `json:"error,omitempty"`
}

func syncRunToDTO(v syncrun.SyncRun) syncRunDTO {
	out := syncRunDTO{
		ID:           v.ID,
		Season:       v.Season,
		StartedAt:    v.StartedAt.UTC().Format(time.RFC3339),
		Status:       v.Status,
		GamesUpdated: v.GamesUpdated,
		Error:        v.Error,
	}
	if v.FinishedAt != nil {
		formatted := v.FinishedAt.UTC().Format(time.RFC3339)
		out.FinishedAt = &formatted
	}
	return out
}

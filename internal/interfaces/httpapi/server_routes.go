package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.Handle("POST /v1/auth/password", RequireAuth(verifier, http.HandlerFunc(handler.ChangePassword)))
	mux.Handle("GET /v1/auth/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/games", RequireAuth(verifier, http.HandlerFunc(handler.ListGames)))
	mux.Handle("GET /v1/games/{gameID}", RequireAuth(verifier, http.HandlerFunc(handler.GetGame)))
	mux.Handle("POST /v1/picks", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPicks)))
	mux.Handle("GET /v1/picks/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPicks)))
	mux.Handle("GET /v1/stats/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyStats)))
	mux.Handle("GET /v1/users/{userID}/stats", RequireAuth(verifier, http.HandlerFunc(handler.GetUserStats)))
	mux.Handle("GET /v1/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeaderboard)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(next http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(next))
	}

	mux.Handle("GET /v1/admin/users", admin(handler.ListUsers))
	mux.Handle("POST /v1/admin/users", admin(handler.CreateUser))
	mux.Handle("PATCH /v1/admin/users/{userID}", admin(handler.UpdateUser))
	mux.Handle("DELETE /v1/admin/users/{userID}", admin(handler.DeleteUser))

	mux.Handle("POST /v1/admin/sync", admin(handler.RunScoreboardSync))
	mux.Handle("GET /v1/admin/sync/runs", admin(handler.ListSyncRuns))

	mux.Handle("POST /v1/admin/backups", admin(handler.CreateBackup))
	mux.Handle("GET /v1/admin/backups", admin(handler.ListBackups))
	mux.Handle("POST /v1/admin/backups/{name}/restore", admin(handler.RestoreBackup))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-scoreboard", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoreboardSyncJob)))
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pickemleague/pickem-api/external/espn"
	"github.com/pickemleague/pickem-api/internal/config"
	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
	"github.com/pickemleague/pickem-api/internal/domain/user"
	"github.com/pickemleague/pickem-api/internal/infrastructure/auth"
	cacherepo "github.com/pickemleague/pickem-api/internal/infrastructure/repository/cache"
	"github.com/pickemleague/pickem-api/internal/infrastructure/repository/memory"
	"github.com/pickemleague/pickem-api/internal/infrastructure/repository/postgres"
	"github.com/pickemleague/pickem-api/internal/interfaces/httpapi"
	basecache "github.com/pickemleague/pickem-api/internal/platform/cache"
	"github.com/pickemleague/pickem-api/internal/platform/id"
	"github.com/pickemleague/pickem-api/internal/platform/logging"
	"github.com/pickemleague/pickem-api/internal/platform/resilience"
	"github.com/pickemleague/pickem-api/internal/usecase"
)

// syncJobTimeout bounds a single scheduled scoreboard sync; a full
// season pull is 18 upstream calls.
const syncJobTimeout = 5 * time.Minute

// App owns the HTTP server plus the background pieces that live and
// die with it (sync scheduler, database pool).
type App struct {
	Server *http.Server

	logger    *logging.Logger
	scheduler *cron.Cron
	db        *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	gameRepo := repos.games
	if cfg.CacheEnabled {
		gameRepo = cacherepo.NewGameRepository(gameRepo, basecache.NewStore(cfg.CacheTTL))
	}

	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	ids := id.NewGenerator()

	authSvc := usecase.NewAuthService(repos.users, tokens, hasher)
	userSvc := usecase.NewUserService(repos.users, repos.picks, hasher, ids, cfg.DefaultUserPassword)
	gameSvc := usecase.NewGameService(gameRepo, cfg.Season)
	pickSvc := usecase.NewPickService(repos.picks, gameRepo, cfg.Season)
	statsSvc := usecase.NewStatsService(repos.picks, gameRepo, repos.users, cfg.Season)
	leaderboardSvc := usecase.NewLeaderboardService(repos.picks, gameRepo, repos.users, cfg.Season)
	backupSvc := usecase.NewBackupService(repos.users, gameRepo, repos.picks, logger, cfg.BackupDir, cfg.BackupKeep)

	var syncSvc *usecase.GameSyncService
	if cfg.ESPNEnabled {
		client := espn.NewClient(espn.ClientConfig{
			BaseURL:    cfg.ESPNBaseURL,
			Timeout:    cfg.ESPNTimeout,
			MaxRetries: cfg.ESPNMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ESPNCircuitEnabled,
				FailureThreshold: cfg.ESPNCircuitFailureCount,
				OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
			},
		})
		syncSvc = usecase.NewGameSyncService(gameRepo, repos.runs, client, ids, logger, cfg.Season, cfg.SyncWorkers)
	}

	handler := httpapi.NewHandler(
		authSvc,
		userSvc,
		gameSvc,
		pickSvc,
		statsSvc,
		leaderboardSvc,
		syncSvc,
		backupSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, tokens, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	app := &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
		db:     db,
	}

	if cfg.SyncEnabled && syncSvc != nil {
		scheduler, err := buildSyncScheduler(cfg, syncSvc, logger)
		if err != nil {
			return nil, err
		}
		app.scheduler = scheduler
	}

	return app, nil
}

// Start launches the background scheduler. The HTTP server itself is
// started by the caller so it controls the listen error path.
func (a *App) Start() {
	if a.scheduler != nil {
		a.scheduler.Start()
		a.logger.Info("sync scheduler started")
	}
}

// Shutdown stops the scheduler, drains the HTTP server and closes the
// database pool.
func (a *App) Shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		select {
		case <-a.scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}

	err := a.Server.Shutdown(ctx)

	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

type repositories struct {
	users user.Repository
	games game.Repository
	picks pick.Repository
	runs  syncrun.Repository
}

// buildRepositories returns postgres-backed repositories when DB_URL is
// set and seeded in-memory ones otherwise. The in-memory mode exists
// for local development and keeps the full API usable without a
// database.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if strings.TrimSpace(cfg.DBURL) != "" {
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		logger.Info("using postgres repositories", "database", dbNameFromURL(cfg.DBURL))
		return repositories{
			users: postgres.NewUserRepository(db),
			games: postgres.NewGameRepository(db),
			picks: postgres.NewPickRepository(db),
			runs:  postgres.NewSyncRunRepository(db),
		}, db, nil
	}

	passwordHash, err := auth.NewPasswordHasher().Hash(cfg.DefaultUserPassword)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("hash default password: %w", err)
	}

	now := time.Now().UTC()
	logger.Info("using in-memory repositories", "reason", "DB_URL empty")
	return repositories{
		users: memory.NewUserRepository(memory.SeedUsers(passwordHash, now)),
		games: memory.NewGameRepository(memory.SeedGames(cfg.Season, now)),
		picks: memory.NewPickRepository(),
		runs:  memory.NewSyncRunRepository(),
	}, nil, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func buildSyncScheduler(cfg config.Config, syncSvc *usecase.GameSyncService, logger *logging.Logger) (*cron.Cron, error) {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(cfg.SyncSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncJobTimeout)
		defer cancel()

		result, err := syncSvc.SyncNow(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "scheduled scoreboard sync failed", "error", err)
			return
		}
		logger.InfoContext(ctx, "scheduled scoreboard sync finished",
			"run_id", result.RunID,
			"games_updated", result.GamesUpdated,
			"weeks_failed", len(result.WeeksFailed),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("register sync schedule %q: %w", cfg.SyncSchedule, err)
	}

	return scheduler, nil
}

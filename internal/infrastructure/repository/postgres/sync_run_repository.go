package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
	qb "github.com/pickemleague/pickem-api/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Create(ctx context.Context, run syncrun.SyncRun) error {
	model := syncRunTableModel{
		ID:           run.ID,
		Season:       run.Season,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Status:       run.Status,
		GamesUpdated: run.GamesUpdated,
		Error:        stringToNullString(run.Error),
	}
	query, args, err := qb.InsertModel("sync_runs", model, "")
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

func (r *SyncRunRepository) Update(ctx context.Context, run syncrun.SyncRun) error {
	query, args, err := qb.Update("sync_runs").
		Set("finished_at", run.FinishedAt).
		Set("status", run.Status).
		Set("games_updated", run.GamesUpdated).
		Set("error", stringToNullString(run.Error)).
		Where(qb.Eq("id", run.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update sync run: %w", err)
	}
	return nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.SyncRun, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		OrderBy("started_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sync runs: %w", err)
	}

	out := make([]syncrun.SyncRun, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

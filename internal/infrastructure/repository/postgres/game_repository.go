package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/platform/id"
	qb "github.com/pickemleague/pickem-api/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("season", season),
			qb.Eq("week", week),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by week query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by week: %w", err)
	}
	return gamesToDomain(rows), nil
}

func (r *GameRepository) List(ctx context.Context, season int) ([]game.Game, error) {
	builder := qb.Select("*").From("games")
	if season > 0 {
		builder = builder.Where(qb.Eq("season", season))
	}
	query, args, err := builder.OrderBy("kickoff_at", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}
	return gamesToDomain(rows), nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}
	return row.toDomain(), true, nil
}

// UpsertByESPNID lands a feed snapshot in one transaction keyed on the
// provider's game id, so repeated syncs update scores in place.
func (r *GameRepository) UpsertByESPNID(ctx context.Context, items []game.Game) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if item.ID == "" {
			item.ID = id.NewID()
		}
		query, args, err := qb.InsertModel("games", gameToModel(item), `ON CONFLICT (espn_id)
DO UPDATE SET
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    winner = EXCLUDED.winner,
    status = EXCLUDED.status,
    finished_at = EXCLUDED.finished_at`)
		if err != nil {
			return fmt.Errorf("build upsert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game %s: %w", item.ESPNID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert games: %w", err)
	}
	return nil
}

func (r *GameRepository) ReplaceAll(ctx context.Context, items []game.Game) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM games"); err != nil {
		return fmt.Errorf("clear games: %w", err)
	}
	for _, item := range items {
		if item.ID == "" {
			item.ID = id.NewID()
		}
		query, args, err := qb.InsertModel("games", gameToModel(item), "")
		if err != nil {
			return fmt.Errorf("build insert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace games: %w", err)
	}
	return nil
}

func gamesToDomain(rows []gameTableModel) []game.Game {
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

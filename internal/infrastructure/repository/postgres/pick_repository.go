package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	qb "github.com/pickemleague/pickem-api/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) ListByUserAndWeek(ctx context.Context, userID string, week int) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("week", week),
		).
		OrderBy("game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks by user and week query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.listByUserAndWeekSingleParam(ctx, userID, week)
		}
		return nil, fmt.Errorf("select picks by user and week: %w", err)
	}
	return picksFromRows(rows), nil
}

func (r *PickRepository) listByUserAndWeekSingleParam(ctx context.Context, userID string, week int) ([]pick.Pick, error) {
	query, _, err := qb.Select("*").From("picks").
		Where(
			qb.Expr("user_id = ($1::text[])[1]"),
			qb.Expr("week = (($1::text[])[2])::int"),
		).
		OrderBy("game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks single param fallback query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array([]string{userID, strconv.Itoa(week)})); err != nil {
		if isUnnamedPreparedStatementMissing(err) {
			return r.listByUserAndWeekLiteral(ctx, userID, week)
		}
		return nil, fmt.Errorf("select picks fallback: %w", err)
	}
	return picksFromRows(rows), nil
}

func (r *PickRepository) listByUserAndWeekLiteral(ctx context.Context, userID string, week int) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.EqLiteral("user_id", userID),
			qb.Expr(fmt.Sprintf("week = %d", week)),
		).
		OrderBy("game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks literal fallback query: %w", err)
	}
	return r.selectPicks(ctx, query, args)
}

func (r *PickRepository) ListByUser(ctx context.Context, userID string) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(qb.Eq("user_id", userID)).
		OrderBy("week", "game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks by user query: %w", err)
	}
	return r.selectPicks(ctx, query, args)
}

func (r *PickRepository) ListByWeek(ctx context.Context, week int) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(qb.Eq("week", week)).
		OrderBy("user_id", "game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks by week query: %w", err)
	}
	return r.selectPicks(ctx, query, args)
}

func (r *PickRepository) ListAll(ctx context.Context) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		OrderBy("user_id", "week", "game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks query: %w", err)
	}
	return r.selectPicks(ctx, query, args)
}

// UpsertBatch writes the whole submission in one transaction keyed on
// (user_id, game_id); resubmitting a game replaces the earlier pick.
func (r *PickRepository) UpsertBatch(ctx context.Context, picks []pick.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert picks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range picks {
		query, args, err := qb.InsertModel("picks", pickToModel(item), `ON CONFLICT (user_id, game_id)
DO UPDATE SET
    week = EXCLUDED.week,
    picked_team = EXCLUDED.picked_team,
    mnf_total_points = EXCLUDED.mnf_total_points,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert pick query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert pick user=%s game=%s: %w", item.UserID, item.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert picks: %w", err)
	}
	return nil
}

// DeleteByUser is redundant next to the picks FK cascade but keeps the
// repository contract explicit for every backend.
func (r *PickRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM picks WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete picks for user %s: %w", userID, err)
	}
	return nil
}

func (r *PickRepository) ReplaceAll(ctx context.Context, picks []pick.Pick) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace picks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM picks"); err != nil {
		return fmt.Errorf("clear picks: %w", err)
	}
	for _, item := range picks {
		query, args, err := qb.InsertModel("picks", pickToModel(item), "")
		if err != nil {
			return fmt.Errorf("build insert pick query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert pick: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace picks: %w", err)
	}
	return nil
}

func (r *PickRepository) selectPicks(ctx context.Context, query string, args []any) ([]pick.Pick, error) {
	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}
	return picksFromRows(rows), nil
}

func picksFromRows(rows []pickTableModel) []pick.Pick {
	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

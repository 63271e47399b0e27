package postgres

import (
	"database/sql"
	"time"

	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/syncrun"
	"github.com/pickemleague/pickem-api/internal/domain/user"
)

type userTableModel struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	FirstLogin   bool      `db:"first_login"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		FirstLogin:   m.FirstLogin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func userToModel(item user.User) userTableModel {
	return userTableModel{
		ID:           item.ID,
		Username:     item.Username,
		PasswordHash: item.PasswordHash,
		IsAdmin:      item.IsAdmin,
		FirstLogin:   item.FirstLogin,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

type gameTableModel struct {
	ID         string        `db:"id"`
	ESPNID     string        `db:"espn_id"`
	Season     int           `db:"season"`
	Week       int           `db:"week"`
	HomeTeam   string        `db:"home_team"`
	AwayTeam   string        `db:"away_team"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Winner     string        `db:"winner"`
	Status     string        `db:"status"`
	FinishedAt *time.Time    `db:"finished_at"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:         m.ID,
		ESPNID:     m.ESPNID,
		Season:     m.Season,
		Week:       m.Week,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		KickoffAt:  m.KickoffAt,
		HomeScore:  nullInt64ToIntPtr(m.HomeScore),
		AwayScore:  nullInt64ToIntPtr(m.AwayScore),
		Winner:     m.Winner,
		Status:     m.Status,
		FinishedAt: m.FinishedAt,
	}
}

func gameToModel(item game.Game) gameTableModel {
	return gameTableModel{
		ID:         item.ID,
		ESPNID:     item.ESPNID,
		Season:     item.Season,
		Week:       item.Week,
		HomeTeam:   item.HomeTeam,
		AwayTeam:   item.AwayTeam,
		KickoffAt:  item.KickoffAt,
		HomeScore:  intPtrToNullInt64(item.HomeScore),
		AwayScore:  intPtrToNullInt64(item.AwayScore),
		Winner:     item.Winner,
		Status:     item.Status,
		FinishedAt: item.FinishedAt,
	}
}

type pickTableModel struct {
	UserID         string        `db:"user_id"`
	GameID         string        `db:"game_id"`
	Week           int           `db:"week"`
	PickedTeam     string        `db:"picked_team"`
	MNFTotalPoints sql.NullInt64 `db:"mnf_total_points"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

func (m pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		UserID:         m.UserID,
		GameID:         m.GameID,
		Week:           m.Week,
		PickedTeam:     m.PickedTeam,
		MNFTotalPoints: nullInt64ToIntPtr(m.MNFTotalPoints),
		UpdatedAt:      m.UpdatedAt,
	}
}

func pickToModel(item pick.Pick) pickTableModel {
	return pickTableModel{
		UserID:         item.UserID,
		GameID:         item.GameID,
		Week:           item.Week,
		PickedTeam:     item.PickedTeam,
		MNFTotalPoints: intPtrToNullInt64(item.MNFTotalPoints),
		UpdatedAt:      item.UpdatedAt,
	}
}

type syncRunTableModel struct {
	ID           string         `db:"id"`
	Season       int            `db:"season"`
	StartedAt    time.Time      `db:"started_at"`
	FinishedAt   *time.Time     `db:"finished_at"`
	Status       string         `db:"status"`
	GamesUpdated int            `db:"games_updated"`
	Error        sql.NullString `db:"error"`
}

func (m syncRunTableModel) toDomain() syncrun.SyncRun {
	return syncrun.SyncRun{
		ID:           m.ID,
		Season:       m.Season,
		StartedAt:    m.StartedAt,
		FinishedAt:   m.FinishedAt,
		Status:       m.Status,
		GamesUpdated: m.GamesUpdated,
		Error:        m.Error.String,
	}
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}

func intPtrToNullInt64(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func stringToNullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

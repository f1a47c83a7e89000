package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	model "github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/pkg/metrics"
)

const historySchema = `CREATE TABLE IF NOT EXISTS elo_history (
	entity_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	season_year INTEGER NOT NULL,
	qualifying REAL NOT NULL,
	race REAL NOT NULL,
	global REAL NOT NULL,
	qualifying_matchups INTEGER NOT NULL,
	race_matchups INTEGER NOT NULL,
	run_id TEXT NOT NULL,
	PRIMARY KEY (entity_id, season_year)
);
CREATE INDEX IF NOT EXISTS idx_elo_history_season ON elo_history (season_year, kind);`

// SQLiteHistory persists season snapshots to a SQLite database. Each
// season is committed in one transaction; rows are never updated.
type SQLiteHistory struct {
	db    *sql.DB
	runID string
}

// NewSQLiteHistory opens (creating if needed) the history database at
// path. The run id is stamped on every row this process writes.
func NewSQLiteHistory(ctx context.Context, path, runID string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.ExecContext(ctx, historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &SQLiteHistory{db: db, runID: runID}, nil
}

// Reset clears the history table so a fresh replay can rewrite it.
func (h *SQLiteHistory) Reset(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM elo_history`); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}

func (h *SQLiteHistory) AppendSeason(ctx context.Context, year int, batch []Snapshot) error {
	var n int
	err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM elo_history WHERE season_year = ?`, year).Scan(&n)
	if err != nil {
		return fmt.Errorf("check season %d: %w", year, err)
	}
	if n > 0 {
		metrics.RecordErrorByComponent("history", "season_committed")
		return ErrSeasonCommitted
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin season %d: %w", year, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO elo_history
		(entity_id, kind, season_year, qualifying, race, global,
		 qualifying_matchups, race_matchups, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare season %d: %w", year, err)
	}
	defer stmt.Close()

	for _, snap := range batch {
		_, err := stmt.ExecContext(ctx,
			snap.EntityID, string(snap.Kind), year,
			snap.Qualifying, snap.Race, snap.Global,
			snap.QualifyingMatchups, snap.RaceMatchups, h.runID)
		if err != nil {
			return fmt.Errorf("insert snapshot %s/%d: %w", snap.EntityID, year, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit season %d: %w", year, err)
	}
	metrics.RecordSnapshotsWritten(len(batch))
	return nil
}

func (h *SQLiteHistory) Lookup(ctx context.Context, entityID string, year int) (Snapshot, error) {
	snap, err := h.scanOne(ctx, `SELECT entity_id, kind, season_year, qualifying, race,
		global, qualifying_matchups, race_matchups
		FROM elo_history WHERE entity_id = ? AND season_year = ?`, entityID, year)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("lookup %s/%d: %w", entityID, year, err)
	}

	var n int
	if err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM elo_history WHERE entity_id = ?`, entityID).Scan(&n); err != nil {
		return Snapshot{}, fmt.Errorf("lookup %s: %w", entityID, err)
	}
	if n == 0 {
		return Snapshot{}, ErrUnknownEntity
	}
	return Snapshot{}, ErrNotActive
}

func (h *SQLiteHistory) Season(ctx context.Context, year int, kind model.EntityKind) ([]Snapshot, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT entity_id, kind, season_year, qualifying,
		race, global, qualifying_matchups, race_matchups
		FROM elo_history WHERE season_year = ? AND kind = ?`, year, string(kind))
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", year, err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var k string
		err := rows.Scan(&snap.EntityID, &k, &snap.SeasonYear, &snap.Qualifying,
			&snap.Race, &snap.Global, &snap.QualifyingMatchups, &snap.RaceMatchups)
		if err != nil {
			return nil, fmt.Errorf("scan season %d: %w", year, err)
		}
		snap.Kind = model.EntityKind(k)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("season %d: %w", year, err)
	}
	if out == nil {
		// Distinguish an uncommitted year from a year with no entities
		// of this kind.
		var n int
		if err := h.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM elo_history WHERE season_year = ?`, year).Scan(&n); err != nil {
			return nil, fmt.Errorf("season %d: %w", year, err)
		}
		if n == 0 {
			return nil, ErrNoSeasons
		}
		out = []Snapshot{}
	}
	return out, nil
}

func (h *SQLiteHistory) Seasons(ctx context.Context, entityID string) ([]int, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT season_year FROM elo_history WHERE entity_id = ? ORDER BY season_year`, entityID)
	if err != nil {
		return nil, fmt.Errorf("seasons %s: %w", entityID, err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan seasons %s: %w", entityID, err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("seasons %s: %w", entityID, err)
	}
	if len(years) == 0 {
		return nil, ErrUnknownEntity
	}
	return years, nil
}

func (h *SQLiteHistory) Years(ctx context.Context) ([]int, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT DISTINCT season_year FROM elo_history ORDER BY season_year`)
	if err != nil {
		return nil, fmt.Errorf("years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan years: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("years: %w", err)
	}
	return years, nil
}

func (h *SQLiteHistory) scanOne(ctx context.Context, query string, args ...any) (Snapshot, error) {
	var snap Snapshot
	var k string
	err := h.db.QueryRowContext(ctx, query, args...).Scan(
		&snap.EntityID, &k, &snap.SeasonYear, &snap.Qualifying, &snap.Race,
		&snap.Global, &snap.QualifyingMatchups, &snap.RaceMatchups)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Kind = model.EntityKind(k)
	return snap, nil
}

func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}

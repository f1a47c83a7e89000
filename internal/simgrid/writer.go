package simgrid

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE Team (
	team_id INTEGER PRIMARY KEY,
	team_name TEXT NOT NULL UNIQUE,
	base_country TEXT NOT NULL
);
CREATE TABLE Driver (
	driver_id INTEGER PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	nationality TEXT NOT NULL,
	debut_year INTEGER,
	current_team_id INTEGER
);
CREATE TABLE Race (
	race_id INTEGER PRIMARY KEY,
	season_year INTEGER NOT NULL,
	round_number INTEGER NOT NULL,
	race_name TEXT NOT NULL,
	race_date DATE NOT NULL
);
CREATE TABLE Result (
	result_id INTEGER PRIMARY KEY,
	race_id INTEGER NOT NULL,
	driver_id INTEGER NOT NULL,
	team_id INTEGER NOT NULL,
	grid_position INTEGER,
	position INTEGER,
	status TEXT
);
CREATE TABLE Additional_Results (
	additional_result_id INTEGER PRIMARY KEY AUTOINCREMENT,
	race_id INTEGER NOT NULL,
	driver_id INTEGER NOT NULL,
	team_id INTEGER NOT NULL,
	grid_position INTEGER,
	position INTEGER,
	status TEXT
);`

// Write materializes the grid as an import database at path. The path
// must not point at an existing database.
func Write(ctx context.Context, path string, g *Grid) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertAll(ctx, tx, g); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAll(ctx context.Context, tx *sql.Tx, g *Grid) error {
	for _, t := range g.Teams {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO Team (team_id, team_name, base_country) VALUES (?, ?, ?)`,
			t.ID, t.Name, t.Country); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
	}
	for _, d := range g.Drivers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO Driver (driver_id, first_name, last_name, nationality, debut_year, current_team_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, d.FirstName, d.LastName, d.Nationality, d.DebutYear, d.TeamID); err != nil {
			return fmt.Errorf("insert driver %d: %w", d.ID, err)
		}
	}
	for _, r := range g.Races {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO Race (race_id, season_year, round_number, race_name, race_date)
			 VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Season, r.Round, r.Name, r.Date); err != nil {
			return fmt.Errorf("insert race %d: %w", r.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO Result (race_id, driver_id, team_id, grid_position, position, status)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range g.Results {
		var position any
		if r.Position > 0 {
			position = r.Position
		}
		if _, err := stmt.ExecContext(ctx, r.RaceID, r.DriverID, r.TeamID, r.Grid, position, r.Status); err != nil {
			return fmt.Errorf("insert result race %d driver %d: %w", r.RaceID, r.DriverID, err)
		}
	}
	return nil
}

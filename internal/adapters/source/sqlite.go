package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	model "github.com/okian/gridelo/internal/domain/model"
)

// Entity id prefixes keep driver and team id spaces disjoint even
// though the underlying tables both number from 1.
const (
	driverIDPrefix = "driver-"
	teamIDPrefix   = "team-"
)

// DriverID builds the entity id for a numeric driver key.
func DriverID(n int64) string { return driverIDPrefix + strconv.FormatInt(n, 10) }

// TeamID builds the entity id for a numeric team key.
func TeamID(n int64) string { return teamIDPrefix + strconv.FormatInt(n, 10) }

// SQLiteSource reads the imported history database. The schema is the
// importer's: Driver, Team, Race and Result tables, with alternative
// entries in Additional_Results.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the history database at path read-only.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open source db: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Entities(ctx context.Context) ([]model.Entity, error) {
	drivers, err := s.drivers(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.teams(ctx)
	if err != nil {
		return nil, err
	}
	return append(drivers, teams...), nil
}

func (s *SQLiteSource) drivers(ctx context.Context) ([]model.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT d.driver_id,
		d.first_name || ' ' || d.last_name,
		d.nationality,
		COALESCE(d.debut_year, (
			SELECT MIN(r.season_year) FROM Result res
			JOIN Race r ON r.race_id = res.race_id
			WHERE res.driver_id = d.driver_id), 0),
		COALESCE(d.current_team_id, 0)
		FROM Driver d ORDER BY d.driver_id`)
	if err != nil {
		return nil, fmt.Errorf("read drivers: %w", err)
	}
	defer rows.Close()

	var out []model.Entity
	for rows.Next() {
		var id, teamID int64
		var name, nationality string
		var debut int
		if err := rows.Scan(&id, &name, &nationality, &debut, &teamID); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		e := model.Entity{
			ID:          DriverID(id),
			Kind:        model.KindDriver,
			Name:        name,
			Nationality: nationality,
			DebutYear:   debut,
		}
		if teamID != 0 {
			e.CurrentTeam = TeamID(teamID)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) teams(ctx context.Context) ([]model.Entity, error) {
	// A team's debut year is its first season with a recorded result.
	rows, err := s.db.QueryContext(ctx, `SELECT t.team_id, t.team_name, t.base_country,
		COALESCE((
			SELECT MIN(r.season_year) FROM Result res
			JOIN Race r ON r.race_id = res.race_id
			WHERE res.team_id = t.team_id), 0)
		FROM Team t ORDER BY t.team_id`)
	if err != nil {
		return nil, fmt.Errorf("read teams: %w", err)
	}
	defer rows.Close()

	var out []model.Entity
	for rows.Next() {
		var id int64
		var name, country string
		var debut int
		if err := rows.Scan(&id, &name, &country, &debut); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		out = append(out, model.Entity{
			ID:          TeamID(id),
			Kind:        model.KindTeam,
			Name:        name,
			Nationality: country,
			DebutYear:   debut,
		})
	}
	return out, rows.Err()
}

func (s *SQLiteSource) Events(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT race_id, season_year, round_number,
		race_name, race_date FROM Race ORDER BY season_year, round_number`)
	if err != nil {
		return nil, fmt.Errorf("read races: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	seen := make(map[[2]int]string)
	for rows.Next() {
		var id int64
		var season, round int
		var name string
		var date sql.NullTime
		if err := rows.Scan(&id, &season, &round, &name, &date); err != nil {
			return nil, fmt.Errorf("scan race: %w", err)
		}
		key := [2]int{season, round}
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: season %d round %d claimed by %q and %q",
				ErrDuplicateRound, season, round, prev, name)
		}
		seen[key] = name

		ev := model.Event{
			ID:     strconv.FormatInt(id, 10),
			Season: season,
			Round:  round,
			Name:   name,
		}
		if date.Valid {
			ev.Date = date.Time
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) Results(ctx context.Context, eventID string) ([]model.SessionResult, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM Race WHERE race_id = ?`, eventID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check race %s: %w", eventID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}

	main, err := s.resultRows(ctx, eventID, `SELECT driver_id, team_id, grid_position,
		position, COALESCE(status, '') FROM Result
		WHERE race_id = ? ORDER BY team_id, driver_id`, true)
	if err != nil {
		return nil, err
	}
	extra, err := s.resultRows(ctx, eventID, `SELECT driver_id, team_id, grid_position,
		position, COALESCE(status, '') FROM Additional_Results
		WHERE race_id = ? ORDER BY team_id, driver_id`, false)
	if err != nil {
		return nil, err
	}
	return append(main, extra...), nil
}

// resultRows expands each stored row into its qualifying and race
// session results. The qualifying position is the grid slot.
func (s *SQLiteSource) resultRows(ctx context.Context, eventID, query string, primary bool) ([]model.SessionResult, error) {
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("read results %s: %w", eventID, err)
	}
	defer rows.Close()

	var out []model.SessionResult
	for rows.Next() {
		var driverID, teamID int64
		var grid, position sql.NullInt64
		var status string
		if err := rows.Scan(&driverID, &teamID, &grid, &position, &status); err != nil {
			return nil, fmt.Errorf("scan result %s: %w", eventID, err)
		}

		base := model.SessionResult{
			EntityID:    DriverID(driverID),
			EventID:     eventID,
			Affiliation: TeamID(teamID),
			Primary:     primary,
			Status:      status,
		}

		quali := base
		quali.Session = model.SessionQualifying
		if grid.Valid && grid.Int64 > 0 {
			p := int(grid.Int64)
			quali.Position = &p
		}
		out = append(out, quali)

		race := base
		race.Session = model.SessionRace
		if position.Valid && position.Int64 > 0 {
			p := int(position.Int64)
			race.Position = &p
		}
		out = append(out, race)
	}
	return out, rows.Err()
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

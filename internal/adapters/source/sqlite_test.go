package source_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	source "github.com/okian/gridelo/internal/adapters/source"
	model "github.com/okian/gridelo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const importSchema = `
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

func seedImportDB(t *testing.T) string {
	t.Helper()
	path := t.TempDir() + "/f1.db"
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		importSchema,
		`INSERT INTO Team VALUES (1, 'Lotus', 'United Kingdom'), (2, 'BRM', 'United Kingdom')`,
		`INSERT INTO Driver VALUES
			(1, 'Jim', 'Clark', 'British', 1960, 1),
			(2, 'Trevor', 'Taylor', 'British', NULL, 1),
			(3, 'Graham', 'Hill', 'British', 1958, 2)`,
		`INSERT INTO Race VALUES
			(1, 1963, 1, 'Monaco Grand Prix', '1963-05-26'),
			(2, 1963, 2, 'Belgian Grand Prix', '1963-06-09')`,
		`INSERT INTO Result VALUES
			(1, 1, 1, 1, 1, NULL, 'Gearbox'),
			(2, 1, 2, 1, 8, 6, 'Finished'),
			(3, 1, 3, 2, 2, 1, 'Finished')`,
		`INSERT INTO Additional_Results (race_id, driver_id, team_id, grid_position, position, status)
			VALUES (1, 3, 2, NULL, NULL, 'Shared drive')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestSQLiteSource(t *testing.T) {
	Convey("Given an imported history database", t, func() {
		ctx := context.Background()
		src, err := source.NewSQLiteSource(seedImportDB(t))
		So(err, ShouldBeNil)
		defer src.Close()

		Convey("When reading entities", func() {
			entities, err := src.Entities(ctx)
			So(err, ShouldBeNil)

			byID := make(map[string]model.Entity, len(entities))
			for _, e := range entities {
				byID[e.ID] = e
			}

			Convey("Then drivers and teams are both present", func() {
				So(len(entities), ShouldEqual, 5)
				So(byID["driver-1"].Kind, ShouldEqual, model.KindDriver)
				So(byID["team-1"].Kind, ShouldEqual, model.KindTeam)
			})

			Convey("Then driver fields map from the import schema", func() {
				clark := byID["driver-1"]
				So(clark.Name, ShouldEqual, "Jim Clark")
				So(clark.DebutYear, ShouldEqual, 1960)
				So(clark.CurrentTeam, ShouldEqual, "team-1")
			})

			Convey("Then a missing debut year falls back to the first recorded season", func() {
				So(byID["driver-2"].DebutYear, ShouldEqual, 1963)
			})

			Convey("Then a team's debut year is its first season with a result", func() {
				So(byID["team-2"].DebutYear, ShouldEqual, 1963)
			})
		})

		Convey("When reading the calendar", func() {
			events, err := src.Events(ctx)
			So(err, ShouldBeNil)

			Convey("Then events carry season, round and date", func() {
				So(len(events), ShouldEqual, 2)
				So(events[0].Season, ShouldEqual, 1963)
				So(events[0].Round, ShouldEqual, 1)
				So(events[0].Date.Year(), ShouldEqual, 1963)
				So(events[0].Date.Month(), ShouldEqual, time.May)
				So(events[0].Date.Day(), ShouldEqual, 26)
				So(events[0].Before(events[1]), ShouldBeTrue)
			})
		})

		Convey("When reading one event's results", func() {
			rows, err := src.Results(ctx, "1")
			So(err, ShouldBeNil)

			Convey("Then each stored row expands into both sessions", func() {
				// 3 lineup rows and 1 alternative entry, two sessions each.
				So(len(rows), ShouldEqual, 8)
			})

			Convey("Then qualifying takes the grid slot and race the finish", func() {
				var quali, race model.SessionResult
				for _, r := range rows {
					if r.EntityID == "driver-1" && r.Session == model.SessionQualifying {
						quali = r
					}
					if r.EntityID == "driver-1" && r.Session == model.SessionRace {
						race = r
					}
				}
				So(quali.Pos(), ShouldEqual, 1)
				So(quali.Classified(), ShouldBeTrue)
				So(race.Classified(), ShouldBeFalse)
				So(race.Status, ShouldEqual, "Gearbox")
			})

			Convey("Then lineup rows are primary and alternatives are not", func() {
				primaries := 0
				for _, r := range rows {
					if r.Primary {
						primaries++
					}
				}
				So(primaries, ShouldEqual, 6)
			})
		})

		Convey("When asking for an event the source does not carry", func() {
			_, err := src.Results(ctx, "42")
			So(err, ShouldWrap, source.ErrUnknownEvent)
		})
	})
}

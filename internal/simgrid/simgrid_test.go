package simgrid_test

import (
	"context"
	"testing"

	"github.com/okian/gridelo/internal/adapters/source"
	"github.com/okian/gridelo/internal/simgrid"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generator configuration", t, func() {
		cfg := simgrid.DefaultConfig()
		cfg.Seasons = 2
		cfg.Teams = 4
		cfg.Rounds = 3

		Convey("When a grid is generated", func() {
			g := simgrid.Generate(cfg)

			Convey("Then it has the requested shape", func() {
				So(g.Teams, ShouldHaveLength, 4)
				So(g.Races, ShouldHaveLength, 6)
				So(len(g.Drivers), ShouldBeGreaterThanOrEqualTo, 8)
				So(g.Results, ShouldHaveLength, 6*8)
			})

			Convey("Then every race fields a full shuffled grid", func() {
				grids := make(map[int]map[int]bool)
				for _, r := range g.Results {
					if grids[r.RaceID] == nil {
						grids[r.RaceID] = make(map[int]bool)
					}
					So(grids[r.RaceID][r.Grid], ShouldBeFalse)
					grids[r.RaceID][r.Grid] = true
					So(r.Grid, ShouldBeBetweenOrEqual, 1, 8)
				}
			})

			Convey("Then rookies debut in the season they appear", func() {
				for _, d := range g.Drivers[8:] {
					So(d.DebutYear, ShouldBeGreaterThan, cfg.FirstSeason)
				}
			})
		})

		Convey("When the same seed is generated twice", func() {
			a := simgrid.Generate(cfg)
			b := simgrid.Generate(cfg)

			Convey("Then the grids are identical", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When different seeds are generated", func() {
			a := simgrid.Generate(cfg)
			other := cfg
			other.Seed = 99
			b := simgrid.Generate(other)

			Convey("Then the results differ", func() {
				So(a.Results, ShouldNotResemble, b.Results)
			})
		})
	})
}

func TestWrite(t *testing.T) {
	Convey("Given a generated grid", t, func() {
		ctx := context.Background()
		cfg := simgrid.DefaultConfig()
		cfg.Seasons = 1
		cfg.Teams = 3
		cfg.Rounds = 2
		g := simgrid.Generate(cfg)

		Convey("When written to a database", func() {
			path := t.TempDir() + "/grid.db"
			So(simgrid.Write(ctx, path, g), ShouldBeNil)

			Convey("Then the replay source can read it back", func() {
				src, err := source.NewSQLiteSource(path)
				So(err, ShouldBeNil)
				defer func() { _ = src.Close() }()

				entities, err := src.Entities(ctx)
				So(err, ShouldBeNil)
				So(entities, ShouldHaveLength, 3+6)

				events, err := src.Events(ctx)
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)

				results, err := src.Results(ctx, events[0].ID)
				So(err, ShouldBeNil)
				// One qualifying and one race entry per car.
				So(results, ShouldHaveLength, 12)
			})
		})
	})
}

package main

import (
	"context"
	"os"
	"testing"

	"github.com/okian/gridelo/internal/adapters/repository"
	"github.com/okian/gridelo/internal/adapters/source"
	app "github.com/okian/gridelo/internal/app"
	"github.com/okian/gridelo/internal/config"
	"github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("GRIDELO_DATABASE_PATH", "races.db")
			_ = os.Setenv("GRIDELO_K_FACTOR", "24")
			_ = os.Setenv("GRIDELO_TOP_N", "10")
			defer func() {
				_ = os.Unsetenv("GRIDELO_DATABASE_PATH")
				_ = os.Unsetenv("GRIDELO_K_FACTOR")
				_ = os.Unsetenv("GRIDELO_TOP_N")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DatabasePath, convey.ShouldEqual, "races.db")
				convey.So(cfg.KFactor, convey.ShouldEqual, 24)
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When testing history selection", func() {
			ctx := context.Background()

			convey.Convey("Then an empty path yields an in-memory store", func() {
				cfg := config.New()
				cfg.HistoryPath = ""
				history, err := openHistory(ctx, cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(history, convey.ShouldHaveSameTypeAs, repository.NewMemoryHistory())
			})

			convey.Convey("And a path yields a database-backed store", func() {
				cfg := config.New()
				cfg.HistoryPath = t.TempDir() + "/history.db"
				history, err := openHistory(ctx, cfg)
				convey.So(err, convey.ShouldBeNil)
				defer func() { _ = history.Close() }()
				convey.So(history, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainReporting(t *testing.T) {
	convey.Convey("Given a replayed service", t, func() {
		ctx := context.Background()
		one, two := 1, 2
		entities := []model.Entity{
			{ID: "driver-1", Kind: model.KindDriver, Name: "Jim Clark", DebutYear: 1960},
			{ID: "driver-2", Kind: model.KindDriver, Name: "Trevor Taylor", DebutYear: 1961},
			{ID: "team-1", Kind: model.KindTeam, Name: "Lotus", DebutYear: 1958},
		}
		events := []model.Event{{ID: "1", Season: 1963, Round: 1, Name: "Monaco Grand Prix"}}
		results := []model.SessionResult{
			{EntityID: "driver-1", EventID: "1", Affiliation: "team-1", Session: model.SessionRace, Position: &one, Primary: true},
			{EntityID: "driver-2", EventID: "1", Affiliation: "team-1", Session: model.SessionRace, Position: &two, Primary: true},
		}
		svc := app.New(app.WithSource(source.NewMemorySource(entities, events, results)))
		convey.So(svc.Replay(ctx), convey.ShouldBeNil)

		convey.Convey("Then ranking tables render without error", func() {
			convey.So(printRankings(ctx, svc, model.KindDriver, "Drivers", 10), convey.ShouldBeNil)
			convey.So(printEraAdjusted(ctx, svc, 10), convey.ShouldBeNil)
		})
	})
}

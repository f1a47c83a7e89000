package service_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/gridelo/internal/adapters/repository"
	"github.com/okian/gridelo/internal/adapters/source"
	service "github.com/okian/gridelo/internal/app"
	"github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/internal/domain/rating"
	"github.com/okian/gridelo/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestServiceConfiguration(t *testing.T) {
	Convey("Given service construction options", t, func() {
		Convey("When built with defaults", func() {
			svc := service.New()

			Convey("Then the engine carries the standard parameters", func() {
				So(svc.Engine().KFactor(), ShouldEqual, rating.DefaultKFactor)
				So(svc.Engine().Baseline(), ShouldEqual, rating.DefaultBaseline)
			})
		})

		Convey("When engine options are forwarded", func() {
			svc := service.New(service.WithEngineOptions(
				rating.WithKFactor(24),
				rating.WithBaseline(1000),
			))

			Convey("Then the engine reflects them", func() {
				So(svc.Engine().KFactor(), ShouldEqual, 24)
				So(svc.Engine().Baseline(), ShouldEqual, 1000)
			})
		})
	})
}

func TestServiceErrors(t *testing.T) {
	Convey("Given a service with no source", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then Replay refuses to run", func() {
			So(svc.Replay(ctx), ShouldEqual, service.ErrMissingSource)
		})

		Convey("Then queries demand a completed replay", func() {
			_, err := svc.CurrentRating(ctx, "driver-1")
			So(err, ShouldEqual, service.ErrReplayRequired)

			_, err = svc.SeasonSnapshot(ctx, "driver-1", 1963)
			So(err, ShouldEqual, service.ErrReplayRequired)

			_, err = svc.SeasonRankings(ctx, 1963, repository.DimensionGlobal, model.KindDriver)
			So(err, ShouldEqual, service.ErrReplayRequired)

			_, err = svc.TopCurrent(ctx, model.KindDriver, 10)
			So(err, ShouldEqual, service.ErrReplayRequired)
		})
	})

	Convey("Given a source with a result for an unknown driver", t, func() {
		ctx := context.Background()
		entities := []model.Entity{
			{ID: "team-1", Kind: model.KindTeam, Name: "Lotus"},
		}
		events := []model.Event{{ID: "1", Season: 1963, Round: 1}}
		pos := 1
		results := []model.SessionResult{{
			EntityID: "driver-99", EventID: "1", Affiliation: "team-1",
			Session: model.SessionRace, Position: &pos, Primary: true,
		}}
		svc := service.New(service.WithSource(source.NewMemorySource(entities, events, results)))

		Convey("Then the whole run fails", func() {
			err := svc.Replay(ctx)
			So(err, ShouldWrap, service.ErrUnknownEntityRef)
		})
	})

	Convey("Given a source with an unknown affiliation", t, func() {
		ctx := context.Background()
		entities := []model.Entity{
			{ID: "driver-1", Kind: model.KindDriver, Name: "Jim Clark"},
		}
		events := []model.Event{{ID: "1", Season: 1963, Round: 1}}
		pos := 1
		results := []model.SessionResult{{
			EntityID: "driver-1", EventID: "1", Affiliation: "team-77",
			Session: model.SessionRace, Position: &pos, Primary: true,
		}}
		svc := service.New(service.WithSource(source.NewMemorySource(entities, events, results)))

		Convey("Then the whole run fails", func() {
			So(svc.Replay(ctx), ShouldWrap, service.ErrUnknownEntityRef)
		})
	})

	Convey("Given a calendar with duplicate rounds", t, func() {
		ctx := context.Background()
		events := []model.Event{
			{ID: "1", Season: 1963, Round: 1, Name: "Monaco"},
			{ID: "2", Season: 1963, Round: 1, Name: "Spa"},
		}
		svc := service.New(service.WithSource(source.NewMemorySource(nil, events, nil)))

		Convey("Then chronology cannot be resolved and the run fails", func() {
			So(svc.Replay(ctx), ShouldWrap, source.ErrDuplicateRound)
		})
	})
}

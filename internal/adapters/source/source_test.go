package source_test

import (
	"context"
	"testing"
	"time"

	source "github.com/okian/gridelo/internal/adapters/source"
	model "github.com/okian/gridelo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntityIDs(t *testing.T) {
	Convey("Given numeric driver and team keys", t, func() {
		Convey("Then the id spaces stay disjoint", func() {
			So(source.DriverID(5), ShouldEqual, "driver-5")
			So(source.TeamID(5), ShouldEqual, "team-5")
			So(source.DriverID(5), ShouldNotEqual, source.TeamID(5))
		})
	})
}

func TestMemorySource(t *testing.T) {
	Convey("Given a memory source with a small calendar", t, func() {
		ctx := context.Background()
		entities := []model.Entity{
			{ID: "driver-1", Kind: model.KindDriver, Name: "Jim Clark", DebutYear: 1960},
			{ID: "team-1", Kind: model.KindTeam, Name: "Lotus", DebutYear: 1958},
		}
		events := []model.Event{
			{ID: "1", Season: 1963, Round: 1, Name: "Monaco Grand Prix", Date: time.Date(1963, 5, 26, 0, 0, 0, 0, time.UTC)},
			{ID: "2", Season: 1963, Round: 2, Name: "Belgian Grand Prix"},
		}
		pos := 1
		results := []model.SessionResult{
			{EntityID: "driver-1", EventID: "1", Affiliation: "team-1", Session: model.SessionRace, Position: &pos, Primary: true},
		}
		src := source.NewMemorySource(entities, events, results)

		Convey("Then entities and events come back as given", func() {
			got, err := src.Entities(ctx)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2)

			evs, err := src.Events(ctx)
			So(err, ShouldBeNil)
			So(len(evs), ShouldEqual, 2)
		})

		Convey("Then results are grouped by event", func() {
			rows, err := src.Results(ctx, "1")
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].EntityID, ShouldEqual, "driver-1")
		})

		Convey("Then an event with no results yields an empty set", func() {
			rows, err := src.Results(ctx, "2")
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})

		Convey("Then an unknown event id is an error", func() {
			_, err := src.Results(ctx, "99")
			So(err, ShouldWrap, source.ErrUnknownEvent)
		})
	})

	Convey("Given a calendar with a duplicated round", t, func() {
		events := []model.Event{
			{ID: "1", Season: 1963, Round: 1, Name: "Monaco Grand Prix"},
			{ID: "2", Season: 1963, Round: 1, Name: "Belgian Grand Prix"},
		}
		src := source.NewMemorySource(nil, events, nil)

		Convey("Then Events fails with the duplicate round error", func() {
			_, err := src.Events(context.Background())
			So(err, ShouldWrap, source.ErrDuplicateRound)
		})
	})
}

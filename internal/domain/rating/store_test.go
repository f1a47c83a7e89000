package rating_test

import (
	"testing"

	rating "github.com/okian/gridelo/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given a store with a few entities", t, func() {
		store := rating.NewStore(1500, rating.Weights{Qualifying: 0.3, Race: 0.7})
		store.Ensure("senna")
		store.Ensure("prost")
		store.Ensure("berger")

		Convey("Then Len reports the tracked entities", func() {
			So(store.Len(), ShouldEqual, 3)
		})

		Convey("Then IDs come back sorted", func() {
			So(store.IDs(), ShouldResemble, []string{"berger", "prost", "senna"})
		})

		Convey("When Ensure is called twice for the same id", func() {
			st := store.Ensure("senna")
			st.Race = 1600
			again := store.Ensure("senna")

			Convey("Then the existing state is returned, not reset", func() {
				So(again.Race, ShouldEqual, 1600)
				So(store.Len(), ShouldEqual, 3)
			})
		})

		Convey("When reading through Get", func() {
			copyState, ok := store.Get("prost")
			So(ok, ShouldBeTrue)
			copyState.Race = 9999

			Convey("Then mutating the copy does not touch the store", func() {
				fresh, _ := store.Get("prost")
				So(fresh.Race, ShouldEqual, 1500)
			})
		})

		Convey("When exporting", func() {
			snap := store.Export()
			snap["senna"] = rating.State{}

			Convey("Then the export is detached from the store", func() {
				st, _ := store.Get("senna")
				So(st.Qualifying, ShouldEqual, 1500)
			})
		})
	})
}

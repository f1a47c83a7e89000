package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with defaults", func() {
			m := NewManager(WithRegistry(registry))

			Convey("Then it should be fully initialized", func() {
				So(m, ShouldNotBeNil)
				So(m.namespace, ShouldEqual, "gridelo")
				So(m.subsystem, ShouldEqual, "rating")
				So(m.enabled, ShouldBeTrue)
			})

			Convey("Then its metrics are registered on that registry", func() {
				m.resultsRead.Add(3)
				m.pairsExtracted.WithLabelValues("race").Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "gridelo_rating_results_read_total")
				So(names, ShouldContain, "gridelo_rating_pairs_extracted_total")
			})
		})

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithRegistry(prometheus.NewRegistry()),
				WithNamespace("custom"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithEnabled(false),
			)

			Convey("Then options should be applied", func() {
				So(m.namespace, ShouldEqual, "custom")
				So(m.subsystem, ShouldEqual, "engine")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
				So(m.enabled, ShouldBeFalse)
			})
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording replay metrics", func() {
			So(func() {
				RecordResultsRead(40)
				RecordPairExtracted("race")
				RecordPairExtracted("qualifying")
				RecordPairSkipped("ambiguous_lineup")
				RecordNoContest()
				RecordRatingUpdate()
				RecordSnapshotsWritten(22)
				RecordSeasonCommit(3.5)
				RecordReplayDuration(1250)
				UpdateEntitiesTracked("driver", 120)
				UpdateEntitiesTracked("team", 30)
				RecordDuplicateResult()
				RecordErrorByComponent("source", "unknown_entity")
			}, ShouldNotPanic)
		})

		Convey("When reading the registry", func() {
			So(Registry(), ShouldNotBeNil)
		})
	})
}

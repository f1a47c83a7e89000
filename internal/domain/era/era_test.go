package era_test

import (
	"sort"
	"testing"

	era "github.com/okian/gridelo/internal/domain/era"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMultiplier(t *testing.T) {
	Convey("Given debut years across the sport's history", t, func() {
		cases := []struct {
			year int
			want float64
		}{
			{1950, 0.92},
			{1959, 0.92},
			{1960, 0.95},
			{1969, 0.95},
			{1970, 0.97},
			{1980, 0.99},
			{1999, 0.99},
			{2000, 1.00},
			{2024, 1.00},
		}

		Convey("Then each year maps to its era factor", func() {
			for _, c := range cases {
				So(era.Multiplier(c.year), ShouldEqual, c.want)
			}
		})
	})
}

func TestAdjust(t *testing.T) {
	Convey("Given a driver-grade normalizer", t, func() {
		z := era.NewNormalizer()

		Convey("When adjusting a well-sampled modern driver", func() {
			So(z.Adjust(1600, 2005, 120), ShouldEqual, 1600)
		})

		Convey("When adjusting a 1950s driver with a thin sample", func() {
			// 0.92 era factor and 0.95 small-sample penalty.
			So(z.Adjust(1600, 1952, 12), ShouldAlmostEqual, 1600*0.92*0.95, 1e-9)
		})

		Convey("When the sample reaches the threshold", func() {
			Convey("Then the penalty no longer applies", func() {
				So(z.Adjust(1600, 1952, 30), ShouldAlmostEqual, 1600*0.92, 1e-9)
			})
		})

		Convey("Then the raw input is never mutated in place", func() {
			raw := 1580.5
			_ = z.Adjust(raw, 1965, 40)
			So(raw, ShouldEqual, 1580.5)
		})
	})
}

func TestMonotonicWithinEra(t *testing.T) {
	Convey("Given drivers from the same era with equal sample class", t, func() {
		z := era.NewNormalizer()
		raw := []float64{1712.4, 1688.0, 1655.3, 1500.0, 1433.9}

		Convey("When their ratings are adjusted", func() {
			adjusted := make([]float64, len(raw))
			for i, r := range raw {
				adjusted[i] = z.Adjust(r, 1988, 200)
			}

			Convey("Then the ordering is preserved", func() {
				So(sort.SliceIsSorted(adjusted, func(i, j int) bool {
					return adjusted[i] > adjusted[j]
				}), ShouldBeTrue)
			})
		})
	})
}

func TestReliability(t *testing.T) {
	Convey("Given the driver reliability curve", t, func() {
		z := era.NewNormalizer()

		Convey("Then the midpoint scores 50", func() {
			So(z.Reliability(30), ShouldAlmostEqual, 50, 1e-9)
		})

		Convey("Then large samples approach 100", func() {
			So(z.Reliability(100), ShouldBeGreaterThan, 95)
		})

		Convey("Then tiny samples score low", func() {
			So(z.Reliability(10), ShouldBeLessThan, 50)
			So(z.Reliability(0), ShouldBeGreaterThan, 0)
		})

		Convey("Then the curve increases with sample size", func() {
			So(z.Reliability(50), ShouldBeGreaterThan, z.Reliability(20))
		})
	})
}

func TestTeamProfile(t *testing.T) {
	Convey("Given a team-grade normalizer", t, func() {
		z := era.NewNormalizer(era.ForTeams())

		Convey("Then the sample penalty uses the wider threshold", func() {
			So(z.Adjust(1600, 2010, 60), ShouldAlmostEqual, 1600*0.95, 1e-9)
			So(z.Adjust(1600, 2010, 100), ShouldEqual, 1600)
		})

		Convey("Then the reliability midpoint shifts to 100 matchups", func() {
			So(z.Reliability(100), ShouldAlmostEqual, 50, 1e-9)
		})
	})
}

func TestOptions(t *testing.T) {
	Convey("Given explicit normalizer options", t, func() {
		z := era.NewNormalizer(
			era.WithSampleThreshold(10),
			era.WithSamplePenalty(0.9),
			era.WithReliabilityCurve(10, 5),
		)

		Convey("Then they override the defaults", func() {
			So(z.Adjust(1000, 2010, 5), ShouldAlmostEqual, 900, 1e-9)
			So(z.Adjust(1000, 2010, 10), ShouldEqual, 1000)
			So(z.Reliability(10), ShouldAlmostEqual, 50, 1e-9)
		})

		Convey("When option values are out of range", func() {
			q := era.NewNormalizer(
				era.WithSampleThreshold(0),
				era.WithSamplePenalty(1.5),
				era.WithReliabilityCurve(10, 0),
			)

			Convey("Then defaults are kept", func() {
				So(q.Adjust(1000, 2010, 29), ShouldAlmostEqual, 950, 1e-9)
				So(q.Reliability(30), ShouldAlmostEqual, 50, 1e-9)
			})
		})
	})
}

package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/gridelo/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.KFactor, convey.ShouldEqual, 32)
			convey.So(cfg.InitialRating, convey.ShouldEqual, 1500)
			convey.So(cfg.QualifyingWeight, convey.ShouldEqual, 0.3)
			convey.So(cfg.RaceWeight, convey.ShouldEqual, 0.7)
			convey.So(cfg.ExtractionWorkers, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.TeamRatings, convey.ShouldBeTrue)
			convey.So(cfg.TopN, convey.ShouldEqual, 25)
		})
	})
}

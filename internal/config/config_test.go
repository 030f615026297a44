package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/secopvotes/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Stage, convey.ShouldEqual, config.StageAll)
			convey.So(cfg.MinContracts, convey.ShouldEqual, 2)
			convey.So(cfg.MinMatchLength, convey.ShouldEqual, 4)
			convey.So(cfg.Outputs.Procurement, convey.ShouldEndWith, "secop.csv")
			convey.So(cfg.SQLite.Path, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the control window ends at the literal 2019 cutoff", func() {
			w, err := cfg.Windows.Control.Resolve("ctrl")
			convey.So(err, convey.ShouldBeNil)
			convey.So(w.End, convey.ShouldEqual, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
			convey.So(w.Name, convey.ShouldEqual, "ctrl")
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the stage is unknown", func() {
			cfg.Stage = "scrape"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When min_contracts is zero", func() {
			cfg.MinContracts = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a window is inverted", func() {
			cfg.Windows.Main = config.Window{Start: "2024-01-01", End: "2020-01-01"}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a window date is malformed", func() {
			cfg.Windows.Corpus.Start = "2015"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "windows.corpus.start")
		})

		convey.Convey("When an output path is empty", func() {
			cfg.Outputs.Unmatched = ""
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

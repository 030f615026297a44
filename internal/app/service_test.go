package service_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	service "github.com/okian/secopvotes/internal/app"
	"github.com/okian/secopvotes/internal/config"
	"github.com/okian/secopvotes/pkg/logger"
	"github.com/okian/secopvotes/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// testConfig points every input and output into dir.
func testConfig(dir string) *config.Config {
	cfg := config.New(context.Background())
	cfg.Inputs = config.Inputs{
		SECOPI:    filepath.Join(dir, "in", "secop1_intermediate.csv"),
		SECOPII:   filepath.Join(dir, "in", "secop2_intermediate.csv"),
		Gazetteer: filepath.Join(dir, "in", "municipios_colombia.csv"),
		Electoral: filepath.Join(dir, "in", "resultados_electorales_intermediate.csv"),
	}
	cfg.Outputs = config.Outputs{
		Procurement: filepath.Join(dir, "out", "secop.csv"),
		Electoral:   filepath.Join(dir, "out", "outsiders.csv"),
		Merged:      filepath.Join(dir, "out", "final_database.csv"),
		Unmatched:   filepath.Join(dir, "out", "unmatched_cities.csv"),
	}
	return cfg
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New(config.New(context.Background()))

		Convey("Then it gets a generated run ID", func() {
			So(svc, ShouldNotBeNil)
			So(svc.RunID(), ShouldNotBeEmpty)
			So(service.New(config.New(context.Background())).RunID(), ShouldNotEqual, svc.RunID())
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(config.New(context.Background()),
			service.WithRunID("fixed"),
			service.WithLogger(logger.Get()),
			service.WithMetrics(metrics.NewManager()),
		)

		Convey("Then the options apply", func() {
			So(svc.RunID(), ShouldEqual, "fixed")
		})
	})
}

func TestService_Errors(t *testing.T) {
	Convey("Given a service over an empty directory", t, func() {
		ctx := context.Background()
		svc := service.New(testConfig(t.TempDir()), service.WithMetrics(metrics.NewManager()))

		Convey("When an unknown stage is requested", func() {
			err := svc.Run(ctx, "scrape")
			So(errors.Is(err, service.ErrUnknownStage), ShouldBeTrue)
		})

		Convey("When procurement runs without any SECOP file", func() {
			err := svc.Run(ctx, config.StageProcurement)
			So(errors.Is(err, service.ErrMissingInput), ShouldBeTrue)
		})

		Convey("When the electoral input is missing", func() {
			_, err := svc.Electoral(ctx)
			So(errors.Is(err, service.ErrMissingInput), ShouldBeTrue)
		})

		Convey("When merge runs before the other stages", func() {
			_, err := svc.Merge(ctx)
			So(errors.Is(err, service.ErrMissingInput), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			err := svc.Run(cctx, config.StageAll)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

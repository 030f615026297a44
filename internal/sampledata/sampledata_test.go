package sampledata_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/okian/secopvotes/internal/adapters/tabular"
	"github.com/okian/secopvotes/internal/domain/types"
	"github.com/okian/secopvotes/internal/sampledata"
	"github.com/okian/secopvotes/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given two generations with the same seed", t, func() {
		a, err := sampledata.Generate(sampledata.Config{Seed: 7, ContractsPerEntity: 4})
		So(err, ShouldBeNil)
		b, err := sampledata.Generate(sampledata.Config{Seed: 7, ContractsPerEntity: 4})
		So(err, ShouldBeNil)

		Convey("Then the tables are identical", func() {
			So(a.SECOPI, ShouldResemble, b.SECOPI)
			So(a.SECOPII, ShouldResemble, b.SECOPII)
			So(a.Electoral, ShouldResemble, b.Electoral)
		})

		Convey("Then both SECOP files map onto contract records", func() {
			s1, hasAwarded1, err := tabular.Contracts(a.SECOPI, types.SourceSECOPI)
			So(err, ShouldBeNil)
			So(hasAwarded1, ShouldBeFalse)
			So(len(s1), ShouldBeGreaterThan, 0)

			s2, hasAwarded2, err := tabular.Contracts(a.SECOPII, types.SourceSECOPII)
			So(err, ShouldBeNil)
			So(hasAwarded2, ShouldBeTrue)
			So(len(s2), ShouldBeGreaterThan, 0)
		})

		Convey("Then the reduced electoral table keeps two candidates per election", func() {
			So(a.Electoral.Len(), ShouldEqual, 12)
			So(a.ElectoralRaw.Len(), ShouldEqual, 6*8)
		})

		Convey("Then the gazetteer carries one ambiguous name", func() {
			entries, err := tabular.Gazetteer(a.Gazetteer)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 9)
		})
	})

	Convey("Given a zero config", t, func() {
		d, err := sampledata.Generate(sampledata.Config{})
		So(err, ShouldBeNil)
		So(d.SECOPI.Len()+d.SECOPII.Len(), ShouldBeGreaterThan, 0)
	})
}

func TestWrite(t *testing.T) {
	Convey("Given an output directory", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		dir := t.TempDir()

		files, err := sampledata.Write(context.Background(), dir, sampledata.Config{})
		So(err, ShouldBeNil)

		Convey("Then every file exists", func() {
			for _, p := range []string{files.SECOPI, files.SECOPII, files.Gazetteer, files.ElectoralRaw, files.Electoral} {
				_, err := os.Stat(p)
				So(err, ShouldBeNil)
			}
		})
	})
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/secopvotes/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := filepath.Join(t.TempDir(), "inputs")
		var stderr bytes.Buffer

		Convey("When sample data is generated twice with the same seed", func() {
			So(run(context.Background(), []string{"-out", dir, "-seed", "7"}, &stderr), ShouldEqual, 0)
			first, err := os.ReadFile(filepath.Join(dir, sampledata.SECOPIIFile))
			So(err, ShouldBeNil)
			So(run(context.Background(), []string{"-out", dir, "-seed", "7"}, &stderr), ShouldEqual, 0)
			second, err := os.ReadFile(filepath.Join(dir, sampledata.SECOPIIFile))
			So(err, ShouldBeNil)

			Convey("Then the files are identical", func() {
				So(second, ShouldResemble, first)
			})

			Convey("Then every input file exists", func() {
				for _, name := range []string{sampledata.SECOPIFile, sampledata.SECOPIIFile, sampledata.GazetteerFile,
					sampledata.ElectoralFile, sampledata.ElectoralRawFile} {
					_, err := os.Stat(filepath.Join(dir, name))
					So(err, ShouldBeNil)
				}
				So(stderr.String(), ShouldContainSubstring, "sample data ready")
			})
		})

		Convey("When a flag is malformed", func() {
			So(run(context.Background(), []string{"-seed", "abc"}, &stderr), ShouldEqual, 2)
		})
	})
}

package window_test

import (
	"testing"
	"time"

	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestWindow(t *testing.T) {
	Convey("Given the default windows", t, func() {
		Convey("Then boundaries are left-inclusive and right-exclusive", func() {
			main := window.Main()
			So(main.Contains(day(2020, 1, 1)), ShouldBeTrue)
			So(main.Contains(day(2023, 12, 31)), ShouldBeTrue)
			So(main.Contains(day(2019, 12, 31)), ShouldBeFalse)
			So(main.Contains(day(2024, 1, 1)), ShouldBeFalse)
		})

		Convey("Then the control window stops at 2019-01-01", func() {
			ctrl := window.Control()
			So(ctrl.Contains(day(2015, 1, 1)), ShouldBeTrue)
			So(ctrl.Contains(day(2018, 12, 31)), ShouldBeTrue)
			So(ctrl.Contains(day(2019, 1, 1)), ShouldBeFalse)
			So(ctrl.Contains(day(2019, 9, 30)), ShouldBeFalse)
		})

		Convey("Then labels describe whole-year spans", func() {
			So(window.Main().Label(), ShouldEqual, "2020-2023")
			So(window.Corpus().Label(), ShouldEqual, "2015-2023")
			w := window.Window{Name: "x", Start: day(2015, 1, 1), End: day(2019, 10, 1)}
			So(w.Label(), ShouldEqual, "2015-01-01..2019-10-01")
		})

		Convey("Then an inverted window fails validation", func() {
			So(window.Main().Validate(), ShouldBeNil)
			bad := window.Window{Name: "bad", Start: day(2020, 1, 1), End: day(2020, 1, 1)}
			So(bad.Validate(), ShouldNotBeNil)
		})
	})

	Convey("Given records across years", t, func() {
		records := []model.ContractRecord{
			{ProcessID: "2014", AwardDate: day(2014, 12, 31)},
			{ProcessID: "2016", AwardDate: day(2016, 6, 1)},
			{ProcessID: "2019", AwardDate: day(2019, 3, 1)},
			{ProcessID: "2021", AwardDate: day(2021, 3, 1)},
			{ProcessID: "nodate"},
		}

		Convey("When applying windows", func() {
			ids := func(rs []model.ContractRecord) []string {
				out := []string{}
				for _, r := range rs {
					out = append(out, r.ProcessID)
				}
				return out
			}

			Convey("Then each keeps only its own dates", func() {
				So(ids(window.Apply(records, window.Corpus())), ShouldResemble, []string{"2016", "2019", "2021"})
				So(ids(window.Apply(records, window.Main())), ShouldResemble, []string{"2021"})
				So(ids(window.Apply(records, window.Control())), ShouldResemble, []string{"2016"})
			})
		})
	})
}

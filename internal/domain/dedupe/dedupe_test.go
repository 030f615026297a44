package dedupe_test

import (
	"fmt"
	"testing"

	dedupe "github.com/okian/secopvotes/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeduper(t *testing.T) {
	Convey("Given a new Deduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.New()

			Convey("Then it should be empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
				So(d.Keys(), ShouldBeEmpty)
			})
		})

		Convey("When creating a deduper with a capacity hint", func() {
			d := dedupe.New(dedupe.WithCapacity(100))

			Convey("Then it should still be empty", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording keys", func() {
			d := dedupe.New()

			Convey("And the key is new", func() {
				seen := d.SeenAndRecord("k-1")

				Convey("Then it should return false and record the key", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
					So(d.Seen("k-1"), ShouldBeTrue)
				})
			})

			Convey("And the key was already seen", func() {
				d.SeenAndRecord("k-1")
				seen := d.SeenAndRecord("k-1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And several keys arrive out of order with repeats", func() {
				for _, k := range []string{"b", "a", "b", "c", "a"} {
					d.SeenAndRecord(k)
				}

				Convey("Then keys keep first-seen order", func() {
					So(d.Keys(), ShouldResemble, []string{"b", "a", "c"})
				})

				Convey("And the returned slice is a copy", func() {
					keys := d.Keys()
					keys[0] = "z"
					So(d.Keys()[0], ShouldEqual, "b")
				})
			})
		})

		Convey("When checking a key that was never recorded", func() {
			d := dedupe.New()

			Convey("Then Seen should not record it", func() {
				So(d.Seen("missing"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestCounter(t *testing.T) {
	Convey("Given a distinct-member counter", t, func() {
		c := dedupe.NewCounter[int64]()

		Convey("When adding members with duplicates across groups", func() {
			So(c.Add(900123456, "p-1"), ShouldBeTrue)
			So(c.Add(900123456, "p-1"), ShouldBeFalse)
			So(c.Add(900123456, "p-2"), ShouldBeTrue)
			So(c.Add(800, "p-1"), ShouldBeTrue)

			Convey("Then counts are distinct per group", func() {
				So(c.Count(900123456), ShouldEqual, 2)
				So(c.Count(800), ShouldEqual, 1)
				So(c.Count(1), ShouldEqual, 0)
				So(c.Groups(), ShouldResemble, []int64{900123456, 800})
				So(c.Counts(), ShouldResemble, map[int64]int{900123456: 2, 800: 1})
			})
		})

		Convey("When adding many members", func() {
			for i := 0; i < 50; i++ {
				c.Add(1, fmt.Sprintf("p-%d", i%10))
			}

			Convey("Then only distinct members count", func() {
				So(c.Count(1), ShouldEqual, 10)
			})
		})
	})
}

package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/huddleup/pickem/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given an in-memory deduper", t, func() {
		ctx := context.Background()

		Convey("When an id is submitted twice", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then the first is new and the second is a duplicate", func() {
				So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded after a downstream failure", func() {
			d := dedupe.NewInMemoryDeduper()
			So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeFalse)
			d.Unrecord(ctx, "pick-1")

			Convey("Then the same id can be retried", func() {
				So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an id that was never seen", func() {
			d := dedupe.NewInMemoryDeduper()
			d.Unrecord(ctx, "ghost")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the deduper is bounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
			So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "b"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "c"), ShouldBeFalse)

			Convey("Then the oldest id is evicted to admit the newest", func() {
				So(d.Size(), ShouldEqual, 2)
				// "a" was evicted, so it reads as new again
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
				// "c" is still retained
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
			})
		})

		Convey("When churning far past the bound", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(8))
			for i := 0; i < 1000; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("pick-%d", i)), ShouldBeFalse)
			}

			Convey("Then the retained set never exceeds the bound", func() {
				So(d.Size(), ShouldEqual, 8)
				// the most recent ids survive
				So(d.SeenAndRecord(ctx, "pick-999"), ShouldBeTrue)
			})
		})
	})
}

package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When an event is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "match-1", "ev-1")

			Convey("Then it was not seen and is now recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
				So(d.SeenAndRecord(ctx, "match-1", "ev-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same ID arrives for another match", func() {
			d.SeenAndRecord(ctx, "match-1", "ev-1")
			seen := d.SeenAndRecord(ctx, "match-2", "ev-1")

			Convey("Then the matches are kept apart", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When an event is unrecorded", func() {
			d.SeenAndRecord(ctx, "match-1", "ev-1")
			d.Unrecord(ctx, "match-1", "ev-1")
			d.Unrecord(ctx, "match-1", "missing")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "match-1", "ev-1"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"ev-1", "ev-2", "ev-3", "ev-4"} {
			So(d.SeenAndRecord(ctx, "m", id), ShouldBeFalse)
		}

		Convey("Then the oldest pair was evicted", func() {
			So(d.Size(), ShouldEqual, 3)
			So(d.SeenAndRecord(ctx, "m", "ev-4"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "m", "ev-3"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "m", "ev-1"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 3)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("Then nothing is evicted", func() {
			for i := 0; i < 1000; i++ {
				So(d.SeenAndRecord(ctx, "m", fmt.Sprintf("ev-%d", i)), ShouldBeFalse)
			}
			So(d.Size(), ShouldEqual, int64(1000))
			So(d.SeenAndRecord(ctx, "m", "ev-0"), ShouldBeTrue)
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper shared by concurrent importers", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		const workers = 8
		const perWorker = 100

		Convey("When every worker sends the same batch", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < perWorker; j++ {
						if !d.SeenAndRecord(context.Background(), "m", fmt.Sprintf("ev-%d", j)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each event is accepted exactly once", func() {
				So(fresh, ShouldEqual, perWorker)
				So(d.Size(), ShouldEqual, int64(perWorker))
			})
		})
	})
}

package worker_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/huddleup/pickem/internal/adapters/mq/queue"
	"github.com/huddleup/pickem/internal/adapters/mq/worker"
	"github.com/huddleup/pickem/internal/adapters/repository"
	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func submission(id string) model.PickRecord {
	return model.PickRecord{
		PickID:  id,
		UserID:  "alice",
		EventID: "e1",
		Side:    model.SideHome,
	}
}

// waitForCount polls the store until it holds want picks or the deadline
// passes.
func waitForCount(ctx context.Context, store *repository.MemStore, want int) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if store.Count(ctx) >= want {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestPool(t *testing.T) {
	Convey("Given a worker pool draining a queue into a store", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		store := repository.NewMemStore(ctx)

		Convey("When submissions are enqueued", func() {
			pool := worker.NewPool(4, q, store)
			pool.Start(ctx)
			defer pool.Stop()

			for i := 0; i < 10; i++ {
				So(q.Enqueue(ctx, submission(fmt.Sprintf("p%d", i))), ShouldBeTrue)
			}

			Convey("Then every submission lands in the store", func() {
				So(waitForCount(ctx, store, 10), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 10)
			})
		})

		Convey("When the same pick id is enqueued twice", func() {
			pool := worker.NewPool(2, q, store)
			pool.Start(ctx)
			defer pool.Stop()

			So(q.Enqueue(ctx, submission("dup")), ShouldBeTrue)
			So(q.Enqueue(ctx, submission("dup")), ShouldBeTrue)
			So(q.Enqueue(ctx, submission("other")), ShouldBeTrue)

			Convey("Then the duplicate is swallowed without error", func() {
				So(waitForCount(ctx, store, 2), ShouldBeTrue)
				// settle, then confirm the duplicate never doubled up
				time.Sleep(50 * time.Millisecond)
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the pool is created with a non-positive count", func() {
			pool := worker.NewPool(0, q, store)

			Convey("Then it falls back to a CPU-based default and still works", func() {
				pool.Start(ctx)
				defer pool.Stop()

				So(q.Enqueue(ctx, submission("p1")), ShouldBeTrue)
				So(waitForCount(ctx, store, 1), ShouldBeTrue)
			})
		})
	})
}

func TestWorker_Shutdown(t *testing.T) {
	Convey("Given a single running worker", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		store := repository.NewMemStore(ctx)
		w := worker.NewWorker(q, store, worker.WithName("test-worker"))
		go w.Run(ctx)

		Convey("When it is shut down", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			Convey("Then shutdown completes before the deadline", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

// Package worker drains the submission queue into the pick store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/huddleup/pickem/internal/adapters/repository"
	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/pkg/logger"
	"github.com/huddleup/pickem/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Recorder persists a pick submission.
type Recorder interface {
	RecordPick(ctx context.Context, pick model.PickRecord) error
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.PickRecord
}

// Worker consumes submissions and writes them to the store.
type Worker struct {
	queue    Queue
	recorder Recorder
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, recorder Recorder, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Get().Named(w.name)
	return w
}

// Run consumes submissions until the queue closes or ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	subs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case sub, ok := <-subs:
			if !ok {
				return
			}
			if err := w.process(ctx, sub); err != nil {
				w.logger.Error(ctx, "error recording pick", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight submission.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process records a single submission.
func (w *Worker) process(ctx context.Context, sub model.PickRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordIngestLatency(float64(time.Since(start).Milliseconds()))
	}()

	err := w.recorder.RecordPick(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePick) {
			// Already stored; the dedupe cache evicted this id earlier.
			w.logger.Debug(ctx, "pick already recorded", logger.String("pickID", sub.PickID))
			return nil
		}
		metrics.RecordWorkerError()
		return fmt.Errorf("record pick %s: %w", sub.PickID, err)
	}

	metrics.RecordPickIngested()
	return nil
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A non-positive count
// defaults to a multiple of the CPU count.
func NewPool(workerCount int, queue Queue, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(queue, recorder, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits briefly for each to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

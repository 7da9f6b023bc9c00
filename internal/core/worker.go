package core

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
	"github.com/joseph-ayodele/scan2pdf/internal/entity"
)

// Worker runs one batch at a time on a background goroutine. While a batch is
// in flight the goroutine owns its items; callers only see immutable events.
type Worker struct {
	runner *Runner
	logger *slog.Logger
	buffer int

	mu   sync.Mutex
	busy bool
	wg   sync.WaitGroup
}

type WorkerOption func(*Worker)

// WithEventBuffer sizes the event channel returned by Start.
func WithEventBuffer(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.buffer = n
		}
	}
}

func NewWorker(runner *Runner, logger *slog.Logger, opts ...WorkerOption) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Worker{runner: runner, logger: logger, buffer: 64}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Start submits batch and returns the channel carrying its events. The channel
// is closed after the DoneEvent. Starting while another batch runs fails with
// common.ErrBatchInProgress; an empty batch fails with common.ErrEmptyBatch
// and one holding items that are not Pending with common.ErrInvalidInput.
func (w *Worker) Start(ctx context.Context, batch entity.Batch) (<-chan entity.Event, error) {
	if err := checkSubmittable(batch); err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		w.logger.Warn("rejecting batch: another batch is in progress", "items", len(batch))
		return nil, common.NewAppError(common.CodeBatchInProgress, "wait for the current batch to finish", common.ErrBatchInProgress)
	}
	w.busy = true
	w.wg.Add(1)
	w.mu.Unlock()

	events := make(chan entity.Event, w.buffer)
	owned := batch.Clone()

	go func() {
		defer w.wg.Done()
		defer close(events)
		defer w.release()

		if _, err := w.runner.Run(ctx, owned, events); err != nil {
			w.logger.Error("batch not started", "error", err)
		}
	}()
	return events, nil
}

// Busy reports whether a batch is in flight.
func (w *Worker) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Wait blocks until the in-flight batch, if any, has finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) release() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

package clickhouse

import (
	"context"
	"sync"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// FlushFunc writes one batch. It is called without holding the writer's lock.
type FlushFunc[T any] func(ctx context.Context, batch []T) error

// BatchWriterConfig configures a BatchWriter
type BatchWriterConfig[T any] struct {
	FlushFunc FlushFunc[T]
	TableName string

	// MaxBatchSize triggers a flush from Add. Default 500.
	MaxBatchSize int
	// MaxAge is the period of the background flush. Default 5s.
	MaxAge time.Duration
	// MaxPending caps rows kept after failed flushes. Default 10 batches.
	MaxPending int
	// OnDrop is told how many of the oldest rows were discarded to honor MaxPending.
	OnDrop func(rows int)
}

// BatchWriter buffers rows and writes them in batches, on size or on a timer.
// Rows of a failed flush go back to the front of the buffer and are retried
// with the next flush, until MaxPending forces the oldest out.
type BatchWriter[T any] struct {
	cfg BatchWriterConfig[T]
	log *logger.Logger

	mu      sync.Mutex
	pending []T

	// flushMu serializes flushes so retried rows keep their order
	flushMu sync.Mutex

	stop context.CancelFunc
	done chan struct{}
}

// NewBatchWriter applies defaults and returns an idle writer. Add works before Start.
func NewBatchWriter[T any](cfg BatchWriterConfig[T]) *BatchWriter[T] {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 500
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 5 * time.Second
	}
	if cfg.MaxPending < cfg.MaxBatchSize {
		cfg.MaxPending = 10 * cfg.MaxBatchSize
	}

	return &BatchWriter[T]{
		cfg:     cfg,
		pending: make([]T, 0, cfg.MaxBatchSize),
		log:     logger.Get().With("component", "batch_writer", "table", cfg.TableName),
	}
}

// Start launches the periodic flush. Calling it twice is a no-op.
func (bw *BatchWriter[T]) Start(ctx context.Context) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.stop != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	bw.stop = cancel
	bw.done = make(chan struct{})
	go bw.run(loopCtx, bw.done)

	bw.log.Infow("Batch writer started", "max_batch", bw.cfg.MaxBatchSize, "max_age", bw.cfg.MaxAge)
}

// Add buffers a row and flushes once a full batch is pending
func (bw *BatchWriter[T]) Add(ctx context.Context, item T) error {
	bw.mu.Lock()
	bw.pending = append(bw.pending, item)
	full := len(bw.pending) >= bw.cfg.MaxBatchSize
	bw.mu.Unlock()

	if !full {
		return nil
	}
	return bw.Flush(ctx)
}

// Flush writes everything pending. On failure the rows are kept for the next attempt.
func (bw *BatchWriter[T]) Flush(ctx context.Context) error {
	bw.flushMu.Lock()
	defer bw.flushMu.Unlock()

	batch := bw.take()
	if len(batch) == 0 {
		return nil
	}

	start := time.Now()
	if err := bw.cfg.FlushFunc(ctx, batch); err != nil {
		bw.requeue(batch)
		bw.log.Errorw("Batch flush failed, rows kept for retry",
			"rows", len(batch),
			"duration", time.Since(start),
			"error", err,
		)
		return err
	}

	bw.log.Debugw("Batch flushed", "rows", len(batch), "duration", time.Since(start))
	return nil
}

// Stop ends the periodic flush after a final attempt and waits for it or ctx
func (bw *BatchWriter[T]) Stop(ctx context.Context) error {
	bw.mu.Lock()
	stop, done := bw.stop, bw.done
	bw.stop, bw.done = nil, nil
	bw.mu.Unlock()

	if stop == nil {
		return nil
	}
	stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		bw.log.Warnw("Batch writer stop timed out", "pending", bw.BufferSize())
		return ctx.Err()
	}
}

// BufferSize returns the number of rows waiting to be written
func (bw *BatchWriter[T]) BufferSize() int {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return len(bw.pending)
}

func (bw *BatchWriter[T]) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(bw.cfg.MaxAge)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// The loop context is gone; the final write gets a fresh one.
			if err := bw.Flush(context.WithoutCancel(ctx)); err != nil {
				bw.log.Errorw("Final flush failed", "pending", bw.BufferSize(), "error", err)
			}
			return
		case <-ticker.C:
			if bw.BufferSize() == 0 {
				continue
			}
			if err := bw.Flush(ctx); err != nil {
				bw.log.Warnw("Periodic flush failed", "error", err)
			}
		}
	}
}

func (bw *BatchWriter[T]) take() []T {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	batch := bw.pending
	bw.pending = make([]T, 0, bw.cfg.MaxBatchSize)
	return batch
}

func (bw *BatchWriter[T]) requeue(batch []T) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	merged := append(batch, bw.pending...)
	if overflow := len(merged) - bw.cfg.MaxPending; overflow > 0 {
		merged = merged[overflow:]
		if bw.cfg.OnDrop != nil {
			bw.cfg.OnDrop(overflow)
		}
	}
	bw.pending = merged
}

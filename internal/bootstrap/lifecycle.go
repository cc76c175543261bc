package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// shutdownStep is one stage of graceful shutdown. A nil run marks a component
// that was never started; the step is logged as skipped.
type shutdownStep struct {
	name string
	run  func(ctx context.Context) error
}

// Lifecycle runs shutdown steps in order under one overall deadline
type Lifecycle struct {
	timeout time.Duration
}

// NewLifecycle creates a lifecycle with a 30s overall shutdown budget
func NewLifecycle() *Lifecycle {
	return &Lifecycle{timeout: 30 * time.Second}
}

// Shutdown stops the container. Order: HTTP intake, consumers (they flush
// buffered runs), producer, error tracker, logs, then data stores, which the
// earlier steps may still use.
func (l *Lifecycle) Shutdown(c *Container) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.run(ctx, c.Log, shutdownSteps(c)); err != nil {
		c.Log.Errorw("Shutdown finished with errors", "error", err)
		return
	}
	c.Log.Info("✅ Graceful shutdown complete")
}

func (l *Lifecycle) run(ctx context.Context, log *logger.Logger, steps []shutdownStep) error {
	errs := &errors.MultiError{}

	for i, step := range steps {
		if step.run == nil {
			log.Debugw("Shutdown step skipped", "step", step.name)
			continue
		}

		log.Infof("[%d/%d] %s...", i+1, len(steps), step.name)
		if err := step.run(ctx); err != nil {
			log.Errorw("Shutdown step failed", "step", step.name, "error", err)
			errs.Add(errors.Wrap(err, step.name))
			continue
		}
		log.Infof("✓ %s", step.name)
	}

	return errs.ToError()
}

func shutdownSteps(c *Container) []shutdownStep {
	steps := []shutdownStep{
		{name: "Stop HTTP server"},
		{name: "Wait for consumers", run: func(ctx context.Context) error {
			return waitGroup(ctx, c.WG, 15*time.Second)
		}},
		{name: "Close Kafka producer"},
		{name: "Flush error tracker"},
		{name: "Sync logs", run: func(context.Context) error {
			// stderr sync fails on some terminals; not worth reporting
			_ = logger.Sync()
			return nil
		}},
		{name: "Close data stores", run: func(context.Context) error {
			return closeStores(c)
		}},
	}

	if srv := c.Application.HTTPServer; srv != nil {
		steps[0].run = func(ctx context.Context) error {
			httpCtx, cancel := context.WithTimeout(ctx, c.Config.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(httpCtx)
		}
	}
	if p := c.Adapters.KafkaProducer; p != nil {
		steps[2].run = func(context.Context) error { return p.Close() }
	}
	if t := c.ErrorTracker; t != nil {
		steps[3].run = func(ctx context.Context) error {
			flushCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			return t.Flush(flushCtx)
		}
	}

	return steps
}

// waitGroup waits for wg, giving up after timeout or when ctx ends
func waitGroup(ctx context.Context, wg *sync.WaitGroup, timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.Wrapf(errors.ErrTimeout, "goroutines still running after %s", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func closeStores(c *Container) error {
	errs := &errors.MultiError{}
	if c.PG != nil {
		errs.Add(errors.Wrap(c.PG.Close(), "postgres"))
	}
	if c.CH != nil {
		errs.Add(errors.Wrap(c.CH.Close(), "clickhouse"))
	}
	if c.Redis != nil {
		errs.Add(errors.Wrap(c.Redis.Close(), "redis"))
	}
	return errs.ToError()
}

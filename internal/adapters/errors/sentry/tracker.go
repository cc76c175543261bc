package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

const defaultFlushTimeout = 2 * time.Second

// Options configure the Sentry client
type Options struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

// Tracker reports failed agent runs and other errors to Sentry
type Tracker struct {
	hub *sentry.Hub
}

// New initializes the Sentry SDK. A SampleRate outside (0, 1] means every event is sent.
func New(opts Options) (*Tracker, error) {
	rate := opts.SampleRate
	if rate <= 0 || rate > 1 {
		rate = 1
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		SampleRate:  rate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init sentry")
	}

	return &Tracker{hub: sentry.CurrentHub()}, nil
}

// CaptureError sends err with tags. Events tagged with an agent are grouped per
// agent so one failing backend does not swallow the others.
func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	if err == nil {
		return nil
	}

	hub := t.hub
	if ctxHub := sentry.GetHubFromContext(ctx); ctxHub != nil {
		hub = ctxHub
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		scope.SetLevel(sentry.LevelError)
		if agent, ok := tags["agent"]; ok {
			scope.SetFingerprint([]string{"{{ default }}", agent})
		}
		hub.CaptureException(err)
	})
	return nil
}

// Flush waits for pending events, bounded by ctx or two seconds
func (t *Tracker) Flush(ctx context.Context) error {
	timeout := defaultFlushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	if !t.hub.Flush(timeout) {
		return errors.Wrap(errors.ErrTimeout, "sentry flush")
	}
	return nil
}

var _ errors.Tracker = (*Tracker)(nil)

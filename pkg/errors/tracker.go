package errors

import "context"

// Tracker reports errors to an external service such as Sentry
type Tracker interface {
	// CaptureError reports err with tags scoped to this event only
	CaptureError(ctx context.Context, err error, tags map[string]string) error

	// Flush blocks until pending events are delivered or ctx expires
	Flush(ctx context.Context) error
}

// NopTracker drops every event. It stands in when tracking is disabled.
type NopTracker struct{}

func (NopTracker) CaptureError(context.Context, error, map[string]string) error { return nil }

func (NopTracker) Flush(context.Context) error { return nil }

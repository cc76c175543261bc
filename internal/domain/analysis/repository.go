package analysis

import (
	"context"
	"time"
)

// RunRepository stores run metadata for analytics
type RunRepository interface {
	// Store buffers a run record for insertion
	Store(ctx context.Context, run *Run) error

	// CountSince returns runs per agent type created after since
	CountSince(ctx context.Context, since time.Time) (map[string]uint64, error)
}

// RunPublisher emits run records to downstream consumers
type RunPublisher interface {
	PublishRun(ctx context.Context, run *Run) error
}

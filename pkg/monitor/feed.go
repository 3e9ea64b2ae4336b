package monitor

import (
	"context"

	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

// Feed supplies one live snapshot per call. Implementations may be backed
// by a real timing provider or a simulator; the monitor does not care.
// Fetch errors are transient: the monitor logs them and polls again on the
// next interval.
type Feed interface {
	Fetch(ctx context.Context) (*model.Snapshot, error)
}

// FeedFunc adapts a plain function to the Feed interface.
type FeedFunc func(ctx context.Context) (*model.Snapshot, error)

func (f FeedFunc) Fetch(ctx context.Context) (*model.Snapshot, error) {
	return f(ctx)
}

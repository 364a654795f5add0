package ports

import (
	"context"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
)

// EventDriver produces lifecycle events for an owner.
type EventDriver interface {
	// Name identifies the driver in logs.
	Name() string

	// Drive calls handle for each event until the driver is exhausted,
	// handle returns an error or ctx is canceled.
	Drive(ctx context.Context, handle func(lifecycle.Event) error) error
}

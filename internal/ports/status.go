package ports

import (
	"context"

	"github.com/bft-labs/lifebind/internal/domain"
)

// StatusRepository persists status snapshots.
// Implementations write atomically so readers never see a partial snapshot.
type StatusRepository interface {
	// Load retrieves the last saved status.
	// Returns an empty status and nil error if none exists.
	Load(ctx context.Context) (domain.Status, error)

	// Save persists status.
	Save(ctx context.Context, status domain.Status) error
}

// StatusProvider returns the current status.
type StatusProvider interface {
	Status() domain.Status
}

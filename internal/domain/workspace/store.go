package workspace

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kpihub/backend/internal/domain/dataset"
)

// DatasetFactory builds an empty dataset for a department domain. Stores
// that serialize snapshots use it to rehydrate the concrete dataset type.
type DatasetFactory func(domain string) (dataset.Tabular, error)

// Store defines the interface for workspace persistence. Implementations
// must be safe for concurrent use and must return deep-enough copies that
// one request's mutations never leak into another request's snapshot.
type Store interface {
	// Create stores a new workspace; ALREADY_EXISTS when the ID is taken
	Create(ctx context.Context, ws *Workspace) error

	// Get returns the workspace snapshot by ID; NOT_FOUND when absent.
	// Expiry is a policy decision left to the caller: Get returns expired
	// workspaces untouched.
	Get(ctx context.Context, id uuid.UUID) (*Workspace, error)

	// Save persists a mutated workspace with optimistic locking:
	// CONCURRENCY_CONFLICT when the stored version moved past the
	// snapshot the mutation was based on.
	Save(ctx context.Context, ws *Workspace) error

	// Delete removes the workspace; NOT_FOUND when absent
	Delete(ctx context.Context, id uuid.UUID) error

	// Touch extends the expiry without bumping the version
	Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error

	// ExpireBefore removes every workspace whose expiry lies before the
	// cutoff and returns how many were removed
	ExpireBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Count returns the number of stored workspaces
	Count(ctx context.Context) (int, error)
}

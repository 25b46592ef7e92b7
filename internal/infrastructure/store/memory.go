package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/kpihub/backend/internal/domain/workspace"
)

// MemoryStore keeps workspaces in a process-local map. It is the default
// store for single-instance deployments and tests. Reads and writes
// exchange deep copies, so a request can mutate its snapshot freely and
// concurrent requests never observe each other's work in progress.
type MemoryStore struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*workspace.Workspace
}

// NewMemoryStore creates an empty in-memory workspace store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workspaces: make(map[uuid.UUID]*workspace.Workspace),
	}
}

// Create stores a new workspace
func (s *MemoryStore) Create(ctx context.Context, ws *workspace.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workspaces[ws.ID]; exists {
		return errWorkspaceExists()
	}
	s.workspaces[ws.ID] = ws.Clone()
	return nil
}

// Get returns a snapshot of the workspace
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*workspace.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return nil, errWorkspaceNotFound()
	}
	return ws.Clone(), nil
}

// Save persists a mutated snapshot, rejecting stale writers by version
func (s *MemoryStore) Save(ctx context.Context, ws *workspace.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.workspaces[ws.ID]
	if !ok {
		return errWorkspaceNotFound()
	}
	if current.Version >= ws.Version {
		return errWorkspaceConflict()
	}
	s.workspaces[ws.ID] = ws.Clone()
	return nil
}

// Delete removes the workspace
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[id]; !ok {
		return errWorkspaceNotFound()
	}
	delete(s.workspaces, id)
	return nil
}

// Touch extends the expiry without bumping the version
func (s *MemoryStore) Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return errWorkspaceNotFound()
	}
	ws.ExpiresAt = expiresAt
	ws.UpdatedAt = time.Now()
	return nil
}

// ExpireBefore removes every workspace whose expiry lies before the cutoff
func (s *MemoryStore) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ws := range s.workspaces {
		if ws.ExpiresAt.Before(cutoff) {
			delete(s.workspaces, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored workspaces
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces), nil
}

func errWorkspaceNotFound() *shared.DomainError {
	return shared.NewDomainError("NOT_FOUND", "Workspace not found")
}

func errWorkspaceExists() *shared.DomainError {
	return shared.NewDomainError("ALREADY_EXISTS", "Workspace already exists")
}

func errWorkspaceConflict() *shared.DomainError {
	return shared.NewDomainError("CONCURRENCY_CONFLICT", "Workspace was modified by another request")
}

// Ensure MemoryStore implements workspace.Store
var _ workspace.Store = (*MemoryStore)(nil)

package event

import (
	"context"
	"testing"

	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

// mockHandler implements EventHandler for testing
type mockHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
}

func newMockHandler(eventTypes ...string) *mockHandler {
	return &mockHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *mockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.handled = append(h.handled, event)
	return nil
}

func (h *mockHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("WorkspaceCreated", "RowAppended")

	registry.Register(handler, "WorkspaceCreated", "RowAppended")

	handlers := registry.GetHandlers("WorkspaceCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("RowAppended")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("WorkspaceDeleted")
	assert.Len(t, handlers, 0)
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler() // No event types = wildcard

	registry.Register(handler)

	handlers := registry.GetHandlers("WorkspaceCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("DatasetImported")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])
}

func TestHandlerRegistry_Register_MixedTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	specificHandler := newMockHandler("WorkspaceCreated")
	wildcardHandler := newMockHandler()

	registry.Register(specificHandler, "WorkspaceCreated")
	registry.Register(wildcardHandler)

	handlers := registry.GetHandlers("WorkspaceCreated")
	assert.Len(t, handlers, 2)

	handlers = registry.GetHandlers("TableCleared")
	assert.Len(t, handlers, 1)
	assert.Equal(t, wildcardHandler, handlers[0])
}

func TestHandlerRegistry_Unregister_SpecificHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	handler1 := newMockHandler("WorkspaceCreated")
	handler2 := newMockHandler("WorkspaceCreated")

	registry.Register(handler1, "WorkspaceCreated")
	registry.Register(handler2, "WorkspaceCreated")

	handlers := registry.GetHandlers("WorkspaceCreated")
	assert.Len(t, handlers, 2)

	registry.Unregister(handler1)

	handlers = registry.GetHandlers("WorkspaceCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler2, handlers[0])
}

func TestHandlerRegistry_Unregister_WildcardHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcardHandler := newMockHandler()

	registry.Register(wildcardHandler)

	handlers := registry.GetHandlers("DatasetImported")
	assert.Len(t, handlers, 1)

	registry.Unregister(wildcardHandler)

	handlers = registry.GetHandlers("DatasetImported")
	assert.Len(t, handlers, 0)
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	handler1 := newMockHandler("WorkspaceCreated")
	handler2 := newMockHandler("SampleLoaded")
	wildcardHandler := newMockHandler()

	registry.Register(handler1, "WorkspaceCreated")
	registry.Register(handler2, "SampleLoaded")
	registry.Register(wildcardHandler)

	allHandlers := registry.GetAllHandlers()
	assert.Len(t, allHandlers, 3)
}

func TestHandlerRegistry_GetAllHandlers_NoDuplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("WorkspaceCreated", "RowAppended")

	// Register same handler for multiple event types
	registry.Register(handler, "WorkspaceCreated", "RowAppended")

	allHandlers := registry.GetAllHandlers()
	assert.Len(t, allHandlers, 1)
}

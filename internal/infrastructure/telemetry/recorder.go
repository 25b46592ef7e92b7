package telemetry

import (
	"context"

	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/kpihub/backend/internal/domain/workspace"
)

// EventRecorder translates workspace lifecycle events into business metrics.
// Subscribing it to the event bus keeps the application services free of
// metric calls for state changes they already announce as events.
type EventRecorder struct {
	metrics *BusinessMetrics
}

// NewEventRecorder creates an EventRecorder backed by the given metrics.
func NewEventRecorder(metrics *BusinessMetrics) *EventRecorder {
	return &EventRecorder{metrics: metrics}
}

// EventTypes returns the workspace event types the recorder consumes.
func (r *EventRecorder) EventTypes() []string {
	return []string{
		workspace.EventTypeWorkspaceCreated,
		workspace.EventTypeDatasetImported,
		workspace.EventTypeSampleLoaded,
		workspace.EventTypeRowAppended,
		workspace.EventTypeWorkspaceDeleted,
	}
}

// Handle records the metric matching the event type. Unknown events are
// ignored so new event types never break the recorder.
func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *workspace.CreatedEvent:
		r.metrics.RecordWorkspaceCreated(ctx, e.Domain)
	case *workspace.DatasetImportedEvent:
		r.metrics.RecordImport(ctx, e.Domain, e.ValidRows, e.ErrorRows)
	case *workspace.SampleLoadedEvent:
		r.metrics.RecordSampleLoaded(ctx, e.Domain)
	case *workspace.RowAppendedEvent:
		r.metrics.RecordRowAppended(ctx, e.Domain, e.Table)
	case *workspace.DeletedEvent:
		r.metrics.RecordWorkspaceDeleted(ctx, e.Domain)
	}
	return nil
}

package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/kpihub/backend/internal/domain/sales"
	"github.com/kpihub/backend/internal/domain/workspace"
	"github.com/kpihub/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func newTestRecorder(t *testing.T) *telemetry.EventRecorder {
	t.Helper()

	meter := noop.NewMeterProvider().Meter("test")
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meter,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	return telemetry.NewEventRecorder(bm)
}

func TestEventRecorder_EventTypes(t *testing.T) {
	recorder := newTestRecorder(t)

	assert.Equal(t, []string{
		workspace.EventTypeWorkspaceCreated,
		workspace.EventTypeDatasetImported,
		workspace.EventTypeSampleLoaded,
		workspace.EventTypeRowAppended,
		workspace.EventTypeWorkspaceDeleted,
	}, recorder.EventTypes())
}

func TestEventRecorder_Handle(t *testing.T) {
	recorder := newTestRecorder(t)
	ctx := context.Background()

	ws, err := workspace.New(sales.Domain, sales.NewDataset(), time.Hour)
	require.NoError(t, err)

	assert.NoError(t, recorder.Handle(ctx, workspace.NewCreatedEvent(ws, time.Hour)))
	assert.NoError(t, recorder.Handle(ctx, workspace.NewDatasetImportedEvent(ws, "sales.xlsx", 120, 2)))
	assert.NoError(t, recorder.Handle(ctx, workspace.NewSampleLoadedEvent(ws, 42)))
	assert.NoError(t, recorder.Handle(ctx, workspace.NewRowAppendedEvent(ws, sales.TableLeads)))
	assert.NoError(t, recorder.Handle(ctx, workspace.NewDeletedEvent(ws)))
}

func TestEventRecorder_Handle_IgnoresUnhandledEvents(t *testing.T) {
	recorder := newTestRecorder(t)

	ws, err := workspace.New(sales.Domain, sales.NewDataset(), time.Hour)
	require.NoError(t, err)

	// Table resets carry no counter; the recorder must still accept them
	assert.NoError(t, recorder.Handle(context.Background(), workspace.NewTablesResetEvent(ws)))
}

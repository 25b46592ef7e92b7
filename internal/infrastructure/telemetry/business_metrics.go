// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the KPI hub.
// It tracks workspace lifecycle, dataset ingestion, and metric computations.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	workspaceCreatedTotal *Counter
	workspaceDeletedTotal *Counter
	workbookImportTotal   *Counter
	importRowsTotal       *Counter
	sampleLoadedTotal     *Counter
	rowAppendedTotal      *Counter
	metricComputedTotal   *Counter

	// Distribution of computation latency
	metricDuration *Histogram

	// Gauge metrics (point-in-time values)
	workspacesActive *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	workspaceProvider WorkspaceMetricsProvider
}

// WorkspaceMetricsProvider provides session counts for periodic metrics
// collection. This interface allows the telemetry layer to observe store
// state without depending on the store contract directly.
type WorkspaceMetricsProvider interface {
	// Count returns the number of live workspace sessions
	Count(ctx context.Context) (int, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 1 minute
	WorkspaceProvider WorkspaceMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		workspaceProvider: cfg.WorkspaceProvider,
	}

	// Initialize counter metrics
	var err error

	// Workspace lifecycle metrics
	bm.workspaceCreatedTotal, err = NewCounter(
		cfg.Meter,
		"kpihub_workspace_created_total",
		"Total number of workspace sessions created",
		"{workspaces}",
	)
	if err != nil {
		return nil, err
	}

	bm.workspaceDeletedTotal, err = NewCounter(
		cfg.Meter,
		"kpihub_workspace_deleted_total",
		"Total number of workspace sessions discarded",
		"{workspaces}",
	)
	if err != nil {
		return nil, err
	}

	// Ingestion metrics
	bm.workbookImportTotal, err = NewCounter(
		cfg.Meter,
		"kpihub_workbook_import_total",
		"Total number of workbook uploads imported",
		"{imports}",
	)
	if err != nil {
		return nil, err
	}

	bm.importRowsTotal, err = NewCounter(
		cfg.Meter,
		"kpihub_import_rows_total",
		"Total number of rows processed during workbook imports",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	bm.sampleLoadedTotal, err = NewCounter(
		cfg.Meter,
		"kpihub_sample_loaded_total",
		"Total number of sample dataset loads",
		"{loads}",
	)
	if err != nil {
		return nil, err
	}

	bm.rowAppendedTotal, err = NewCounter(
		cfg.Meter,
		"kpihub_row_appended_total",
		"Total number of rows appended manually",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	// Computation metrics
	bm.metricComputedTotal, err = NewCounter(
		cfg.Meter,
		"kpihub_metric_computed_total",
		"Total number of metric computations served",
		"{computations}",
	)
	if err != nil {
		return nil, err
	}

	bm.metricDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "kpihub_metric_duration_seconds",
		Description: "Metric computation duration in seconds",
		Unit:        "s",
		Boundaries:  ComputeDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	// Session gauge metrics
	bm.workspacesActive, err = NewGauge(
		cfg.Meter,
		"kpihub_workspaces_active",
		"Current number of live workspace sessions",
		"{workspaces}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Workspace Lifecycle Metrics
// =============================================================================

// RecordWorkspaceCreated records a workspace session creation.
func (bm *BusinessMetrics) RecordWorkspaceCreated(ctx context.Context, domain string) {
	bm.workspaceCreatedTotal.Inc(ctx,
		AttrDomain.String(domain),
	)
}

// RecordWorkspaceDeleted records a workspace session removal, whether
// explicit or by the expiry janitor.
func (bm *BusinessMetrics) RecordWorkspaceDeleted(ctx context.Context, domain string) {
	bm.workspaceDeletedTotal.Inc(ctx,
		AttrDomain.String(domain),
	)
}

// =============================================================================
// Ingestion Metrics
// =============================================================================

// RecordImport records a completed workbook import along with its
// accepted and rejected row counts.
func (bm *BusinessMetrics) RecordImport(ctx context.Context, domain string, validRows, errorRows int) {
	bm.workbookImportTotal.Inc(ctx,
		AttrDomain.String(domain),
	)
	bm.importRowsTotal.Add(ctx, int64(validRows),
		AttrDomain.String(domain),
		AttrRowResult.String("valid"),
	)
	bm.importRowsTotal.Add(ctx, int64(errorRows),
		AttrDomain.String(domain),
		AttrRowResult.String("error"),
	)
}

// RecordSampleLoaded records a sample dataset load.
func (bm *BusinessMetrics) RecordSampleLoaded(ctx context.Context, domain string) {
	bm.sampleLoadedTotal.Inc(ctx,
		AttrDomain.String(domain),
	)
}

// RecordRowAppended records a manual row append to a table.
func (bm *BusinessMetrics) RecordRowAppended(ctx context.Context, domain, table string) {
	bm.rowAppendedTotal.Inc(ctx,
		AttrDomain.String(domain),
		AttrTable.String(table),
	)
}

// =============================================================================
// Computation Metrics
// =============================================================================

// RecordComputation records a served metric computation with its latency
// and whether the result came from the cache.
func (bm *BusinessMetrics) RecordComputation(ctx context.Context, domain, name string, duration time.Duration, cached bool) {
	cache := "miss"
	if cached {
		cache = "hit"
	}

	bm.metricComputedTotal.Inc(ctx,
		AttrDomain.String(domain),
		AttrMetricName.String(name),
		AttrCacheResult.String(cache),
	)
	bm.metricDuration.RecordDuration(ctx, duration,
		AttrDomain.String(domain),
		AttrMetricName.String(name),
	)
}

// =============================================================================
// Session Gauge Metrics
// =============================================================================

// RecordActiveWorkspaces records the current number of live sessions.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordActiveWorkspaces(ctx context.Context, count int64) {
	bm.workspacesActive.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It polls the workspace provider every interval (default: 1 minute).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectWorkspaceMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectWorkspaceMetrics(ctx)
		}
	}
}

// collectWorkspaceMetrics collects the live session gauge.
func (bm *BusinessMetrics) collectWorkspaceMetrics(ctx context.Context) {
	if bm.workspaceProvider == nil {
		bm.logger.Debug("No workspace provider configured, skipping session metrics collection")
		return
	}

	count, err := bm.workspaceProvider.Count(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count workspaces for metrics collection", zap.Error(err))
		return
	}

	bm.RecordActiveWorkspaces(ctx, int64(count))
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

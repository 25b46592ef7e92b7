package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kpihub/backend/internal/domain/department"
	"github.com/kpihub/backend/internal/domain/metric"
	"github.com/kpihub/backend/internal/domain/procurement"
	"github.com/kpihub/backend/internal/domain/sales"
	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/kpihub/backend/internal/domain/support"
	"github.com/kpihub/backend/internal/domain/workspace"
	"github.com/kpihub/backend/internal/infrastructure/cache"
)

// overviewMetrics names the headline KPIs of each domain dashboard, in
// display order
var overviewMetrics = map[string][]string{
	support.Domain:     {"csat", "nps", "frt", "art", "fcr", "sla-compliance"},
	procurement.Domain: {"total-spend", "on-time-delivery", "defect-rate", "budget-utilization", "contract-compliance", "supplier-concentration"},
	sales.Domain:       {"revenue-growth", "profit-margin", "win-rate", "average-deal-size", "customer-churn", "quota-attainment"},
}

// ComputationRecorder observes finished metric computations for telemetry
type ComputationRecorder interface {
	RecordComputation(ctx context.Context, domain, name string, duration time.Duration, cached bool)
}

// Service answers analytics reads over a workspace dataset: the metric
// catalog, single-metric computation, the domain overview and the
// procurement-only insight and risk reports. It never mutates workspaces.
type Service struct {
	store       workspace.Store
	departments *department.Registry
	logger      *zap.Logger
	results     *cache.MetricResultCache
	recorder    ComputationRecorder
}

// NewService creates a new analytics Service
func NewService(store workspace.Store, departments *department.Registry, logger *zap.Logger) *Service {
	return &Service{
		store:       store,
		departments: departments,
		logger:      logger,
	}
}

// SetResultCache enables caching of computed metric results
func (s *Service) SetResultCache(c *cache.MetricResultCache) {
	s.results = c
}

// SetComputationRecorder sets the telemetry sink for finished computations
func (s *Service) SetComputationRecorder(r ComputationRecorder) {
	s.recorder = r
}

// Catalog lists the metrics available to the workspace domain, grouped into
// dashboard sections in registration order
func (s *Service) Catalog(ctx context.Context, id uuid.UUID) (*CatalogResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.GetAvailable(ws.Domain)
	if err != nil {
		return nil, err
	}

	descriptors := dept.Metrics.Catalog()
	index := make(map[string]int)
	sections := make([]MetricSection, 0, 4)
	for _, d := range descriptors {
		i, ok := index[d.Section]
		if !ok {
			i = len(sections)
			index[d.Section] = i
			sections = append(sections, MetricSection{Section: d.Section})
		}
		sections[i].Metrics = append(sections[i].Metrics, d)
	}

	return &CatalogResponse{
		Domain:   ws.Domain,
		Total:    len(descriptors),
		Sections: sections,
	}, nil
}

// Compute runs one metric over the workspace dataset. The optional
// start_date/end_date parameters narrow the dataset before computation;
// results are cached per dataset version when a result cache is installed.
func (s *Service) Compute(ctx context.Context, id uuid.UUID, name string, params metric.Params) (*MetricResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.GetAvailable(ws.Domain)
	if err != nil {
		return nil, err
	}
	if !dept.Metrics.Has(name) {
		return nil, metric.ErrUnknownMetric(name)
	}

	start, end, err := dateWindow(params)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	key := cache.ResultKey(ws.ID, ws.Version, name, params)
	if s.results != nil {
		if result, ok := s.results.Get(key); ok {
			s.record(ctx, ws.Domain, name, time.Since(began), true)
			return &MetricResponse{Result: result, Version: ws.Version, Cached: true}, nil
		}
	}

	result, err := dept.Metrics.Compute(name, ws.Dataset.Between(start, end), params)
	if err != nil {
		s.logger.Error("Metric computation failed",
			zap.String("workspace_id", ws.ID.String()),
			zap.String("metric", name),
			zap.Error(err))
		return nil, err
	}
	if s.results != nil {
		s.results.Set(key, result)
	}
	s.record(ctx, ws.Domain, name, time.Since(began), false)

	return &MetricResponse{Result: result, Version: ws.Version}, nil
}

// Overview computes the headline KPIs for the workspace domain
func (s *Service) Overview(ctx context.Context, id uuid.UUID) (*OverviewResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.GetAvailable(ws.Domain)
	if err != nil {
		return nil, err
	}

	names := overviewMetrics[ws.Domain]
	kpis := make([]KPI, 0, len(names))
	for _, name := range names {
		result, err := dept.Metrics.Compute(name, ws.Dataset, nil)
		if err != nil {
			return nil, err
		}
		kpis = append(kpis, KPI{
			Name:     result.Name,
			Title:    result.Title,
			Section:  result.Section,
			Headline: result.Headline,
		})
	}

	return &OverviewResponse{
		Domain:    ws.Domain,
		Source:    ws.Source,
		Version:   ws.Version,
		TotalRows: ws.Dataset.TotalRows(),
		KPIs:      kpis,
	}, nil
}

// Insights generates the procurement narrative findings. An empty topic
// means every topic in display order; unknown topics are NOT_FOUND.
func (s *Service) Insights(ctx context.Context, id uuid.UUID, topic string) (*InsightsResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ds, ok := ws.Dataset.(*procurement.Dataset)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Insights are only available for %s workspaces", procurement.Domain))
	}

	topics := []string{topic}
	if topic == "" {
		topics = procurement.InsightTopics()
	}

	now := time.Now()
	out := make([]TopicInsights, 0, len(topics))
	for _, tp := range topics {
		insights, err := procurement.Insights(ds, tp, now)
		if err != nil {
			return nil, err
		}
		out = append(out, TopicInsights{Topic: tp, Insights: insights})
	}

	return &InsightsResponse{
		Domain:  ws.Domain,
		Version: ws.Version,
		Topics:  out,
	}, nil
}

// Risk scores the eight weighted procurement risk categories
func (s *Service) Risk(ctx context.Context, id uuid.UUID) (*RiskResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ds, ok := ws.Dataset.(*procurement.Dataset)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Risk assessment is only available for %s workspaces", procurement.Domain))
	}

	return &RiskResponse{
		Domain:     ws.Domain,
		Version:    ws.Version,
		Assessment: procurement.AssessRisk(ds, time.Now()),
	}, nil
}

// dateWindow parses the optional start_date/end_date parameters. Unlike the
// tolerant Params accessors, a malformed date here is a user error.
func dateWindow(params metric.Params) (time.Time, time.Time, error) {
	start, err := strictDate(params, "start_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := strictDate(params, "end_date")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_INPUT", "end_date must not be before start_date")
	}
	return start, end, nil
}

func strictDate(params metric.Params, key string) (time.Time, error) {
	raw, ok := params[key]
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Invalid %s %q: expected YYYY-MM-DD", key, raw))
	}
	return t, nil
}

// load fetches a workspace and enforces expiry the same way the workspace
// service does: expired sessions are removed on sight.
func (s *Service) load(ctx context.Context, id uuid.UUID) (*workspace.Workspace, error) {
	ws, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws.Expired(time.Now()) {
		_ = s.store.Delete(ctx, id)
		return nil, shared.ErrWorkspaceExpired
	}
	return ws, nil
}

func (s *Service) record(ctx context.Context, domain, name string, d time.Duration, cached bool) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordComputation(ctx, domain, name, d, cached)
}

package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kpihub/backend/internal/domain/department"
	"github.com/kpihub/backend/internal/domain/metric"
	"github.com/kpihub/backend/internal/domain/procurement"
	"github.com/kpihub/backend/internal/domain/sales"
	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/kpihub/backend/internal/domain/workspace"
	"github.com/kpihub/backend/internal/infrastructure/cache"
	"github.com/kpihub/backend/internal/infrastructure/store"
)

func newTestService(t *testing.T) (*Service, workspace.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewService(st, department.Default(), zap.NewNop()), st
}

// seedWorkspace stores a workspace for the domain, optionally preloaded with
// the deterministic sample dataset
func seedWorkspace(t *testing.T, st workspace.Store, domain string, withSample bool) uuid.UUID {
	t.Helper()
	dept, err := department.Default().GetAvailable(domain)
	require.NoError(t, err)

	ws, err := workspace.New(dept.Key, dept.NewDataset(), time.Hour)
	require.NoError(t, err)
	if withSample {
		require.NoError(t, ws.LoadSample(dept.Sample(time.Now(), 42), 42))
	}
	require.NoError(t, st.Create(context.Background(), ws))
	return ws.ID
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestServiceCatalog(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	t.Run("groups sales metrics into dashboard sections", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, false)

		catalog, err := svc.Catalog(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, sales.Domain, catalog.Domain)
		assert.Equal(t, sales.Metrics().Len(), catalog.Total)

		require.Len(t, catalog.Sections, 4)
		assert.Equal(t, "Revenue Analytics", catalog.Sections[0].Section)
		assert.Equal(t, "Pipeline & Funnel", catalog.Sections[1].Section)
		assert.Equal(t, "Customer Analytics", catalog.Sections[2].Section)
		assert.Equal(t, "Team Performance", catalog.Sections[3].Section)

		counted := 0
		for _, section := range catalog.Sections {
			assert.NotEmpty(t, section.Metrics)
			counted += len(section.Metrics)
		}
		assert.Equal(t, catalog.Total, counted)

		assert.Equal(t, "revenue-by-product", catalog.Sections[0].Metrics[0].Name)
	})

	t.Run("unknown workspace", func(t *testing.T) {
		_, err := svc.Catalog(ctx, uuid.New())
		assertDomainErrorCode(t, err, "NOT_FOUND")
	})
}

func TestServiceCompute(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	t.Run("computes a metric over the sample dataset", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, true)

		resp, err := svc.Compute(ctx, id, "win-rate", nil)
		require.NoError(t, err)

		assert.Equal(t, "win-rate", resp.Name)
		assert.Equal(t, "Pipeline & Funnel", resp.Section)
		assert.Contains(t, resp.Headline, "Win rate:")
		assert.NotEmpty(t, resp.Table.Rows)
		assert.Equal(t, 2, resp.Version)
		assert.False(t, resp.Cached)
	})

	t.Run("empty dataset yields message, not error", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, false)

		resp, err := svc.Compute(ctx, id, "win-rate", nil)
		require.NoError(t, err)
		assert.Contains(t, resp.Headline, "No data available")
		assert.True(t, resp.Table.Empty())
	})

	t.Run("date window narrows the dataset", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, true)

		resp, err := svc.Compute(ctx, id, "win-rate", metric.Params{"end_date": "2000-01-01"})
		require.NoError(t, err)
		assert.Contains(t, resp.Headline, "No data available")
	})

	t.Run("unknown metric", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, true)

		_, err := svc.Compute(ctx, id, "unicorn-velocity", nil)
		assertDomainErrorCode(t, err, "NOT_FOUND")
		assert.Contains(t, err.Error(), "Unknown metric: unicorn-velocity")
	})

	t.Run("malformed start_date", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, true)

		_, err := svc.Compute(ctx, id, "win-rate", metric.Params{"start_date": "01/02/2026"})
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})

	t.Run("end before start", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, true)

		_, err := svc.Compute(ctx, id, "win-rate", metric.Params{"start_date": "2026-06-01", "end_date": "2026-01-01"})
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})
}

func TestServiceComputeCaching(t *testing.T) {
	svc, st := newTestService(t)
	results := cache.NewMetricResultCache(time.Hour)
	defer results.Close()
	svc.SetResultCache(results)

	ctx := context.Background()
	id := seedWorkspace(t, st, sales.Domain, true)

	first, err := svc.Compute(ctx, id, "win-rate", nil)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Compute(ctx, id, "win-rate", nil)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Headline, second.Headline)
	assert.Equal(t, first.Table, second.Table)

	t.Run("different params miss", func(t *testing.T) {
		resp, err := svc.Compute(ctx, id, "win-rate", metric.Params{"end_date": "2099-12-31"})
		require.NoError(t, err)
		assert.False(t, resp.Cached)
	})

	t.Run("dataset mutation invalidates", func(t *testing.T) {
		ws, err := st.Get(ctx, id)
		require.NoError(t, err)
		require.NoError(t, ws.AppendRow(sales.TableLeads, map[string]any{"lead_id": "LEAD-9001", "source": "Referral"}))
		require.NoError(t, st.Save(ctx, ws))

		resp, err := svc.Compute(ctx, id, "win-rate", nil)
		require.NoError(t, err)
		assert.False(t, resp.Cached)
		assert.Equal(t, ws.Version, resp.Version)
	})
}

func TestServiceOverview(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	t.Run("procurement headline KPIs", func(t *testing.T) {
		id := seedWorkspace(t, st, procurement.Domain, true)

		overview, err := svc.Overview(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, procurement.Domain, overview.Domain)
		assert.Equal(t, workspace.SourceSample, overview.Source)
		assert.Equal(t, 2, overview.Version)
		assert.Positive(t, overview.TotalRows)

		require.Len(t, overview.KPIs, len(overviewMetrics[procurement.Domain]))
		assert.Equal(t, "total-spend", overview.KPIs[0].Name)
		for _, kpi := range overview.KPIs {
			assert.NotEmpty(t, kpi.Title)
			assert.NotEmpty(t, kpi.Headline)
		}
	})

	t.Run("empty workspace still answers", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, false)

		overview, err := svc.Overview(ctx, id)
		require.NoError(t, err)
		require.Len(t, overview.KPIs, len(overviewMetrics[sales.Domain]))
		for _, kpi := range overview.KPIs {
			assert.Contains(t, kpi.Headline, "No data available")
		}
	})
}

func TestServiceInsights(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	t.Run("all topics in display order", func(t *testing.T) {
		id := seedWorkspace(t, st, procurement.Domain, true)

		resp, err := svc.Insights(ctx, id, "")
		require.NoError(t, err)

		topics := procurement.InsightTopics()
		require.Len(t, resp.Topics, len(topics))
		total := 0
		for i, topic := range resp.Topics {
			assert.Equal(t, topics[i], topic.Topic)
			total += len(topic.Insights)
		}
		assert.Positive(t, total, "sample dataset should produce findings")
	})

	t.Run("single topic", func(t *testing.T) {
		id := seedWorkspace(t, st, procurement.Domain, true)

		resp, err := svc.Insights(ctx, id, procurement.TopicExecutiveSummary)
		require.NoError(t, err)
		require.Len(t, resp.Topics, 1)
		assert.Equal(t, procurement.TopicExecutiveSummary, resp.Topics[0].Topic)
		assert.NotEmpty(t, resp.Topics[0].Insights)
	})

	t.Run("unknown topic", func(t *testing.T) {
		id := seedWorkspace(t, st, procurement.Domain, true)

		_, err := svc.Insights(ctx, id, "weather")
		assertDomainErrorCode(t, err, "NOT_FOUND")
		assert.Contains(t, err.Error(), "Unknown insight topic: weather")
	})

	t.Run("rejects non-procurement workspaces", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, true)

		_, err := svc.Insights(ctx, id, "")
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})
}

func TestServiceRisk(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	t.Run("scores all eight categories", func(t *testing.T) {
		id := seedWorkspace(t, st, procurement.Domain, true)

		resp, err := svc.Risk(ctx, id)
		require.NoError(t, err)

		assessment := resp.Assessment
		require.Len(t, assessment.Categories, 8)

		weightSum := 0.0
		for _, c := range assessment.Categories {
			weightSum += c.Weight
			assert.Contains(t, []string{procurement.RiskHigh, procurement.RiskMedium, procurement.RiskLow}, c.Level)
		}
		assert.InDelta(t, 1.0, weightSum, 1e-9)

		assert.Contains(t, []string{procurement.RiskHigh, procurement.RiskMedium, procurement.RiskLow}, assessment.OverallLevel)
		assert.Len(t, assessment.TopRisks, 3)
		assert.LessOrEqual(t, len(assessment.Mitigation), 10)
	})

	t.Run("empty dataset still scores", func(t *testing.T) {
		id := seedWorkspace(t, st, procurement.Domain, false)

		resp, err := svc.Risk(ctx, id)
		require.NoError(t, err)
		assert.Len(t, resp.Assessment.Categories, 8)
	})

	t.Run("rejects non-procurement workspaces", func(t *testing.T) {
		id := seedWorkspace(t, st, sales.Domain, true)

		_, err := svc.Risk(ctx, id)
		assertDomainErrorCode(t, err, "INVALID_INPUT")
	})
}

func TestServiceExpiredWorkspace(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	dept, err := department.Default().GetAvailable(sales.Domain)
	require.NoError(t, err)
	ws, err := workspace.New(dept.Key, dept.NewDataset(), time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, st.Create(ctx, ws))

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Catalog(ctx, ws.ID)
	assertDomainErrorCode(t, err, "WORKSPACE_EXPIRED")

	// Expired workspaces are removed on first touch
	_, err = svc.Catalog(ctx, ws.ID)
	assertDomainErrorCode(t, err, "NOT_FOUND")
}

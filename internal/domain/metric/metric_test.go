package metric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/shared"
)

type testData struct {
	values []float64
}

func testRegistry() *Registry[*testData] {
	return NewRegistry(
		Definition[*testData]{
			Name:    "total-value",
			Title:   "Total Value",
			Section: "Overview",
			Compute: func(data *testData, _ Params) (dataset.View, string) {
				view := dataset.View{Columns: []string{"total"}}
				if len(data.values) == 0 {
					return view, NoData("total value")
				}
				total := Sum(data.values)
				view.Rows = [][]any{{total}}
				return view, Currency(total)
			},
		},
		Definition[*testData]{
			Name:    "panics",
			Title:   "Panics",
			Section: "Overview",
			Compute: func(data *testData, _ Params) (dataset.View, string) {
				return dataset.View{Rows: [][]any{{data.values[99]}}}, ""
			},
		},
	)
}

func TestRegistryCompute(t *testing.T) {
	registry := testRegistry()

	result, err := registry.Compute("total-value", &testData{values: []float64{1000000, 234567}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "total-value", result.Name)
	assert.Equal(t, "Total Value", result.Title)
	assert.Equal(t, "Overview", result.Section)
	assert.Equal(t, "$1,234,567", result.Headline)
	assert.Equal(t, "total-value", result.Table.Name)
	require.Len(t, result.Table.Rows, 1)
}

func TestRegistryComputeEmptyData(t *testing.T) {
	registry := testRegistry()

	result, err := registry.Compute("total-value", &testData{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "No data available for total value", result.Headline)
	assert.True(t, result.Table.Empty())
	assert.Equal(t, []string{"total"}, result.Table.Columns)
}

func TestRegistryComputeUnknownMetric(t *testing.T) {
	registry := testRegistry()

	_, err := registry.Compute("nope", &testData{}, nil)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, "Unknown metric: nope", domainErr.Message)
}

func TestRegistryComputeRecoversPanic(t *testing.T) {
	registry := testRegistry()

	_, err := registry.Compute("panics", &testData{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "computation panicked")
}

func TestRegistryCatalog(t *testing.T) {
	registry := testRegistry()

	assert.Equal(t, []string{"total-value", "panics"}, registry.Names())
	assert.Equal(t, 2, registry.Len())
	assert.True(t, registry.Has("total-value"))
	assert.False(t, registry.Has("missing"))

	catalog := registry.Catalog()
	require.Len(t, catalog, 2)
	assert.Equal(t, "Total Value", catalog[0].Title)
}

func TestRegistryDuplicateNamePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry(
			Definition[*testData]{Name: "dup", Compute: func(*testData, Params) (dataset.View, string) { return dataset.View{}, "" }},
			Definition[*testData]{Name: "dup", Compute: func(*testData, Params) (dataset.View, string) { return dataset.View{}, "" }},
		)
	})
}

func TestParams(t *testing.T) {
	p := Params{"top": "5", "threshold": "1.5", "period": "quarter", "bad": "x"}

	assert.Equal(t, 5, p.Int("top", 10))
	assert.Equal(t, 10, p.Int("missing", 10))
	assert.Equal(t, 10, p.Int("bad", 10))
	assert.Equal(t, 1.5, p.Float("threshold", 0))
	assert.Equal(t, 2.0, p.Float("missing", 2.0))
	assert.Equal(t, "quarter", p.String("period", "month"))
	assert.Equal(t, "month", p.String("missing", "month"))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$1,234,567", Currency(1234567.2))
	assert.Equal(t, "$1,234.56", Price(1234.56))
	assert.Equal(t, "98.5%", Percent(98.46))
	assert.Equal(t, "12,345", Count(12345))
	assert.Equal(t, 1.2, Round1(1.24))
	assert.Equal(t, 1.24, Round2(1.2399))
}

func TestStats(t *testing.T) {
	xs := []float64{4, 2, 8, 6}

	assert.Equal(t, 20.0, Sum(xs))
	assert.Equal(t, 5.0, Mean(xs))
	assert.Equal(t, 5.0, Median(xs))
	assert.Equal(t, 2.0, Min(xs))
	assert.Equal(t, 8.0, Max(xs))
	assert.InDelta(t, 2.582, StdDev(xs), 0.001)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 0.0, StdDev([]float64{1}))
	assert.Equal(t, 0.0, Ratio(5, 0))
	assert.Equal(t, 2.5, Ratio(5, 2))

	odd := []float64{3, 1, 2}
	assert.Equal(t, 2.0, Median(odd))
}

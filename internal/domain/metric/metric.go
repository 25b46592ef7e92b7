package metric

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/shared"
)

// Params carries the optional tuning parameters of a metric computation,
// parsed from query string values
type Params map[string]string

// Int returns the named parameter as an int, or def when absent or invalid
func (p Params) Int(key string, def int) int {
	raw, ok := p[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// Float returns the named parameter as a float64, or def when absent or invalid
func (p Params) Float(key string, def float64) float64 {
	raw, ok := p[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// String returns the named parameter, or def when absent
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return def
}

// Date returns the named parameter parsed as YYYY-MM-DD, or def when absent
// or invalid
func (p Params) Date(key string, def time.Time) time.Time {
	raw, ok := p[key]
	if !ok {
		return def
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return def
	}
	return t
}

// Result is the outcome of one metric computation: a rendered table plus a
// one-line headline suitable for display
type Result struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Section  string       `json:"section"`
	Headline string       `json:"headline"`
	Table    dataset.View `json:"table"`
}

// ComputeFunc computes a metric over a dataset of type D. Implementations
// must tolerate empty and partial data and never panic; when there is
// nothing to compute they return an empty view and a NoData headline.
type ComputeFunc[D any] func(data D, params Params) (dataset.View, string)

// Definition describes one registered metric
type Definition[D any] struct {
	Name    string
	Title   string
	Section string
	Compute ComputeFunc[D]
}

// Descriptor is the catalog entry for a metric
type Descriptor struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Section string `json:"section"`
}

// NoData returns the standard headline for a metric with nothing to compute
func NoData(operation string) string {
	return "No data available for " + operation
}

// ErrUnknownMetric builds the domain error returned for an unregistered name
func ErrUnknownMetric(name string) *shared.DomainError {
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Unknown metric: %s", name))
}

package department

import (
	"fmt"
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
	"github.com/kpihub/backend/internal/domain/procurement"
	"github.com/kpihub/backend/internal/domain/sales"
	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/kpihub/backend/internal/domain/support"
)

// Department describes one departmental analytics module. Planned
// departments are listed in the catalog but carry no schema and accept
// no workspaces yet.
type Department struct {
	Key         string                                          `json:"key"`
	Name        string                                          `json:"name"`
	Icon        string                                          `json:"icon"`
	Description string                                          `json:"description"`
	Color       string                                          `json:"color"`
	Available   bool                                            `json:"available"`
	Schema      dataset.Schema                                  `json:"-"`
	NewDataset  func() dataset.Tabular                          `json:"-"`
	Sample      func(now time.Time, seed int64) dataset.Tabular `json:"-"`
	Metrics     metric.Provider                                 `json:"-"`
}

// Status returns the catalog status of the department
func (d Department) Status() string {
	if d.Available {
		return "active"
	}
	return "planned"
}

// Registry is the catalog of departments, in display order
type Registry struct {
	entries []Department
	byKey   map[string]int
}

// NewRegistry creates a registry from the given departments. It panics on a
// duplicate key since the catalog is assembled once at startup.
func NewRegistry(departments ...Department) *Registry {
	r := &Registry{byKey: make(map[string]int, len(departments))}
	for _, d := range departments {
		if d.Key == "" {
			panic("department: entry with empty key")
		}
		if _, exists := r.byKey[d.Key]; exists {
			panic(fmt.Sprintf("department: duplicate key %q", d.Key))
		}
		r.byKey[d.Key] = len(r.entries)
		r.entries = append(r.entries, d)
	}
	return r
}

// Get returns the department with the given key
func (r *Registry) Get(key string) (Department, error) {
	idx, ok := r.byKey[key]
	if !ok {
		return Department{}, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Unknown department: %s", key))
	}
	return r.entries[idx], nil
}

// GetAvailable returns the department with the given key, or an error when
// the department exists but has no working module yet
func (r *Registry) GetAvailable(key string) (Department, error) {
	d, err := r.Get(key)
	if err != nil {
		return Department{}, err
	}
	if !d.Available {
		return Department{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Department not yet available: %s", key))
	}
	return d, nil
}

// EmptyDataset builds a fresh dataset for an available department
func (r *Registry) EmptyDataset(key string) (dataset.Tabular, error) {
	d, err := r.GetAvailable(key)
	if err != nil {
		return nil, err
	}
	if d.NewDataset == nil {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Department has no dataset constructor: %s", key))
	}
	return d.NewDataset(), nil
}

// All returns every department in display order
func (r *Registry) All() []Department {
	out := make([]Department, len(r.entries))
	copy(out, r.entries)
	return out
}

// Available returns the departments with a working module
func (r *Registry) Available() []Department {
	var out []Department
	for _, d := range r.entries {
		if d.Available {
			out = append(out, d)
		}
	}
	return out
}

// Planned returns the catalog entries for departments that are listed but
// not implemented yet
func Planned() []Department {
	return []Department{
		{Key: "finance", Name: "Finance & Accounting", Icon: "💰", Color: "#f093fb", Description: "Financial analysis, budgeting, forecasting, and risk management"},
		{Key: "human-resources", Name: "Human Resources", Icon: "👥", Color: "#4facfe", Description: "Employee analytics, performance management, and workforce planning"},
		{Key: "information-technology", Name: "Information Technology", Icon: "💻", Color: "#43e97b", Description: "IT infrastructure, system performance, and cybersecurity analytics"},
		{Key: "marketing", Name: "Marketing & Analytics", Icon: "📊", Color: "#fa709a", Description: "Campaign performance, customer acquisition, and ROI analysis"},
		{Key: "research-development", Name: "Research & Development", Icon: "🔬", Color: "#ffecd2", Description: "Innovation metrics, project tracking, and patent analysis"},
	}
}

// Default assembles the full catalog: the three working analytics modules
// followed by the planned ones
func Default() *Registry {
	entries := []Department{
		{
			Key:         support.Domain,
			Name:        "Customer Support",
			Icon:        "🎧",
			Color:       "#764ba2",
			Description: "Ticket management, customer satisfaction, agent performance",
			Available:   true,
			Schema:      support.Schema(),
			NewDataset:  func() dataset.Tabular { return support.NewDataset() },
			Sample:      func(now time.Time, seed int64) dataset.Tabular { return support.SampleSeeded(now, seed) },
			Metrics:     metric.Bind(support.Metrics()),
		},
		{
			Key:         procurement.Domain,
			Name:        "Procurement & Supply Chain",
			Icon:        "📦",
			Color:       "#667eea",
			Description: "Supplier management, cost optimization, risk assessment",
			Available:   true,
			Schema:      procurement.Schema(),
			NewDataset:  func() dataset.Tabular { return procurement.NewDataset() },
			Sample:      func(now time.Time, seed int64) dataset.Tabular { return procurement.SampleSeeded(now, seed) },
			Metrics:     metric.Bind(procurement.Metrics()),
		},
		{
			Key:         sales.Domain,
			Name:        "Sales & Revenue",
			Icon:        "📈",
			Color:       "#a8edea",
			Description: "Sales performance, pipeline analysis, forecasting",
			Available:   true,
			Schema:      sales.Schema(),
			NewDataset:  func() dataset.Tabular { return sales.NewDataset() },
			Sample:      func(now time.Time, seed int64) dataset.Tabular { return sales.SampleSeeded(now, seed) },
			Metrics:     metric.Bind(sales.Metrics()),
		},
	}
	entries = append(entries, Planned()...)
	return NewRegistry(entries...)
}

package metric

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/shared"
)

// Provider computes metrics for one department without exposing the
// registry's dataset type, so callers can dispatch by domain key alone
type Provider interface {
	// Compute runs the named metric over the dataset
	Compute(name string, data dataset.Tabular, params Params) (Result, error)
	// Has reports whether a metric with the given name is registered
	Has(name string) bool
	// Names returns all metric names in registration order
	Names() []string
	// Catalog returns the descriptors of all metrics in registration order
	Catalog() []Descriptor
	// Len returns the number of registered metrics
	Len() int
}

// Bind erases the dataset type of a registry. Compute fails with a domain
// error when handed a dataset of the wrong concrete type.
func Bind[D dataset.Tabular](r *Registry[D]) Provider {
	return provider[D]{registry: r}
}

type provider[D dataset.Tabular] struct {
	registry *Registry[D]
}

func (p provider[D]) Compute(name string, data dataset.Tabular, params Params) (Result, error) {
	typed, ok := data.(D)
	if !ok {
		return Result{}, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Dataset type %T cannot compute metric %s", data, name))
	}
	return p.registry.Compute(name, typed, params)
}

func (p provider[D]) Has(name string) bool { return p.registry.Has(name) }

func (p provider[D]) Names() []string { return p.registry.Names() }

func (p provider[D]) Catalog() []Descriptor { return p.registry.Catalog() }

func (p provider[D]) Len() int { return p.registry.Len() }

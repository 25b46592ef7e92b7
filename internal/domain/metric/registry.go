package metric

import (
	"fmt"
)

// Registry holds the metric definitions of one department in registration
// order. Registries are assembled once at startup and read-only afterwards.
type Registry[D any] struct {
	defs   []Definition[D]
	byName map[string]int
}

// NewRegistry creates a registry from the given definitions. It panics on a
// duplicate or empty name since that is a programming error caught at startup.
func NewRegistry[D any](defs ...Definition[D]) *Registry[D] {
	r := &Registry[D]{byName: make(map[string]int, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			panic("metric: definition with empty name")
		}
		if def.Compute == nil {
			panic(fmt.Sprintf("metric: definition %q has no compute function", def.Name))
		}
		if _, exists := r.byName[def.Name]; exists {
			panic(fmt.Sprintf("metric: duplicate definition %q", def.Name))
		}
		r.byName[def.Name] = len(r.defs)
		r.defs = append(r.defs, def)
	}
	return r
}

// Compute runs the named metric over data. A panic inside a compute function
// is recovered and returned as an error so one bad calculator cannot take
// down the caller.
func (r *Registry[D]) Compute(name string, data D, params Params) (result Result, err error) {
	idx, ok := r.byName[name]
	if !ok {
		return Result{}, ErrUnknownMetric(name)
	}
	def := r.defs[idx]

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("metric %s: computation panicked: %v", name, rec)
		}
	}()

	view, headline := def.Compute(data, params)
	view.Name = def.Name
	return Result{
		Name:     def.Name,
		Title:    def.Title,
		Section:  def.Section,
		Headline: headline,
		Table:    view,
	}, nil
}

// Has reports whether a metric with the given name is registered
func (r *Registry[D]) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns all metric names in registration order
func (r *Registry[D]) Names() []string {
	names := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		names = append(names, def.Name)
	}
	return names
}

// Catalog returns the descriptors of all metrics in registration order
func (r *Registry[D]) Catalog() []Descriptor {
	catalog := make([]Descriptor, 0, len(r.defs))
	for _, def := range r.defs {
		catalog = append(catalog, Descriptor{Name: def.Name, Title: def.Title, Section: def.Section})
	}
	return catalog
}

// Len returns the number of registered metrics
func (r *Registry[D]) Len() int {
	return len(r.defs)
}

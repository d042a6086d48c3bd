package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/episim/internal/ctmc"
	"github.com/san-kum/episim/internal/metrics"
)

// Registry maps metric set names to constructors over a built model.
type Registry struct {
	sets map[string]func(ctmc.Model) []ctmc.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		sets: make(map[string]func(ctmc.Model) []ctmc.Metric),
	}

	r.sets["default"] = metrics.Defaults
	r.sets["none"] = func(ctmc.Model) []ctmc.Metric { return nil }
	r.sets["peaks"] = func(m ctmc.Model) []ctmc.Metric {
		var out []ctmc.Metric
		for i, name := range compartments(m) {
			out = append(out, metrics.NewPeak(name, i), metrics.NewPeakTime(name, i))
		}
		return out
	}
	r.sets["extinction"] = func(m ctmc.Model) []ctmc.Metric {
		var out []ctmc.Metric
		for i, name := range compartments(m) {
			out = append(out, metrics.NewExtinction(name, i))
		}
		return out
	}
	r.sets["shares"] = func(m ctmc.Model) []ctmc.Metric {
		var out []ctmc.Metric
		for i := range m.Rates {
			name := fmt.Sprintf("event%d", i)
			if i < len(m.EventNames) {
				name = m.EventNames[i]
			}
			out = append(out, metrics.NewEventShare(name, i))
		}
		return out
	}

	return r
}

// compartments names every state column except the counter.
func compartments(m ctmc.Model) []string {
	dim := m.StateDim()
	if dim == 0 {
		dim = len(m.Compartments)
	}
	names := make([]string, 0, dim)
	for i := 0; i < dim-1; i++ {
		if i < len(m.Compartments) {
			names = append(names, m.Compartments[i])
		} else {
			names = append(names, fmt.Sprintf("x%d", i))
		}
	}
	return names
}

// GetMetrics builds the union of the named sets, dropping duplicates by
// metric name.
func (r *Registry) GetMetrics(names []string, m ctmc.Model) ([]ctmc.Metric, error) {
	seen := make(map[string]bool)
	var out []ctmc.Metric
	for _, name := range names {
		fn, ok := r.sets[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric set: %s (available: %v)", name, r.ListMetricSets())
		}
		for _, metric := range fn(m) {
			if seen[metric.Name()] {
				continue
			}
			seen[metric.Name()] = true
			out = append(out, metric)
		}
	}
	return out, nil
}

func (r *Registry) ListMetricSets() []string {
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

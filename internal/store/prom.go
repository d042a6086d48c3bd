package store

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// ExportProm writes the end of a run in the Prometheus text exposition
// format, suitable for a node_exporter textfile collector.
func ExportProm(w io.Writer, data ExportData) error {
	labels := prometheus.Labels{"model": data.Model}

	finalState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "episim_final_state",
			Help:        "Compartment values at the end of the run.",
			ConstLabels: labels,
		},
		[]string{"compartment"},
	)
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "episim_events_total",
			Help:        "Accepted events by type.",
			ConstLabels: labels,
		},
		[]string{"event"},
	)
	metric := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "episim_metric",
			Help:        "Run metrics by name.",
			ConstLabels: labels,
		},
		[]string{"name"},
	)
	finalTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "episim_final_time",
		Help:        "Simulated time at termination.",
		ConstLabels: labels,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(finalState, events, metric, finalTime)

	for i, col := range data.Columns {
		if i < len(data.FinalState) {
			finalState.WithLabelValues(col).Set(data.FinalState[i])
		}
	}
	for name, count := range data.EventCounts {
		events.WithLabelValues(name).Add(float64(count))
	}
	for name, v := range data.Metrics {
		metric.WithLabelValues(name).Set(v)
	}
	finalTime.Set(data.FinalTime)

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

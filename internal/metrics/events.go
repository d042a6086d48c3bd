package metrics

import (
	"fmt"

	"github.com/san-kum/episim/internal/ctmc"
)

// EventShare is the fraction of accepted events of one type.
type EventShare struct {
	name    string
	event   int
	hits    int
	samples int
}

func NewEventShare(name string, event int) *EventShare {
	return &EventShare{
		name:  fmt.Sprintf("share_%s", name),
		event: event,
	}
}

func (s *EventShare) Name() string {
	return s.name
}

func (s *EventShare) Observe(t float64, event int, x ctmc.State) {
	if event < 0 {
		return
	}
	s.samples++
	if event == s.event {
		s.hits++
	}
}

func (s *EventShare) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.hits) / float64(s.samples)
}

func (s *EventShare) Reset() {
	s.hits = 0
	s.samples = 0
}

// Defaults returns the standard metrics for a model: the peak of every
// compartment except the counter and the share of every event type.
func Defaults(m ctmc.Model) []ctmc.Metric {
	var out []ctmc.Metric
	for i, name := range m.Compartments {
		if i == len(m.Compartments)-1 {
			break
		}
		out = append(out, NewPeak(name, i), NewPeakTime(name, i))
	}
	for i, name := range m.EventNames {
		out = append(out, NewEventShare(name, i))
	}
	return out
}

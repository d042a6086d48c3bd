package metrics

import (
	"fmt"

	"github.com/san-kum/episim/internal/ctmc"
)

// Peak tracks the largest value a compartment reaches and when.
type Peak struct {
	name  string
	col   int
	value float64
	time  float64
	seen  bool
}

func NewPeak(name string, col int) *Peak {
	return &Peak{name: fmt.Sprintf("peak_%s", name), col: col}
}

func (p *Peak) Name() string {
	return p.name
}

func (p *Peak) Observe(t float64, event int, x ctmc.State) {
	if p.col >= len(x) {
		return
	}
	if !p.seen || x[p.col] > p.value {
		p.value = x[p.col]
		p.time = t
		p.seen = true
	}
}

func (p *Peak) Value() float64 {
	return p.value
}

// Time is when the peak was first reached.
func (p *Peak) Time() float64 {
	return p.time
}

func (p *Peak) Reset() {
	p.value = 0
	p.time = 0
	p.seen = false
}

// PeakTime reports the time of a Peak as its own metric.
type PeakTime struct {
	*Peak
}

func NewPeakTime(name string, col int) *PeakTime {
	pk := NewPeak(name, col)
	pk.name = fmt.Sprintf("peak_time_%s", name)
	return &PeakTime{Peak: pk}
}

func (p *PeakTime) Value() float64 {
	return p.time
}

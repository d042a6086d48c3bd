package metrics

import (
	"fmt"

	"github.com/san-kum/episim/internal/ctmc"
)

// Extinction records the first time a compartment reaches zero after having
// been positive. Value is -1 while that has not happened.
type Extinction struct {
	name     string
	col      int
	positive bool
	at       float64
	done     bool
}

func NewExtinction(name string, col int) *Extinction {
	return &Extinction{name: fmt.Sprintf("extinction_%s", name), col: col}
}

func (e *Extinction) Name() string {
	return e.name
}

func (e *Extinction) Observe(t float64, event int, x ctmc.State) {
	if e.done || e.col >= len(x) {
		return
	}
	switch {
	case x[e.col] > 0:
		e.positive = true
	case e.positive:
		e.at = t
		e.done = true
	}
}

func (e *Extinction) Value() float64 {
	if !e.done {
		return -1
	}
	return e.at
}

func (e *Extinction) Reset() {
	e.positive = false
	e.done = false
	e.at = 0
}

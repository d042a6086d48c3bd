package ctmc

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) AddInPlace(delta []float64) {
	for i := range s {
		s[i] += delta[i]
	}
}

// Compartments returns the entries rate expressions see: everything but the
// trailing counter.
func (s State) Compartments() []float64 {
	if len(s) == 0 {
		return nil
	}
	return s[:len(s)-1]
}

// Model is the caller-supplied description of the chain. Symbols names the
// values of concat(state[:len-1], Params) in order.
type Model struct {
	Rates       []string
	Transitions [][]float64
	Symbols     []string
	Params      []float64

	// Optional display names. EventNames pairs with Rates; Compartments
	// pairs with the state vector, counter last.
	EventNames   []string
	Compartments []string
}

// NumEvents is the number of event types.
func (m Model) NumEvents() int { return len(m.Rates) }

// StateDim is the state length the transitions imply, or 0 with no events.
func (m Model) StateDim() int {
	if len(m.Transitions) == 0 {
		return 0
	}
	return len(m.Transitions[0])
}

type RunConfig struct {
	ReportTimes []float64
	TMin        float64
	TMax        float64
	MaxIter     int
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		ReportTimes: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		TMin:        0,
		TMax:        10,
		MaxIter:     1_000_000,
	}
}

// Termination says why a run stopped. None of these is an error.
type Termination int

const (
	Running Termination = iota
	Absorbed
	ReportsExhausted
	HorizonReached
	IterationLimitReached
)

func (t Termination) String() string {
	switch t {
	case Running:
		return "running"
	case Absorbed:
		return "absorbed: total event rate is zero"
	case ReportsExhausted:
		return "reports exhausted: every reporting time was served"
	case HorizonReached:
		return "horizon reached: time passed the final reporting time or tmax"
	case IterationLimitReached:
		return "iteration limit reached"
	}
	return "unknown"
}

type Result struct {
	// Trajectory[0] is the initial state. Later entries are the states held
	// just before the event that carried time past a reporting time.
	Trajectory []State
	// Times[0] is TMin; Times[k] is the reporting time Trajectory[k] serves.
	Times []float64
	// Skipped lists reporting times passed within a single inter-event gap
	// and therefore never recorded.
	Skipped []float64

	Termination Termination
	Events      int
	Iterations  int
	EventCounts []int
	FinalTime   float64
	FinalState  State
	Metrics     map[string]float64
}

// Observer sees every accepted event after the state update.
type Observer interface {
	OnEvent(t float64, event int, x State)
}

// Metric accumulates a summary over a run. Observe is called once with
// event -1 for the initial state, then after every accepted event.
type Metric interface {
	Name() string
	Observe(t float64, event int, x State)
	Value() float64
	Reset()
}

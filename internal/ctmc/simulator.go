package ctmc

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/episim/internal/expr"
)

type Simulator struct {
	model     Model
	rates     []expr.Func
	metrics   []Metric
	observers []Observer
}

// New validates m and compiles its rate expressions. Every problem the model
// alone can reveal is reported here as a *ConfigurationError.
func New(m Model) (*Simulator, error) {
	if err := validateModel(m); err != nil {
		return nil, err
	}

	rates := make([]expr.Func, len(m.Rates))
	for i, src := range m.Rates {
		f, err := expr.CompileString(src, m.Symbols)
		if err != nil {
			var ue *expr.UnboundError
			if errors.As(err, &ue) {
				return nil, configErr("rates", ErrUnboundSymbol, "event %d (%q): no value for symbol %q", i, src, ue.Name)
			}
			return nil, configErr("rates", err, "event %d (%q)", i, src)
		}
		rates[i] = f
	}

	return &Simulator{
		model:     m,
		rates:     rates,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func validateModel(m Model) error {
	if len(m.Rates) == 0 {
		return configErr("rates", nil, "model has no events")
	}
	if len(m.Transitions) != len(m.Rates) {
		return configErr("transitions", ErrDimensionMismatch, "%d rows for %d rate expressions", len(m.Transitions), len(m.Rates))
	}

	dim := m.StateDim()
	if dim < 2 {
		return configErr("transitions", ErrDimensionMismatch, "rows need at least one compartment plus the counter, got %d columns", dim)
	}
	for i, row := range m.Transitions {
		if len(row) != dim {
			return configErr("transitions", ErrDimensionMismatch, "row %d has %d columns, row 0 has %d", i, len(row), dim)
		}
		if !State(row).IsValid() {
			return configErr("transitions", nil, "row %d is not finite", i)
		}
	}

	if want := dim - 1 + len(m.Params); len(m.Symbols) != want {
		return configErr("symbols", ErrDimensionMismatch, "%d symbols for %d compartments and %d parameters", len(m.Symbols), dim-1, len(m.Params))
	}
	if len(m.EventNames) != 0 && len(m.EventNames) != len(m.Rates) {
		return configErr("event_names", ErrDimensionMismatch, "%d names for %d events", len(m.EventNames), len(m.Rates))
	}
	if len(m.Compartments) != 0 && len(m.Compartments) != dim {
		return configErr("compartments", ErrDimensionMismatch, "%d names for %d state columns", len(m.Compartments), dim)
	}
	return nil
}

func (s *Simulator) Model() Model { return s.model }

// AddMetric and AddObserver attach per-event hooks. A Simulator with hooks
// attached must not run concurrently.
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run simulates one trajectory from x0. Terminal states are reported in
// Result.Termination; errors mean no trajectory was produced.
func (s *Simulator) Run(src Source, x0 State, cfg RunConfig) (*Result, error) {
	return s.RunContext(context.Background(), src, x0, cfg)
}

// RunContext is Run with cancellation. A cancelled run returns the partial
// result, still marked Running, together with ctx.Err().
func (s *Simulator) RunContext(ctx context.Context, src Source, x0 State, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.model.StateDim() {
		return nil, configErr("initial_state", ErrDimensionMismatch, "length %d, transitions have %d columns", len(x0), s.model.StateDim())
	}
	if !x0.IsValid() {
		return nil, configErr("initial_state", nil, "not finite")
	}

	n := s.model.NumEvents()
	eval := newRateEvaluator(s.rates, s.model.Rates, s.model.Params, len(x0)-1)
	sampler := NewSampler(src, n)
	schedule := NewReportSchedule(cfg.ReportTimes, cfg.TMin)
	rates := make([]float64, n)

	if err := eval.Evaluate(cfg.TMin, x0, rates); err != nil {
		return nil, initialRateError(err)
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(cfg.TMin, -1, x0)
	}

	result := &Result{
		Trajectory:  make([]State, 0, len(cfg.ReportTimes)),
		Times:       make([]float64, 0, len(cfg.ReportTimes)),
		EventCounts: make([]int, n),
		Metrics:     make(map[string]float64),
	}

	x := x0.Clone()
	t := cfg.TMin
	result.Trajectory = append(result.Trajectory, x.Clone())
	result.Times = append(result.Times, t)

	status := Running
	iter := 0
	for status == Running && t < cfg.TMax && iter < cfg.MaxIter {
		select {
		case <-ctx.Done():
			result.finish(status, iter, t, x, s.metrics)
			return result, ctx.Err()
		default:
		}
		iter++

		if err := eval.Evaluate(t, x, rates); err != nil {
			return nil, err
		}

		dt, event, ok := sampler.Next(rates)
		if !ok {
			status = Absorbed
			break
		}
		t += dt

		// The record for a crossed reporting time is the pre-event state.
		var prev State
		due := schedule.Due(t)
		if due {
			prev = x.Clone()
		}
		x.AddInPlace(s.model.Transitions[event])
		result.Events++
		result.EventCounts[event]++

		for _, m := range s.metrics {
			m.Observe(t, event, x)
		}
		for _, obs := range s.observers {
			obs.OnEvent(t, event, x)
		}

		if due {
			result.Trajectory = append(result.Trajectory, prev)
			result.Times = append(result.Times, schedule.Advance())

			if skipped := schedule.Passed(t); len(skipped) > 0 {
				logrus.Warnf("ctmc: event at t=%.6g passed %d reporting time(s) %v without recording them", t, len(skipped), skipped)
				result.Skipped = append(result.Skipped, skipped...)
			}
			if schedule.Done() {
				status = ReportsExhausted
			}
		}

		if status == Running && t > schedule.Final() {
			status = HorizonReached
		}
	}

	if status == Running {
		if t >= cfg.TMax {
			status = HorizonReached
		} else {
			status = IterationLimitReached
		}
	}

	result.finish(status, iter, t, x, s.metrics)

	logrus.Debugf("ctmc: %s (t=%.6g, events=%d, recorded=%d)", status, t, result.Events, len(result.Trajectory))
	return result, nil
}

// initialRateError reports a rate that is already unusable at the initial
// state as a configuration problem.
func initialRateError(err error) error {
	var ee *EvaluationError
	if !errors.As(err, &ee) {
		return configErr("rates", err, "cannot be evaluated at the initial state")
	}
	return configErr("rates", ee.Wrapped, "event %d (%q) evaluates to %v at the initial state", ee.Event, ee.Expr, ee.Value)
}

func (r *Result) finish(status Termination, iter int, t float64, x State, metrics []Metric) {
	r.Termination = status
	r.Iterations = iter
	r.FinalTime = t
	r.FinalState = x
	for _, m := range metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// Simulate builds a Simulator for one run. Symbols name
// concat(x0[:len(x0)-1], params) positionally.
func Simulate(src Source, reportTimes []float64, tmin, tmax float64, maxiter int,
	x0 State, rates []string, transitions [][]float64, params []float64, symbols []string) (*Result, error) {
	s, err := New(Model{
		Rates:       rates,
		Transitions: transitions,
		Symbols:     symbols,
		Params:      params,
	})
	if err != nil {
		return nil, err
	}
	return s.Run(src, x0, RunConfig{ReportTimes: reportTimes, TMin: tmin, TMax: tmax, MaxIter: maxiter})
}

// Series extracts column col from the trajectory.
func (r *Result) Series(col int) []float64 {
	out := make([]float64, len(r.Trajectory))
	for i, x := range r.Trajectory {
		if col < len(x) {
			out[i] = x[col]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

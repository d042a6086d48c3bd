package ctmc

import (
	"math"

	"github.com/san-kum/episim/internal/expr"
)

// RateEvaluator turns the current state into one numeric rate per event.
// It owns a scratch buffer, so each run builds its own.
type RateEvaluator struct {
	funcs []expr.Func
	exprs []string
	vars  []float64
}

func newRateEvaluator(funcs []expr.Func, exprs []string, params []float64, nCompartments int) *RateEvaluator {
	vars := make([]float64, nCompartments+len(params))
	copy(vars[nCompartments:], params)
	return &RateEvaluator{funcs: funcs, exprs: exprs, vars: vars}
}

// Evaluate writes the rates for state x into dst. The trailing counter of x
// is never bound. t only annotates errors.
func (e *RateEvaluator) Evaluate(t float64, x State, dst []float64) error {
	copy(e.vars, x.Compartments())

	for i, f := range e.funcs {
		r := f(e.vars)
		switch {
		case math.IsNaN(r) || math.IsInf(r, 0):
			return &EvaluationError{Event: i, Expr: e.exprs[i], Value: r, Time: t, Wrapped: ErrNonFiniteRate}
		case r < 0:
			return &EvaluationError{Event: i, Expr: e.exprs[i], Value: r, Time: t, Wrapped: ErrNegativeRate}
		}
		dst[i] = r
	}
	return nil
}

package ctmc

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and evaluation.
var (
	// ErrConfiguration marks a model or run configuration rejected before
	// the loop starts.
	ErrConfiguration = errors.New("ctmc: invalid configuration")

	// ErrDimensionMismatch indicates transition rows, rates, symbols or the
	// initial state disagree on length.
	ErrDimensionMismatch = errors.New("ctmc: dimension mismatch")

	// ErrUnboundSymbol indicates a rate expression uses a symbol with no value.
	ErrUnboundSymbol = errors.New("ctmc: unbound symbol in rate expression")

	// ErrReportTimes indicates a malformed reporting schedule.
	ErrReportTimes = errors.New("ctmc: invalid reporting times")

	// ErrNegativeRate indicates a rate evaluated below zero.
	ErrNegativeRate = errors.New("ctmc: negative event rate")

	// ErrNonFiniteRate indicates a rate evaluated to NaN or Inf.
	ErrNonFiniteRate = errors.New("ctmc: non-finite event rate")

	// ErrEvaluation marks a rate that could not be evaluated mid-run.
	ErrEvaluation = errors.New("ctmc: rate evaluation failed")
)

// ConfigurationError is returned by New and Run before any event is drawn.
type ConfigurationError struct {
	Field   string
	Reason  string
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("ctmc: %s: %s: %v", e.Field, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("ctmc: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Wrapped == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Wrapped}
}

func configErr(field string, wrapped error, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...), Wrapped: wrapped}
}

// EvaluationError aborts a run; the partial trajectory is discarded.
type EvaluationError struct {
	Event   int
	Expr    string
	Value   float64
	Time    float64
	Wrapped error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("ctmc: event %d rate %q = %v at t=%.6g: %v", e.Event, e.Expr, e.Value, e.Time, e.Wrapped)
}

func (e *EvaluationError) Unwrap() []error {
	return []error{ErrEvaluation, e.Wrapped}
}

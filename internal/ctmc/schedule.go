package ctmc

import "math"

// ReportSchedule is the cursor over reporting times. Each accepted event
// advances it by at most one position.
type ReportSchedule struct {
	times  []float64
	cursor int
}

// NewReportSchedule positions the cursor on the first time strictly after
// tmin.
func NewReportSchedule(times []float64, tmin float64) *ReportSchedule {
	cursor := 0
	for cursor < len(times) && times[cursor] <= tmin {
		cursor++
	}
	return &ReportSchedule{times: times, cursor: cursor}
}

// Target is the reporting time currently awaited.
func (r *ReportSchedule) Target() float64 {
	if r.Done() {
		return math.Inf(1)
	}
	return r.times[r.cursor]
}

func (r *ReportSchedule) Final() float64 { return r.times[len(r.times)-1] }

func (r *ReportSchedule) Done() bool { return r.cursor >= len(r.times) }

// Due reports whether t has passed the awaited reporting time.
func (r *ReportSchedule) Due(t float64) bool { return !r.Done() && t > r.times[r.cursor] }

// Advance moves to the next reporting time and returns the one just served.
func (r *ReportSchedule) Advance() float64 {
	served := r.times[r.cursor]
	r.cursor++
	return served
}

// Passed returns the pending reporting times t has already passed. After an
// Advance these are the times that will never be recorded.
func (r *ReportSchedule) Passed(t float64) []float64 {
	var passed []float64
	for k := r.cursor; k < len(r.times) && t > r.times[k]; k++ {
		passed = append(passed, r.times[k])
	}
	return passed
}

func validateRunConfig(cfg RunConfig) error {
	T := cfg.ReportTimes
	if len(T) < 2 {
		return configErr("report_times", ErrReportTimes, "need at least 2 reporting times, got %d", len(T))
	}
	for i, v := range T {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return configErr("report_times", ErrReportTimes, "time %d is not finite", i)
		}
		if i > 0 && v <= T[i-1] {
			return configErr("report_times", ErrReportTimes, "times must be strictly increasing (T[%d]=%g, T[%d]=%g)", i-1, T[i-1], i, v)
		}
	}
	if T[0] > cfg.TMin {
		return configErr("report_times", ErrReportTimes, "first reporting time %g is after tmin %g", T[0], cfg.TMin)
	}
	if T[len(T)-1] <= cfg.TMin {
		return configErr("report_times", ErrReportTimes, "no reporting time after tmin %g", cfg.TMin)
	}
	if !(cfg.TMax > cfg.TMin) {
		return configErr("tmax", nil, "tmax %g must exceed tmin %g", cfg.TMax, cfg.TMin)
	}
	if cfg.MaxIter <= 0 {
		return configErr("maxiter", nil, "must be positive, got %d", cfg.MaxIter)
	}
	return nil
}

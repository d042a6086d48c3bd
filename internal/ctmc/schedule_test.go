package ctmc

import (
	"errors"
	"math"
	"testing"
)

func TestReportSchedule_StartsAfterTMin(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		tmin  float64
		want  float64
	}{
		{"first equals tmin", []float64{0, 1, 2}, 0, 1},
		{"first before tmin", []float64{-1, 0.5, 2}, 0, 0.5},
		{"several before tmin", []float64{0, 1, 2, 3}, 1.5, 2},
		{"tmin on a later time", []float64{0, 1, 2, 3}, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReportSchedule(tt.times, tt.tmin)
			if got := r.Target(); got != tt.want {
				t.Errorf("Target() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReportSchedule_AdvanceAndPassed(t *testing.T) {
	r := NewReportSchedule([]float64{0, 1, 2, 3, 4}, 0)

	if r.Due(1) {
		t.Error("t equal to the target must not be due")
	}
	if !r.Due(1.01) {
		t.Error("t past the target must be due")
	}

	if served := r.Advance(); served != 1 {
		t.Errorf("Advance() = %v, want 1", served)
	}

	passed := r.Passed(3.5)
	if len(passed) != 2 || passed[0] != 2 || passed[1] != 3 {
		t.Errorf("Passed(3.5) = %v, want [2 3]", passed)
	}
	if r.Target() != 2 {
		t.Errorf("Passed must not move the cursor, target = %v", r.Target())
	}

	r.Advance()
	r.Advance()
	r.Advance()
	if !r.Done() {
		t.Error("expected schedule to be exhausted")
	}
	if r.Due(100) {
		t.Error("exhausted schedule is never due")
	}
	if !math.IsInf(r.Target(), 1) {
		t.Errorf("exhausted Target() = %v, want +Inf", r.Target())
	}
	if r.Final() != 4 {
		t.Errorf("Final() = %v, want 4", r.Final())
	}
}

func TestValidateRunConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RunConfig
		wantErr error
	}{
		{"one time", RunConfig{ReportTimes: []float64{0}, TMax: 1, MaxIter: 1}, ErrReportTimes},
		{"not increasing", RunConfig{ReportTimes: []float64{0, 2, 2}, TMax: 3, MaxIter: 1}, ErrReportTimes},
		{"decreasing", RunConfig{ReportTimes: []float64{0, 2, 1}, TMax: 3, MaxIter: 1}, ErrReportTimes},
		{"first after tmin", RunConfig{ReportTimes: []float64{1, 2}, TMax: 3, MaxIter: 1}, ErrReportTimes},
		{"none after tmin", RunConfig{ReportTimes: []float64{0, 1}, TMin: 1, TMax: 3, MaxIter: 1}, ErrReportTimes},
		{"nan time", RunConfig{ReportTimes: []float64{0, math.NaN()}, TMax: 3, MaxIter: 1}, ErrReportTimes},
		{"tmax not after tmin", RunConfig{ReportTimes: []float64{0, 1}, TMax: 0, MaxIter: 1}, ErrConfiguration},
		{"zero maxiter", RunConfig{ReportTimes: []float64{0, 1}, TMax: 1, MaxIter: 0}, ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRunConfig(tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("validateRunConfig() = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
		})
	}

	if err := validateRunConfig(DefaultRunConfig()); err != nil {
		t.Errorf("DefaultRunConfig invalid: %v", err)
	}
}

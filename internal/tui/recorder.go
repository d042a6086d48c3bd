package tui

import "github.com/san-kum/episim/internal/ctmc"

// Frame is one replayable snapshot. Event is -1 for the initial state and
// for frames taken at reporting times.
type Frame struct {
	T     float64
	Event int
	State ctmc.State
}

// Recorder is a ctmc.Observer that keeps a copy of the state after every
// event, up to limit frames (0 means unbounded).
type Recorder struct {
	frames  []Frame
	limit   int
	Dropped int
}

func NewRecorder(t0 float64, x0 ctmc.State, limit int) *Recorder {
	r := &Recorder{limit: limit}
	r.frames = append(r.frames, Frame{T: t0, Event: -1, State: x0.Clone()})
	return r
}

func (r *Recorder) OnEvent(t float64, event int, x ctmc.State) {
	if r.limit > 0 && len(r.frames) >= r.limit {
		r.Dropped++
		return
	}
	r.frames = append(r.frames, Frame{T: t, Event: event, State: x.Clone()})
}

func (r *Recorder) Frames() []Frame { return r.frames }

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/episim/internal/ctmc"
)

func testFrames() []Frame {
	return []Frame{
		{T: 0, Event: -1, State: ctmc.State{10, 1, 1}},
		{T: 0.5, Event: 0, State: ctmc.State{9, 2, 2}},
		{T: 0.9, Event: 1, State: ctmc.State{9, 1, 2}},
		{T: 1.4, Event: 1, State: ctmc.State{9, 0, 2}},
	}
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestReplayStepping(t *testing.T) {
	m := NewModel("sis", testFrames(), []string{"S", "I", "C"}, []string{"infection", "recovery"})

	m, _ = press(m, "left")
	if m.Cursor() != 0 {
		t.Errorf("left at start moved cursor to %d", m.Cursor())
	}

	m, _ = press(m, "right")
	m, _ = press(m, "right")
	if m.Cursor() != 2 {
		t.Errorf("expected cursor 2, got %d", m.Cursor())
	}

	m, _ = press(m, "end")
	m, _ = press(m, "right")
	if m.Cursor() != 3 {
		t.Errorf("right past end moved cursor to %d", m.Cursor())
	}

	m, _ = press(m, "g")
	if m.Current().T != 0 {
		t.Errorf("g should rewind, at t=%v", m.Current().T)
	}
}

func TestReplayPlayback(t *testing.T) {
	m := NewModel("sis", testFrames(), nil, nil)

	m, cmd := press(m, " ")
	if !m.Playing() || cmd == nil {
		t.Fatal("space should start playback with a tick")
	}

	gen := m.gen
	for i := 0; i < 3; i++ {
		next, cmd := m.Update(tickMsg{gen: gen})
		m = next.(Model)
		if cmd == nil {
			t.Fatalf("tick %d should schedule another", i)
		}
	}
	if m.Cursor() != 3 {
		t.Errorf("expected last frame, got %d", m.Cursor())
	}

	next, cmd := m.Update(tickMsg{gen: gen})
	m = next.(Model)
	if m.Playing() || cmd != nil {
		t.Error("playback should stop at the last frame")
	}
}

func TestReplayStaleTick(t *testing.T) {
	m := NewModel("sis", testFrames(), nil, nil)

	m, _ = press(m, " ")
	stale := m.gen
	m, _ = press(m, " ")
	m, _ = press(m, " ")

	next, cmd := m.Update(tickMsg{gen: stale})
	m = next.(Model)
	if m.Cursor() != 0 || cmd != nil {
		t.Error("tick from an earlier playback should be ignored")
	}
}

func TestReplayQuit(t *testing.T) {
	m := NewModel("sis", testFrames(), nil, nil)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestReplayView(t *testing.T) {
	m := NewModel("sis", testFrames(), []string{"S", "I", "C"}, []string{"infection", "recovery"})
	m, _ = press(m, "right")

	out := m.View()
	for _, want := range []string{"sis", "t=0.5000", "frame 2/4", "infection", "S", "paused", "space play", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}

	empty := NewModel("none", nil, nil, nil)
	if !strings.Contains(empty.View(), "nothing to replay") {
		t.Error("empty replay should say so")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(0, ctmc.State{1, 0}, 3)
	x := ctmc.State{2, 1}
	r.OnEvent(0.1, 0, x)
	x[0] = 3
	r.OnEvent(0.2, 0, x)
	r.OnEvent(0.3, 0, x)

	frames := r.Frames()
	if len(frames) != 3 || r.Dropped != 1 {
		t.Fatalf("expected 3 frames and 1 dropped, got %d and %d", len(frames), r.Dropped)
	}
	if frames[1].State[0] != 2 {
		t.Error("recorder must copy the state")
	}
	if frames[0].Event != -1 || frames[2].Event != 0 {
		t.Error("unexpected event indices")
	}
}

func TestFromResult(t *testing.T) {
	r := &ctmc.Result{
		Trajectory: []ctmc.State{{1, 0}, {2, 1}},
		Times:      []float64{0, 1},
	}
	frames := FromResult(r)
	if len(frames) != 2 || frames[1].T != 1 || frames[1].Event != -1 {
		t.Errorf("unexpected frames %+v", frames)
	}
}

package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/episim/internal/ctmc"
	"github.com/san-kum/episim/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	barWidth   = 30
	sparkWidth = 40
	minDelay   = 10 * time.Millisecond
	maxDelay   = 2 * time.Second
)

type tickMsg struct{ gen int }

type Model struct {
	title  string
	frames []Frame
	names  []string
	events []string
	scale  []float64

	cursor  int
	playing bool
	delay   time.Duration
	gen     int

	width  int
	height int
}

// NewModel builds a replay over frames. names labels the state columns and
// events the event types; either may be nil.
func NewModel(title string, frames []Frame, names, events []string) Model {
	m := Model{
		title:  title,
		frames: frames,
		names:  names,
		events: events,
		delay:  100 * time.Millisecond,
		width:  80,
		height: 24,
	}
	if len(frames) > 0 {
		m.scale = make([]float64, len(frames[0].State))
		for _, f := range frames {
			for i, v := range f.State {
				if i < len(m.scale) {
					m.scale[i] = math.Max(m.scale[i], math.Abs(v))
				}
			}
		}
	}
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) Cursor() int    { return m.cursor }
func (m Model) Playing() bool  { return m.playing }
func (m Model) Current() Frame { return m.frames[m.cursor] }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.playing || msg.gen != m.gen {
			return m, nil
		}
		if m.cursor >= len(m.frames)-1 {
			m.playing = false
			return m, nil
		}
		m.cursor++
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	last := max(len(m.frames)-1, 0)

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "right", "l":
		m.cursor = min(m.cursor+1, last)
	case "left", "h":
		m.cursor = max(m.cursor-1, 0)
	case "pgdown":
		m.cursor = min(m.cursor+10, last)
	case "pgup":
		m.cursor = max(m.cursor-10, 0)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = last
	case "+", "=":
		m.delay = max(m.delay/2, minDelay)
	case "-", "_":
		m.delay = min(m.delay*2, maxDelay)
	case " ", "p":
		m.playing = !m.playing
		m.gen++
		if m.playing {
			if m.cursor >= last {
				m.cursor = 0
			}
			return m, m.tick()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.frames) == 0 {
		return dim.Render("  nothing to replay") + "\n"
	}

	f := m.frames[m.cursor]
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + cyan.Render(m.title) + "  " + white.Render(fmt.Sprintf("t=%.4f", f.T)))
	b.WriteString("  " + dim.Render(fmt.Sprintf("frame %d/%d", m.cursor+1, len(m.frames))))
	if f.Event >= 0 {
		b.WriteString("  " + magenta.Render(m.eventName(f.Event)))
	}
	if m.playing {
		b.WriteString("  " + green.Render("▶ playing"))
	} else {
		b.WriteString("  " + yellow.Render("❚❚ paused"))
	}
	b.WriteString("\n")
	b.WriteString(dimmer.Render("  "+strings.Repeat("─", barWidth+sparkWidth+24)) + "\n\n")

	for i, v := range f.State {
		frac := 0.0
		if i < len(m.scale) && m.scale[i] > 0 {
			frac = math.Abs(v) / m.scale[i]
		}
		b.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
			dim.Render(fmt.Sprintf("%-8s", m.columnName(i))),
			viz.Bar(frac, barWidth),
			white.Render(fmt.Sprintf("%10g", v)),
			dimmer.Render(viz.Sparkline(m.history(i), sparkWidth)),
		))
	}

	b.WriteString("\n")
	b.WriteString(viz.KeyHint.Render(fmt.Sprintf("  ←→ step  pgup/pgdn ±10  g/G ends  space play  +/- speed (%v)  q quit", m.delay)) + "\n")
	return b.String()
}

func (m Model) history(col int) []float64 {
	out := make([]float64, 0, m.cursor+1)
	for _, f := range m.frames[:m.cursor+1] {
		if col < len(f.State) {
			out = append(out, f.State[col])
		}
	}
	return out
}

func (m Model) columnName(i int) string {
	if i < len(m.names) && m.names[i] != "" {
		return m.names[i]
	}
	return fmt.Sprintf("x%d", i)
}

func (m Model) eventName(e int) string {
	if e < len(m.events) && m.events[e] != "" {
		return m.events[e]
	}
	return fmt.Sprintf("event %d", e)
}

// Run opens the replay full screen and blocks until the user quits.
func Run(title string, frames []Frame, names, events []string) error {
	p := tea.NewProgram(NewModel(title, frames, names, events), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// FromResult replays a run at its reporting times.
func FromResult(r *ctmc.Result) []Frame {
	frames := make([]Frame, len(r.Trajectory))
	for i, x := range r.Trajectory {
		frames[i] = Frame{T: r.Times[i], Event: -1, State: x}
	}
	return frames
}

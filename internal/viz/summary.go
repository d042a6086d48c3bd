package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/episim/internal/ctmc"
)

// Summary renders the outcome of a run as a bordered panel.
func Summary(title string, m ctmc.Model, result *ctmc.Result) string {
	var lines []string

	status := StatusOK
	if result.Termination == ctmc.IterationLimitReached || len(result.Skipped) > 0 {
		status = StatusWarn
	}
	lines = append(lines,
		Title.Render(title),
		status.Render(result.Termination.String()),
		"",
		row("final time", fmt.Sprintf("%.4f", result.FinalTime)),
		row("events", fmt.Sprintf("%d", result.Events)),
		row("recorded", fmt.Sprintf("%d", len(result.Trajectory))),
	)
	if len(result.Skipped) > 0 {
		lines = append(lines, row("skipped", fmt.Sprintf("%d", len(result.Skipped))))
	}

	if len(result.FinalState) > 0 {
		lines = append(lines, "", Subtle.Render("final state"))
		for i, v := range result.FinalState {
			lines = append(lines, row(columnName(m.Compartments, i), fmt.Sprintf("%g", v)))
		}
	}

	if len(m.EventNames) == len(result.EventCounts) && result.Events > 0 {
		lines = append(lines, "", Subtle.Render("events"))
		for i, name := range m.EventNames {
			share := float64(result.EventCounts[i]) / float64(result.Events)
			lines = append(lines, fmt.Sprintf("%s %s %d", MetricLabel.Render(fmt.Sprintf("%-12s", name)), Bar(share, 20), result.EventCounts[i]))
		}
	}

	if len(result.Metrics) > 0 {
		lines = append(lines, "", Subtle.Render("metrics"))
		keys := make([]string, 0, len(result.Metrics))
		for k := range result.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, row(k, fmt.Sprintf("%.4g", result.Metrics[k])))
		}
	}

	return Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func row(label, value string) string {
	return MetricLabel.Render(fmt.Sprintf("%-18s", label)) + " " + MetricValue.Render(value)
}

// Table renders the trajectory as aligned text, one row per reporting time.
func Table(m ctmc.Model, result *ctmc.Result) string {
	var b strings.Builder
	if len(result.Trajectory) == 0 {
		return ""
	}

	fmt.Fprintf(&b, "%12s", "time")
	for i := range result.Trajectory[0] {
		fmt.Fprintf(&b, " %12s", columnName(m.Compartments, i))
	}
	b.WriteByte('\n')

	for k, x := range result.Trajectory {
		fmt.Fprintf(&b, "%12.4f", result.Times[k])
		for _, v := range x {
			fmt.Fprintf(&b, " %12g", v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/muesli/termenv"

	"github.com/san-kum/episim/internal/ctmc"
)

type PlotOptions struct {
	Height int
	Width  int
	// Columns selects state columns to draw; empty means every compartment
	// except the counter.
	Columns []int
	// Overlay draws all selected columns on one chart.
	Overlay bool
	// Color enables series colors and the legend on overlays.
	Color bool
}

// DefaultPlotOptions colors overlays when the environment's profile allows
// it; NO_COLOR and non-terminals get plain output.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Height: 10, Width: 80, Color: termenv.EnvColorProfile() != termenv.Ascii}
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Blue,
}

// PlotSeries draws one series. An empty series yields an empty string.
func PlotSeries(data []float64, caption string, opts PlotOptions) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}

// PlotTrajectory draws the recorded trajectory. names labels the state
// columns; missing names fall back to x<i>.
func PlotTrajectory(result *ctmc.Result, names []string, opts PlotOptions) string {
	if len(result.Trajectory) == 0 {
		return ""
	}

	cols := opts.Columns
	if len(cols) == 0 {
		dim := len(result.Trajectory[0])
		for i := 0; i < dim-1; i++ {
			cols = append(cols, i)
		}
		if dim == 1 {
			cols = []int{0}
		}
	}

	if opts.Overlay {
		series := make([][]float64, len(cols))
		labels := make([]string, len(cols))
		colors := make([]asciigraph.AnsiColor, len(cols))
		for i, c := range cols {
			series[i] = result.Series(c)
			labels[i] = columnName(names, c)
			colors[i] = seriesColors[i%len(seriesColors)]
		}
		caption := fmt.Sprintf("trajectory, t in [%g, %g]", result.Times[0], result.Times[len(result.Times)-1])
		graphOpts := []asciigraph.Option{asciigraph.Height(opts.Height), asciigraph.Width(opts.Width)}
		if opts.Color {
			graphOpts = append(graphOpts, asciigraph.SeriesColors(colors...), asciigraph.SeriesLegends(labels...))
		} else {
			caption = fmt.Sprintf("%s, %s", strings.Join(labels, " "), caption)
		}
		graphOpts = append(graphOpts, asciigraph.Caption(caption))
		return asciigraph.PlotMany(series, graphOpts...)
	}

	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteString("\n\n")
		}
		caption := fmt.Sprintf("%s vs time", columnName(names, c))
		b.WriteString(PlotSeries(result.Series(c), caption, opts))
	}
	return b.String()
}

func columnName(names []string, col int) string {
	if col < len(names) && names[col] != "" {
		return names[col]
	}
	return fmt.Sprintf("x%d", col)
}

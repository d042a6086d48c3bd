// Package viz renders simulation results in the terminal.
//
//   - [PlotSeries] and [PlotTrajectory]: asciigraph line charts of the
//     recorded compartments
//   - [Summary]: a lipgloss panel with termination, event counts, final
//     state and metrics
//   - [Sparkline] and [Bar]: single-line gauges shared with the replay TUI
package viz

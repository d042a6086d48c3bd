package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/ctmc"
	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/export"
	"github.com/san-kum/episim/internal/store"
	"github.com/san-kum/episim/internal/tui"
	"github.com/san-kum/episim/internal/viz"
)

var (
	logLevel    string
	configFile  string
	preset      string
	seed        int64
	tmin        float64
	tmax        float64
	maxIter     int
	reportEvery float64
	overrides   []string
	format      string
	showPlot    bool
	metricSets  []string
	columns     []string
	overlay     bool
	plotHeight  int
	plotWidth   int
	svgOut      bool
	phase       []string
	everyEvent  bool
	maxFrames   int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "episim",
		Short:        "exact stochastic simulation of compartmental epidemic models",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one trajectory and print it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&format, "format", "table", "output format (table, summary, json, csv, prom)")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the compartments after the run")
	runCmd.Flags().StringSliceVar(&metricSets, "metrics", []string{"default"}, "metric sets to collect")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "run one trajectory and plot it",
		Args:  cobra.NoArgs,
		RunE:  plotSimulation,
	}
	addModelFlags(plotCmd)
	plotCmd.Flags().StringSliceVar(&columns, "columns", nil, "compartments to plot (default: all but the counter)")
	plotCmd.Flags().BoolVar(&overlay, "overlay", false, "draw all compartments on one chart")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "chart height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "chart width")
	plotCmd.Flags().BoolVar(&svgOut, "svg", false, "write an svg document to stdout instead")
	plotCmd.Flags().StringSliceVar(&phase, "phase", nil, "with --svg, plot two compartments against each other, e.g. S,I")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "run one trajectory and step through it interactively",
		Args:  cobra.NoArgs,
		RunE:  replaySimulation,
	}
	addModelFlags(replayCmd)
	replayCmd.Flags().BoolVar(&everyEvent, "events", false, "replay every event instead of the reporting times")
	replayCmd.Flags().IntVar(&maxFrames, "max-frames", 100000, "frames kept with --events (0 for no limit)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOMPARTMENTS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(cfg.ColumnNames(), ","), cfg.Description)
			}
			return w.Flush()
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "check a model file without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  validateModel,
	}

	initCmd := &cobra.Command{
		Use:   "init [preset] [file]",
		Short: "write a preset as a model file to edit",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  initModel,
	}

	rootCmd.AddCommand(runCmd, plotCmd, replayCmd, presetsCmd, validateCmd, initCmd)
	return rootCmd
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "model file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "built-in model (see presets)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&tmin, "tmin", config.DefaultTMin, "start time")
	cmd.Flags().Float64Var(&tmax, "tmax", config.DefaultTMax, "time horizon")
	cmd.Flags().IntVar(&maxIter, "maxiter", config.DefaultMaxIter, "iteration limit")
	cmd.Flags().Float64Var(&reportEvery, "report-every", config.DefaultReportEvery, "reporting grid spacing")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter or initial value, name=value")
}

// loadConfig resolves the model: file, then preset, then the default. Flags
// override the file only when given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "" && preset != "":
		return nil, fmt.Errorf("--config and --preset are mutually exclusive")
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("tmin") {
		cfg.Run.TMin = tmin
	}
	if flags.Changed("tmax") {
		cfg.Run.TMax = tmax
	}
	if flags.Changed("tmin") || flags.Changed("tmax") || flags.Changed("report-every") {
		cfg.Run.ReportTimes = nil
		if flags.Changed("report-every") || cfg.Run.ReportEvery == 0 {
			cfg.Run.ReportEvery = reportEvery
		}
	}
	if flags.Changed("maxiter") {
		cfg.Run.MaxIter = maxIter
	}
	if cfg.Run.Seed != 0 && !flags.Changed("seed") {
		seed = cfg.Run.Seed
	}

	for _, kv := range overrides {
		if err := applyOverride(cfg, kv); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func applyOverride(cfg *config.Config, kv string) error {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("--set %q: expected name=value", kv)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("--set %q: %w", kv, err)
	}
	name = strings.TrimSpace(name)
	if err := cfg.SetParam(name, value); err == nil {
		return nil
	}
	if err := cfg.SetInitial(name, value); err != nil {
		return fmt.Errorf("--set %q: no parameter or compartment named %s", kv, name)
	}
	return nil
}

func runExperiment(cmd *cobra.Command, cfg *config.Config, sets []string, observers ...ctmc.Observer) (*experiment.Experiment, *ctmc.Result, error) {
	exp := experiment.New(cfg, seed)
	if err := exp.Build(); err != nil {
		return nil, nil, err
	}

	ms, err := experiment.NewRegistry().GetMetrics(sets, exp.Model())
	if err != nil {
		return nil, nil, err
	}
	if err := exp.Setup(ms, observers...); err != nil {
		return nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logrus.Infof("running %s with seed %d", cfg.Name, exp.Seed())
	result, err := exp.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logrus.Warnf("interrupted at t=%.4g after %d events", result.FinalTime, result.Events)
		return exp, result, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return exp, result, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp, result, err := runExperiment(cmd, cfg, metricSets)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	model := exp.Model()
	switch format {
	case "table":
		fmt.Fprint(out, viz.Table(model, result))
		fmt.Fprintf(out, "\n%s after %d events (t=%.4f)\n", result.Termination, result.Events, result.FinalTime)
	case "summary":
		fmt.Fprintln(out, viz.Summary(cfg.Name, model, result))
	case "json", "csv", "prom":
		if err := store.Export(out, format, store.NewExportData(cfg.Name, exp.Seed(), model, result)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if showPlot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotTrajectory(result, model.Compartments, viz.DefaultPlotOptions()))
	}
	return nil
}

func plotSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp, result, err := runExperiment(cmd, cfg, []string{"none"})
	if err != nil {
		return err
	}
	model := exp.Model()

	opts := viz.DefaultPlotOptions()
	opts.Height, opts.Width, opts.Overlay = plotHeight, plotWidth, overlay
	if !cmd.Flags().Changed("width") {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
			opts.Width = w - 10
		}
	}
	for _, name := range columns {
		idx := indexOf(model.Compartments, name)
		if idx < 0 {
			return fmt.Errorf("unknown compartment: %s (available: %v)", name, model.Compartments)
		}
		opts.Columns = append(opts.Columns, idx)
	}

	out := cmd.OutOrStdout()
	if svgOut {
		return writeSVG(out, cfg.Name, model, result, opts.Columns)
	}
	fmt.Fprintf(out, "%s, seed %d: %s\n\n", cfg.Name, seed, result.Termination)
	fmt.Fprintln(out, viz.PlotTrajectory(result, model.Compartments, opts))
	return nil
}

func writeSVG(w io.Writer, title string, model ctmc.Model, result *ctmc.Result, cols []int) error {
	width, height := plotWidth*10, plotHeight*30

	if len(phase) > 0 {
		if len(phase) != 2 {
			return fmt.Errorf("--phase needs two compartments, got %v", phase)
		}
		x, y := indexOf(model.Compartments, phase[0]), indexOf(model.Compartments, phase[1])
		if x < 0 || y < 0 {
			return fmt.Errorf("unknown compartment in --phase %v (available: %v)", phase, model.Compartments)
		}
		series := []export.Series{export.Phase(result, model.Compartments, x, y)}
		return export.WriteSVG(w, series, width, height, title)
	}

	if len(cols) == 0 {
		for i := 0; i < model.StateDim()-1; i++ {
			cols = append(cols, i)
		}
	}
	return export.WriteSVG(w, export.Trajectory(result, model.Compartments, cols), width, height, title)
}

func replaySimulation(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("replay needs an interactive terminal")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var rec *tui.Recorder
	var observers []ctmc.Observer
	if everyEvent {
		_, x0, run, err := cfg.Build()
		if err != nil {
			return err
		}
		rec = tui.NewRecorder(run.TMin, x0, maxFrames)
		observers = append(observers, rec)
	}

	exp, result, err := runExperiment(cmd, cfg, []string{"none"}, observers...)
	if err != nil {
		return err
	}

	frames := tui.FromResult(result)
	if rec != nil {
		frames = rec.Frames()
		if rec.Dropped > 0 {
			logrus.Warnf("replay keeps the first %d of %d events", len(frames)-1, len(frames)-1+rec.Dropped)
		}
	}

	model := exp.Model()
	return tui.Run(fmt.Sprintf("%s (seed %d)", cfg.Name, seed), frames, model.Compartments, model.EventNames)
}

func validateModel(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	model, x0, run, err := cfg.Build()
	if err != nil {
		return err
	}
	if _, err := ctmc.New(model); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok\n", args[0])
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "compartments\t%s\n", strings.Join(model.Compartments, ", "))
	fmt.Fprintf(w, "initial\t%v\n", []float64(x0))
	fmt.Fprintf(w, "events\t%d\n", model.NumEvents())
	fmt.Fprintf(w, "reporting times\t%d in [%g, %g]\n", len(run.ReportTimes), run.ReportTimes[0], run.ReportTimes[len(run.ReportTimes)-1])
	return w.Flush()
}

func initModel(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if len(args) == 2 {
		if err := config.Save(args[1], cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
		return nil
	}
	return writeYAML(cmd.OutOrStdout(), cfg)
}

func writeYAML(w io.Writer, cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episim/internal/ctmc"
)

const (
	DefaultTMin        = 0.0
	DefaultTMax        = 100.0
	DefaultMaxIter     = 1_000_000
	DefaultReportEvery = 1.0
	DefaultCounter     = "C"
)

// Config is a model file: the compartments, parameters and events of a
// chain plus the run settings.
type Config struct {
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description,omitempty"`
	Compartments []CompartmentConfig `yaml:"compartments"`
	Counter      CompartmentConfig   `yaml:"counter"`
	Parameters   []ParameterConfig   `yaml:"parameters"`
	Events       []EventConfig       `yaml:"events"`
	Run          RunConfig           `yaml:"run"`
}

type CompartmentConfig struct {
	Name    string  `yaml:"name"`
	Initial float64 `yaml:"initial"`
}

type ParameterConfig struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// EventConfig is one transition. Delta maps compartment (or counter) names
// to the change the event applies; unnamed columns are unchanged.
type EventConfig struct {
	Name  string             `yaml:"name"`
	Rate  string             `yaml:"rate"`
	Delta map[string]float64 `yaml:"delta"`
}

type RunConfig struct {
	TMin        float64   `yaml:"tmin"`
	TMax        float64   `yaml:"tmax"`
	MaxIter     int       `yaml:"maxiter"`
	Seed        int64     `yaml:"seed"`
	ReportTimes []float64 `yaml:"report_times,omitempty"`
	ReportEvery float64   `yaml:"report_every,omitempty"`
}

func DefaultRun() RunConfig {
	return RunConfig{
		TMin:        DefaultTMin,
		TMax:        DefaultTMax,
		MaxIter:     DefaultMaxIter,
		ReportEvery: DefaultReportEvery,
	}
}

// DefaultConfig is the SIR preset.
func DefaultConfig() *Config {
	return GetPreset("sir")
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a model file. Run settings left out keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{Run: DefaultRun()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CounterName is the name of the trailing cumulative column.
func (c *Config) CounterName() string {
	if c.Counter.Name == "" {
		return DefaultCounter
	}
	return c.Counter.Name
}

// ColumnNames lists the state columns in order, counter last.
func (c *Config) ColumnNames() []string {
	names := make([]string, 0, len(c.Compartments)+1)
	for _, comp := range c.Compartments {
		names = append(names, comp.Name)
	}
	return append(names, c.CounterName())
}

// ReportTimesOrGrid returns the explicit reporting times, or a grid from tmin to
// tmax spaced report_every apart.
func (r RunConfig) ReportTimesOrGrid() ([]float64, error) {
	if len(r.ReportTimes) > 0 {
		return append([]float64(nil), r.ReportTimes...), nil
	}
	step := r.ReportEvery
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("config: report_every must be positive, got %v", step)
	}
	if !(r.TMax > r.TMin) {
		return nil, fmt.Errorf("config: tmax %v must exceed tmin %v", r.TMax, r.TMin)
	}

	n := int(math.Floor((r.TMax-r.TMin)/step + 1e-9))
	times := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		times = append(times, r.TMin+float64(i)*step)
	}
	return times, nil
}

// Build converts the file into the simulator's model, initial state and run
// configuration.
func (c *Config) Build() (ctmc.Model, ctmc.State, ctmc.RunConfig, error) {
	var (
		model ctmc.Model
		x0    ctmc.State
		run   ctmc.RunConfig
	)

	if len(c.Compartments) == 0 {
		return model, nil, run, fmt.Errorf("config: no compartments")
	}
	if len(c.Events) == 0 {
		return model, nil, run, fmt.Errorf("config: no events")
	}

	columns := c.ColumnNames()
	index := make(map[string]int, len(columns)+len(c.Parameters))
	for i, name := range columns {
		if name == "" {
			return model, nil, run, fmt.Errorf("config: compartment %d has no name", i)
		}
		if _, dup := index[name]; dup {
			return model, nil, run, fmt.Errorf("config: duplicate name %q", name)
		}
		index[name] = i
	}

	symbols := append([]string(nil), columns[:len(columns)-1]...)
	params := make([]float64, 0, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Name == "" {
			return model, nil, run, fmt.Errorf("config: parameter with no name")
		}
		if _, dup := index[p.Name]; dup {
			return model, nil, run, fmt.Errorf("config: duplicate name %q", p.Name)
		}
		index[p.Name] = -1
		symbols = append(symbols, p.Name)
		params = append(params, p.Value)
	}

	rates := make([]string, len(c.Events))
	names := make([]string, len(c.Events))
	transitions := make([][]float64, len(c.Events))
	for i, ev := range c.Events {
		names[i] = ev.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("event%d", i)
		}
		rates[i] = ev.Rate

		row := make([]float64, len(columns))
		for comp, d := range ev.Delta {
			col, ok := index[comp]
			if !ok || col < 0 {
				return model, nil, run, fmt.Errorf("config: event %q changes unknown compartment %q", names[i], comp)
			}
			row[col] = d
		}
		transitions[i] = row
	}

	x0 = make(ctmc.State, 0, len(columns))
	for _, comp := range c.Compartments {
		x0 = append(x0, comp.Initial)
	}
	x0 = append(x0, c.Counter.Initial)

	times, err := c.Run.ReportTimesOrGrid()
	if err != nil {
		return model, nil, run, err
	}

	model = ctmc.Model{
		Rates:        rates,
		Transitions:  transitions,
		Symbols:      symbols,
		Params:       params,
		EventNames:   names,
		Compartments: columns,
	}
	run = ctmc.RunConfig{
		ReportTimes: times,
		TMin:        c.Run.TMin,
		TMax:        c.Run.TMax,
		MaxIter:     c.Run.MaxIter,
	}
	return model, x0, run, nil
}

// SetParam overrides the value of a named parameter.
func (c *Config) SetParam(name string, value float64) error {
	for i := range c.Parameters {
		if c.Parameters[i].Name == name {
			c.Parameters[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("config: unknown parameter %q", name)
}

// SetInitial overrides the initial value of a compartment or the counter.
func (c *Config) SetInitial(name string, value float64) error {
	for i := range c.Compartments {
		if c.Compartments[i].Name == name {
			c.Compartments[i].Initial = value
			return nil
		}
	}
	if name == c.CounterName() {
		c.Counter.Initial = value
		return nil
	}
	return fmt.Errorf("config: unknown compartment %q", name)
}

package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/ctmc"
)

// Experiment binds a model file to a simulator and a seeded source for one
// run.
type Experiment struct {
	cfg       *config.Config
	seed      int64
	simulator *ctmc.Simulator
	model     ctmc.Model
	x0        ctmc.State
	run       ctmc.RunConfig
}

func New(cfg *config.Config, seed int64) *Experiment {
	return &Experiment{cfg: cfg, seed: seed}
}

// Build compiles the model file into a simulator. Setup calls it when it has
// not run yet.
func (e *Experiment) Build() error {
	model, x0, run, err := e.cfg.Build()
	if err != nil {
		return err
	}

	s, err := ctmc.New(model)
	if err != nil {
		return err
	}

	e.simulator = s
	e.model = model
	e.x0 = x0
	e.run = run
	return nil
}

// Setup attaches metrics and observers to the compiled simulator.
func (e *Experiment) Setup(metrics []ctmc.Metric, observers ...ctmc.Observer) error {
	if e.simulator == nil {
		if err := e.Build(); err != nil {
			return err
		}
	}
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	for _, o := range observers {
		e.simulator.AddObserver(o)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*ctmc.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.RunContext(ctx, ctmc.NewSource(e.seed), e.x0, e.run)
}

func (e *Experiment) Seed() int64               { return e.seed }
func (e *Experiment) Model() ctmc.Model         { return e.model }
func (e *Experiment) InitialState() ctmc.State  { return e.x0.Clone() }
func (e *Experiment) RunConfig() ctmc.RunConfig { return e.run }

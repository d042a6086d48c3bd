// Package ctmc simulates exact trajectories of continuous-time Markov chains
// for compartmental epidemic models.
//
// A model is a list of rate expressions, one per event type, and a transition
// matrix whose rows are the state changes those events cause:
//
//   - [Model]: rate expressions, transitions, symbol binding, parameters
//   - [RunConfig]: reporting times, time window and iteration bound
//   - [State]: compartment counts; the last entry is a cumulative counter
//     that transitions update but rates never see
//   - [Simulator]: the compiled model and the jump-process loop
//
// Each iteration evaluates the rates, draws the waiting time and the event
// (Gillespie's direct method), applies the event, and records the state held
// just before the event whenever simulated time passes the next reporting
// time. Reporting censors the exact process; it never resamples it.
//
// # Example
//
//	sim, err := ctmc.New(ctmc.Model{
//		Rates:       []string{"beta*S*I/(S+I)", "gamma*I"},
//		Transitions: [][]float64{{-1, 1, 1}, {1, -1, 0}},
//		Symbols:     []string{"S", "I", "beta", "gamma"},
//		Params:      []float64{0.4, 0.1},
//	})
//	res, err := sim.Run(ctmc.NewSource(42), ctmc.State{99, 1, 0}, cfg)
//
// # Thread Safety
//
// A Simulator without metrics or observers is immutable once built and may
// be shared between goroutines. Every Run needs its own [Source];
// *math/rand.Rand is not safe for concurrent use.
package ctmc

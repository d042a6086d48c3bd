package config

import "sort"

var presets = map[string]func() *Config{
	"birth": func() *Config {
		return &Config{
			Name:         "birth",
			Description:  "pure birth (Yule) process",
			Compartments: []CompartmentConfig{{Name: "x", Initial: 1}},
			Counter:      CompartmentConfig{Name: "C"},
			Parameters:   []ParameterConfig{{Name: "lambda", Value: 1}},
			Events: []EventConfig{
				{Name: "birth", Rate: "lambda*x", Delta: map[string]float64{"x": 1, "C": 1}},
			},
			Run: RunConfig{TMin: 0, TMax: 3, MaxIter: 10000, ReportTimes: []float64{0, 1, 2, 3}},
		}
	},
	"sis": func() *Config {
		return &Config{
			Name:         "sis",
			Description:  "susceptible-infected-susceptible",
			Compartments: []CompartmentConfig{{Name: "S", Initial: 95}, {Name: "I", Initial: 5}},
			Counter:      CompartmentConfig{Name: "C", Initial: 5},
			Parameters:   []ParameterConfig{{Name: "beta", Value: 0.5}, {Name: "gamma", Value: 0.2}},
			Events: []EventConfig{
				{Name: "infection", Rate: "beta*S*I/(S+I)", Delta: map[string]float64{"S": -1, "I": 1, "C": 1}},
				{Name: "recovery", Rate: "gamma*I", Delta: map[string]float64{"I": -1, "S": 1}},
			},
			Run: RunConfig{TMin: 0, TMax: 100, MaxIter: DefaultMaxIter, ReportEvery: 1},
		}
	},
	"sir": func() *Config {
		return &Config{
			Name:        "sir",
			Description: "susceptible-infected-recovered",
			Compartments: []CompartmentConfig{
				{Name: "S", Initial: 990}, {Name: "I", Initial: 10}, {Name: "R", Initial: 0},
			},
			Counter:    CompartmentConfig{Name: "C", Initial: 10},
			Parameters: []ParameterConfig{{Name: "beta", Value: 0.4}, {Name: "gamma", Value: 0.1}},
			Events: []EventConfig{
				{Name: "infection", Rate: "beta*S*I/(S+I+R)", Delta: map[string]float64{"S": -1, "I": 1, "C": 1}},
				{Name: "recovery", Rate: "gamma*I", Delta: map[string]float64{"I": -1, "R": 1}},
			},
			Run: RunConfig{TMin: 0, TMax: 160, MaxIter: DefaultMaxIter, ReportEvery: 1},
		}
	},
	"seir": func() *Config {
		return &Config{
			Name:        "seir",
			Description: "susceptible-exposed-infected-recovered",
			Compartments: []CompartmentConfig{
				{Name: "S", Initial: 995}, {Name: "E", Initial: 0}, {Name: "I", Initial: 5}, {Name: "R", Initial: 0},
			},
			Counter: CompartmentConfig{Name: "C", Initial: 5},
			Parameters: []ParameterConfig{
				{Name: "beta", Value: 0.5}, {Name: "sigma", Value: 0.2}, {Name: "gamma", Value: 0.1},
			},
			Events: []EventConfig{
				{Name: "exposure", Rate: "beta*S*I/(S+E+I+R)", Delta: map[string]float64{"S": -1, "E": 1}},
				{Name: "onset", Rate: "sigma*E", Delta: map[string]float64{"E": -1, "I": 1, "C": 1}},
				{Name: "recovery", Rate: "gamma*I", Delta: map[string]float64{"I": -1, "R": 1}},
			},
			Run: RunConfig{TMin: 0, TMax: 200, MaxIter: DefaultMaxIter, ReportEvery: 1},
		}
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

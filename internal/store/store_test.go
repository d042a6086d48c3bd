package store

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/episim/internal/ctmc"
)

func sampleRun() (ctmc.Model, *ctmc.Result) {
	model := ctmc.Model{
		Rates:        []string{"beta*S", "gamma*I"},
		Transitions:  [][]float64{{-1, 1, 1}, {0, -1, 0}},
		Symbols:      []string{"S", "I", "beta", "gamma"},
		Params:       []float64{1, 1},
		EventNames:   []string{"infection", "recovery"},
		Compartments: []string{"S", "I", "C"},
	}
	result := &ctmc.Result{
		Trajectory:  []ctmc.State{{10, 1, 1}, {9, 2, 2}, {9, 1, 2}},
		Times:       []float64{0, 1, 2},
		Termination: ctmc.ReportsExhausted,
		Events:      3,
		EventCounts: []int{1, 2},
		FinalTime:   2.5,
		FinalState:  ctmc.State{9, 0, 2},
		Metrics:     map[string]float64{"peak_I": 2},
	}
	return model, result
}

func TestExportJSON(t *testing.T) {
	model, result := sampleRun()
	data := NewExportData("sis", 42, model, result)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, data))

	var decoded ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "sis", decoded.Model)
	assert.Equal(t, int64(42), decoded.Seed)
	assert.Equal(t, []string{"S", "I", "C"}, decoded.Columns)
	assert.Equal(t, [][]float64{{10, 1, 1}, {9, 2, 2}, {9, 1, 2}}, decoded.States)
	assert.Equal(t, map[string]int{"infection": 1, "recovery": 2}, decoded.EventCounts)
	assert.Equal(t, ctmc.ReportsExhausted.String(), decoded.Termination)
	assert.Equal(t, 2.0, decoded.Metrics["peak_I"])
	assert.Equal(t, []float64{9, 0, 2}, decoded.FinalState)
}

func TestExportCSV(t *testing.T) {
	model, result := sampleRun()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "csv", NewExportData("sis", 1, model, result)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"time", "S", "I", "C"}, records[0])
	assert.Equal(t, []string{"0.000000", "10", "1", "1"}, records[1])
	assert.Equal(t, []string{"2.000000", "9", "1", "2"}, records[3])
}

func TestColumnNamesFallback(t *testing.T) {
	model, result := sampleRun()
	model.Compartments = nil
	model.EventNames = nil

	data := NewExportData("", 0, model, result)
	assert.Equal(t, []string{"x0", "x1", "x2"}, data.Columns)
	assert.Nil(t, data.EventCounts)
}

func TestExportUnknownFormat(t *testing.T) {
	model, result := sampleRun()
	err := Export(&bytes.Buffer{}, "xml", NewExportData("", 0, model, result))
	assert.Error(t, err)
}

func TestExportProm(t *testing.T) {
	model, result := sampleRun()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "prom", NewExportData("sis", 1, model, result)))
	out := buf.String()

	for _, line := range []string{
		"# TYPE episim_events_total counter",
		`episim_events_total{event="recovery",model="sis"} 2`,
		`episim_final_state{compartment="S",model="sis"} 9`,
		`episim_final_state{compartment="I",model="sis"} 0`,
		`episim_final_state{compartment="C",model="sis"} 2`,
		`episim_metric{model="sis",name="peak_I"} 2`,
		`episim_final_time{model="sis"} 2.5`,
	} {
		assert.True(t, strings.Contains(out, line), "missing %q in\n%s", line, out)
	}
}

func TestExportPromAbsorbedRun(t *testing.T) {
	model := ctmc.Model{
		Rates:        []string{"g*I"},
		Transitions:  [][]float64{{-1, 1}},
		Symbols:      []string{"I", "g"},
		Params:       []float64{1},
		EventNames:   []string{"recovery"},
		Compartments: []string{"I", "C"},
	}
	sim, err := ctmc.New(model)
	require.NoError(t, err)

	result, err := sim.Run(ctmc.NewSource(3), ctmc.State{5, 0}, ctmc.RunConfig{
		ReportTimes: []float64{0, 1000},
		TMin:        0,
		TMax:        1000,
		MaxIter:     100,
	})
	require.NoError(t, err)
	require.Equal(t, ctmc.Absorbed, result.Termination)
	require.Equal(t, []ctmc.State{{5, 0}}, result.Trajectory)

	var buf bytes.Buffer
	require.NoError(t, ExportProm(&buf, NewExportData("decay", 3, model, result)))
	out := buf.String()

	assert.Contains(t, out, `episim_final_state{compartment="I",model="decay"} 0`)
	assert.Contains(t, out, `episim_final_state{compartment="C",model="decay"} 5`)
	assert.Contains(t, out, `episim_events_total{event="recovery",model="decay"} 5`)
}

package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/episim/internal/ctmc"
)

type ExportData struct {
	Model       string             `json:"model"`
	Seed        int64              `json:"seed"`
	Columns     []string           `json:"columns"`
	Termination string             `json:"termination"`
	Events      int                `json:"events"`
	FinalTime   float64            `json:"final_time"`
	FinalState  []float64          `json:"final_state"`
	Times       []float64          `json:"times"`
	States      [][]float64        `json:"states"`
	Skipped     []float64          `json:"skipped,omitempty"`
	EventCounts map[string]int     `json:"event_counts,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewExportData flattens a run for serialization. Columns default to x0..xn
// when the model carries no names.
func NewExportData(model string, seed int64, m ctmc.Model, result *ctmc.Result) ExportData {
	data := ExportData{
		Model:       model,
		Seed:        seed,
		Columns:     columnNames(m, result),
		Termination: result.Termination.String(),
		Events:      result.Events,
		FinalTime:   result.FinalTime,
		FinalState:  result.FinalState,
		Times:       result.Times,
		States:      make([][]float64, len(result.Trajectory)),
		Skipped:     result.Skipped,
		Metrics:     result.Metrics,
	}
	for i, s := range result.Trajectory {
		data.States[i] = s
	}
	if len(m.EventNames) == len(result.EventCounts) && len(m.EventNames) > 0 {
		data.EventCounts = make(map[string]int, len(m.EventNames))
		for i, name := range m.EventNames {
			data.EventCounts[name] = result.EventCounts[i]
		}
	}
	return data
}

func columnNames(m ctmc.Model, result *ctmc.Result) []string {
	if len(m.Compartments) > 0 {
		return m.Compartments
	}
	n := m.StateDim()
	if n == 0 && len(result.Trajectory) > 0 {
		n = len(result.Trajectory[0])
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	return names
}

func ExportJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes one row per recorded state: the reporting time followed
// by the state columns.
func ExportCSV(w io.Writer, data ExportData) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, data.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, state := range data.States {
		row := make([]string, 0, len(state)+1)
		row = append(row, strconv.FormatFloat(data.Times[i], 'f', 6, 64))
		for _, val := range state {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Export dispatches on format: "json", "csv" or "prom".
func Export(w io.Writer, format string, data ExportData) error {
	switch format {
	case "json":
		return ExportJSON(w, data)
	case "csv":
		return ExportCSV(w, data)
	case "prom":
		return ExportProm(w, data)
	}
	return fmt.Errorf("store: unknown format %q", format)
}

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/episim/internal/store"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.ErrorLevel)
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"birth", "sis", "sir", "seir", "S,E,I,R,C"} {
		assert.Contains(t, out, name)
	}
}

func TestRunCSV(t *testing.T) {
	out, err := execute(t, "run", "--preset", "birth", "--seed", "7", "--format", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "x", "C"}, records[0])
	assert.Equal(t, []string{"0.000000", "1", "0"}, records[1])
}

func TestRunJSONIsReproducible(t *testing.T) {
	args := []string{"run", "--preset", "sis", "--seed", "11", "--tmax", "20", "--format", "json"}

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var data store.ExportData
	require.NoError(t, json.Unmarshal([]byte(first), &data))
	assert.Equal(t, int64(11), data.Seed)
	assert.Equal(t, 0.0, data.Times[0])
	assert.Len(t, data.States, len(data.Times))
	assert.Contains(t, data.Metrics, "peak_I")
}

func TestRunOverrides(t *testing.T) {
	out, err := execute(t, "run", "--preset", "sir", "--seed", "3", "--set", "I=0", "--set", "C=0", "--format", "json")
	require.NoError(t, err)

	var data store.ExportData
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, []float64{990, 0, 0, 0}, data.States[0])
	assert.Equal(t, 0, data.Events, "no infected means absorbed at once")

	_, err = execute(t, "run", "--preset", "sir", "--set", "delta=1")
	assert.Error(t, err)
	_, err = execute(t, "run", "--preset", "sir", "--set", "beta")
	assert.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "run", "--preset", "nope")
	assert.Error(t, err)

	_, err = execute(t, "run", "--preset", "sir", "--format", "xml", "--tmax", "1")
	assert.Error(t, err)

	_, err = execute(t, "run", "--preset", "sir", "--metrics", "bogus")
	assert.Error(t, err)

	_, err = execute(t, "run", "--preset", "sir", "--config", "x.yaml")
	assert.Error(t, err)
}

func TestInitValidateRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seir.yaml")

	out, err := execute(t, "init", "seir", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	out, err = execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "S, E, I, R, C")

	out, err = execute(t, "plot", "--config", path, "--seed", "5", "--tmax", "30", "--columns", "I")
	require.NoError(t, err)
	assert.Contains(t, out, "I vs time")

	_, err = execute(t, "plot", "--config", path, "--columns", "Q")
	assert.Error(t, err)
}

func TestPlotSVG(t *testing.T) {
	out, err := execute(t, "plot", "--preset", "sir", "--seed", "2", "--tmax", "40", "--svg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 3, strings.Count(out, "<path"))

	out, err = execute(t, "plot", "--preset", "sir", "--seed", "2", "--tmax", "40", "--svg", "--phase", "S,I")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "<path"))

	_, err = execute(t, "plot", "--preset", "sir", "--svg", "--phase", "S")
	assert.Error(t, err)
}

func TestInitStdout(t *testing.T) {
	out, err := execute(t, "init", "sis")
	require.NoError(t, err)
	assert.Contains(t, out, "name: sis")
	assert.Contains(t, out, "rate: gamma*I")
}

func TestValidateRejectsBadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad
compartments:
  - {name: S, initial: 10}
events:
  - {name: decay, rate: k*S, delta: {S: -1}}
`), 0644))

	_, err := execute(t, "validate", path)
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"presets", "--log-level", "loud"})
	assert.Error(t, root.Execute())
}

func TestReplayNeedsTerminal(t *testing.T) {
	_, err := execute(t, "replay", "--preset", "birth", "--seed", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

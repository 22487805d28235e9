package tune

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/internal/apu"
	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/forest"
)

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	rows := make([]apu.Row, 0, 24)
	for i := range 24 {
		e := float64(i%6) * 0.1
		var planes apu.RimPlanes
		for k := range planes {
			planes[k] = float64(k) + e
		}
		rows = append(rows, apu.Row{
			ID:       i + 1,
			Planes:   planes,
			Measured: dims.New(5.8+e, 4.0, 2.0),
			Box:      "B1",
			Error:    dims.New(e, -e, 0),
		})
	}
	path := filepath.Join(dir, "APU_train.csv")
	require.NoError(t, apu.AppendFile(path, rows))
	return path
}

func smallGrid(dest string) []string {
	return []string{"--estimators", "3", "--max-depth", "0,2", "--min-split", "2", "--folds", "2", "--concurrency", "1", "--dest", dest}
}

func TestTuneCommand(t *testing.T) {
	dir := t.TempDir()
	dataset := writeDataset(t, dir)
	dest := filepath.Join(dir, "forest.yaml")

	mock := &application.Mock{
		SettingsFunc: func() application.Settings { return application.Settings{DatasetPath: dataset} },
	}
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(smallGrid(dest))
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Best hyperparameters: estimators=3")
	assert.Contains(t, out.String(), "Mean Squared Error with best hyperparameters:")
	assert.Contains(t, out.String(), "a1 = ")
	assert.Contains(t, out.String(), "d2 = ")

	model, err := forest.LoadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, apu.ParamNames, model.Targets)
	assert.Equal(t, apu.ErrorNames, model.Features)
	assert.Equal(t, 3, model.Inputs())
	assert.Equal(t, 8, model.Outputs())
}

func TestTuneCommandJSON(t *testing.T) {
	dir := t.TempDir()
	dataset := writeDataset(t, dir)
	dest := filepath.Join(dir, "forest.yaml")

	mock := &application.Mock{OutputFormatFunc: func() string { return "json" }}
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{dataset}, smallGrid(dest)...))
	require.NoError(t, cmd.Execute())

	var res Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 24, res.Rows)
	assert.Len(t, res.Results, 2)
	assert.Len(t, res.Prediction, 8)
	assert.GreaterOrEqual(t, res.TestMSE, 0.0)
}

func TestTuneCommandMissingDataset(t *testing.T) {
	dir := t.TempDir()
	cmd := NewCommand(&application.Mock{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(append([]string{filepath.Join(dir, "missing.csv")}, smallGrid(filepath.Join(dir, "f.yaml"))...))
	assert.Error(t, cmd.Execute())
}

package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/internal/apu"
	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/dims"
)

const sorterLog = `08:00:00 VMS Result before correction: ID: 1, L: 1473, W: 1041, H: 508
08:00:01 VMS Result before correction: ID: 2, L: 1524, W: 1041, H: 508
08:00:02 VMS Result after correction: ID: 1, L: 1473, W: 1041, H: 508
`

func setup(t *testing.T) (string, *application.Mock) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "sorter.log")
	require.NoError(t, os.WriteFile(logPath, []byte(sorterLog), 0o644))

	cat, err := catalogs.FromBoxes([]catalogs.BoxType{
		catalogs.NewBoxType("B1", dims.New(5.8, 4.0, 2.0)),
		catalogs.NewBoxType("B2", dims.New(12, 10, 8)),
	})
	require.NoError(t, err)

	mock := &application.Mock{
		CatalogFunc: func() (*catalogs.Catalog, error) { return cat, nil },
		SettingsFunc: func() application.Settings {
			return application.Settings{DatasetPath: filepath.Join(dir, "APU_train.csv")}
		},
	}
	return logPath, mock
}

func TestDatasetCommand(t *testing.T) {
	logPath, mock := setup(t)
	dest := mock.Settings().DatasetPath

	for range 2 {
		cmd := NewCommand(mock)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{logPath})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Appended 2 of 2 record(s)")
	}

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "error_Length"))

	x, y, err := apu.ReadFile(dest)
	require.NoError(t, err)
	require.Len(t, x, 4)
	assert.InDelta(t, 0, x[0][0], 1e-9)
	assert.InDelta(t, 0.2, x[1][0], 1e-9)
	assert.InDelta(t, apu.DefaultRimPlanes()[0], y[0][0], 1e-9)
}

func TestDatasetCommandJSON(t *testing.T) {
	logPath, mock := setup(t)
	mock.OutputFormatFunc = func() string { return "json" }

	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{logPath})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"rows": 2`)
	assert.Contains(t, out.String(), `"skipped": 0`)
}

func TestDatasetCommandEmptyLog(t *testing.T) {
	_, mock := setup(t)
	empty := filepath.Join(t.TempDir(), "empty.log")
	require.NoError(t, os.WriteFile(empty, []byte("nothing here\n"), 0o644))

	cmd := NewCommand(mock)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{empty})
	assert.Error(t, cmd.Execute())
}

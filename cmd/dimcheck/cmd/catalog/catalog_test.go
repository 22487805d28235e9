package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

func testMock(t *testing.T) *application.Mock {
	t.Helper()
	cat, err := catalogs.FromBoxes([]catalogs.BoxType{
		catalogs.NewBoxType("B1", dims.New(5.8, 4.0, 2.0)),
		catalogs.NewBoxType("B2", dims.New(12, 10, 8)),
	})
	require.NoError(t, err)
	return &application.Mock{
		CatalogFunc: func() (*catalogs.Catalog, error) { return cat, nil },
		PrefsFunc:   func() (*prefs.Prefs, error) { return &prefs.Prefs{SelectedBoxes: []string{"B2"}}, nil },
	}
}

func execute(t *testing.T, mock *application.Mock, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, testMock(t), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "B1")
	assert.Contains(t, out, "12.0")
	assert.Contains(t, out, "2 box type(s), 1 selected")
}

func TestListCommandJSON(t *testing.T) {
	mock := testMock(t)
	mock.OutputFormatFunc = func() string { return "json" }
	out, err := execute(t, mock, "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "B2"`)
}

func TestShowCommand(t *testing.T) {
	out, err := execute(t, testMock(t), "show", "B2")
	require.NoError(t, err)
	assert.Contains(t, out, "10.0")

	_, err = execute(t, testMock(t), "show", "B9")
	assert.True(t, errors.IsNotFound(err))
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "boxes.csv")
	require.NoError(t, os.WriteFile(src, []byte("Box,Length,Width,Height\nB1,5.8,4.0,2.0\nB3,7.2,6.0,3.4\n"), 0o644))
	dest := filepath.Join(dir, "catalog.yaml")

	out, err := execute(t, testMock(t), "import", src, "--dest", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 box type(s)")

	cat, err := catalogs.LoadFile(dest)
	require.NoError(t, err)
	box, ok := cat.Get("B3")
	require.True(t, ok)
	assert.InDelta(t, 7.2, box.Length, 1e-9)
}

func TestImportCommandNoDestination(t *testing.T) {
	_, err := execute(t, testMock(t), "import", "boxes.csv")
	assert.Error(t, err)
}

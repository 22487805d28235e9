package prefs

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/internal/cmd/application"
	userprefs "github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

func fileMock(t *testing.T) *application.Mock {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	return &application.Mock{
		PrefsFunc: func() (*userprefs.Prefs, error) { return userprefs.Load(path) },
		SettingsFunc: func() application.Settings {
			return application.Settings{PrefsPath: path, Tolerance: tolerance.Default()}
		},
	}
}

func execute(mock *application.Mock, args ...string) (string, error) {
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShowDefaults(t *testing.T) {
	out, err := execute(fileMock(t), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Boxes:     all")
	assert.Contains(t, out, "(config)")
}

func TestSetAndClear(t *testing.T) {
	mock := fileMock(t)

	_, err := execute(mock, "set", "-b", "B2,B1,B2", "-t", "0.3")
	require.NoError(t, err)

	saved, err := userprefs.Load(mock.Settings().PrefsPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"B2", "B1"}, saved.SelectedBoxes)
	require.NotNil(t, saved.Tolerance)
	assert.Equal(t, tolerance.Uniform(0.3), *saved.Tolerance)

	out, err := execute(mock, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "B2, B1")

	_, err = execute(mock, "clear")
	require.NoError(t, err)
	saved, err = userprefs.Load(mock.Settings().PrefsPath)
	require.NoError(t, err)
	assert.True(t, saved.Empty())
}

func TestSetRequiresFlags(t *testing.T) {
	_, err := execute(fileMock(t), "set")
	assert.Error(t, err)

	_, err = execute(fileMock(t), "set", "-t", "nope")
	assert.Error(t, err)
}

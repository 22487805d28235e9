package completion

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	root := &cobra.Command{Use: "dimcheck"}
	root.AddCommand(&cobra.Command{Use: "check", Run: func(*cobra.Command, []string) {}})

	for _, shell := range []string{Bash, Zsh, Fish, PowerShell} {
		var buf bytes.Buffer
		require.NoError(t, Generate(root, shell, &buf), shell)
		assert.Contains(t, buf.String(), "dimcheck", shell)
	}
	assert.Error(t, Generate(root, "tcsh", &bytes.Buffer{}))
}

func TestInstallUninstall(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)
	root := &cobra.Command{Use: "dimcheck"}

	path, err := Install(root, Zsh)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(prefix, "share", "zsh", "site-functions", "_dimcheck"), path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	got, removed, err := Uninstall(Zsh, "dimcheck")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, path, got)

	_, removed, err = Uninstall(Zsh, "dimcheck")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = Path(PowerShell, "dimcheck")
	assert.Error(t, err)
}

package combine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/internal/cmd/application"
)

func TestCombineCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.log")
	b := filepath.Join(dir, "b.log")
	require.NoError(t, os.WriteFile(a, []byte("Index;Length;Width;Height\n1;1;2;3\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("Index;Length;Width;Height\n2;4;5;6\n"), 0o644))

	cmd := NewCommand(&application.Mock{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{a, b})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Wrote 2 rows from 2 log(s)")
	data, err := os.ReadFile(filepath.Join(dir, "dims.log"))
	require.NoError(t, err)
	assert.Equal(t, "Index;Length;Width;Height\n1;1;2;3\n2;4;5;6\n", string(data))
}

func TestCombineCommandMismatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.log")
	b := filepath.Join(dir, "b.log")
	require.NoError(t, os.WriteFile(a, []byte("Index;Length;Width;Height\n1;1;2;3\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("Index;Length\n2;4\n"), 0o644))
	dest := filepath.Join(dir, "merged.log")

	cmd := NewCommand(&application.Mock{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{a, b, "--dest", dest})
	require.Error(t, cmd.Execute())
	assert.NoFileExists(t, dest)
}

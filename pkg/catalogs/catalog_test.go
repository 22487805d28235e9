package catalogs_test

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

const boxesYAML = `
unit: in
boxes:
  - label: B1
    length: 12.0
    width: 8.0
    height: 4.0
    description: small mailer
  - label: B2
    length: 4.0
    width: 2.0
    height: 5.8
  - label: B1
    length: 99
    width: 99
    height: 99
`

func TestLoadYAMLFirstDefinitionWins(t *testing.T) {
	cat, err := catalogs.LoadYAML(strings.NewReader(boxesYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"B1", "B2"}, cat.Labels())
	assert.Equal(t, []string{"B1"}, cat.Duplicates())

	b1, ok := cat.Get("B1")
	require.True(t, ok)
	assert.Equal(t, dims.New(12, 8, 4), b1.Dims())
	assert.Equal(t, "small mailer", b1.Description)
}

func TestLoadCSV(t *testing.T) {
	src := "Box,Length,Width,Height\nB1,12,8,4\nB2,4.0,2.0,5.8\n"
	cat, err := catalogs.LoadCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	_, err = catalogs.LoadCSV(strings.NewReader("Box,Length,Width,Height\nB1,12,x,4\n"))
	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)

	_, err = catalogs.LoadCSV(strings.NewReader("Box,Length,Width,Height\nB0,0,0,0\n"))
	assert.True(t, errors.IsDegenerate(err))
}

func TestSaveAndLoadFile(t *testing.T) {
	cat, err := catalogs.FromBoxes([]catalogs.BoxType{
		{Label: "B1", Length: 12, Width: 8, Height: 4, Description: "small mailer"},
		catalogs.NewBoxType("B2", dims.New(4, 2, 5.8)),
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "boxes.yaml")
	require.NoError(t, cat.Save(path))

	loaded, err := catalogs.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cat.List(), loaded.List())

	_, err = catalogs.LoadFile("boxes.json")
	assert.True(t, errors.IsValidationError(err))
}

func TestSelect(t *testing.T) {
	cat, err := catalogs.LoadYAML(strings.NewReader(boxesYAML))
	require.NoError(t, err)

	sel, missing := cat.Select("B2", "B9", "B2")
	assert.Equal(t, []string{"B2"}, sel.Labels())
	assert.Equal(t, []string{"B9"}, missing)

	_, ok := sel.Get("B1")
	assert.False(t, ok)

	all, missing := cat.Select()
	assert.Empty(t, missing)
	assert.Equal(t, cat.Labels(), all.Labels())

	w, ok := sel.(catalogs.Writer)
	require.True(t, ok)
	assert.ErrorIs(t, w.Add(catalogs.BoxType{Label: "B3", Length: 1, Width: 1, Height: 1}), errors.ErrReadOnly)
	assert.ErrorIs(t, w.Delete("B2"), errors.ErrReadOnly)

	// The selection is a snapshot.
	require.NoError(t, cat.Delete("B2"))
	assert.Equal(t, 1, sel.Len())
}

func TestAddDelete(t *testing.T) {
	cat := catalogs.New()
	box := catalogs.BoxType{Label: "B1", Length: 1, Width: 2, Height: 3}

	require.NoError(t, cat.Add(box))
	assert.ErrorIs(t, cat.Add(box), errors.ErrAlreadyExists)
	assert.True(t, errors.IsValidationError(cat.Add(catalogs.BoxType{Label: " "})))

	_, err := cat.Find("B1")
	require.NoError(t, err)
	require.NoError(t, cat.Delete("B1"))
	_, err = cat.Find("B1")
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(cat.Delete("B1")))
}

func TestConcurrentReads(t *testing.T) {
	cat := catalogs.New()
	for _, l := range []string{"A", "B", "C"} {
		require.NoError(t, cat.Add(catalogs.BoxType{Label: l, Length: 1, Width: 1, Height: 1}))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = cat.Get("B")
				_ = cat.List()
				_, _ = cat.Select("A")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, cat.Len())
}

package tabular_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/dimcheck/internal/tabular"
	"github.com/agentstation/dimcheck/pkg/errors"
)

func TestReadDelimited(t *testing.T) {
	src := "Index;Length;Width;Height\n\n1;5.8;4.1;2.0\n2;x;1;1\n"
	tbl, err := tabular.ReadDelimited(strings.NewReader(src), ';', "log", "dims.log")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	cols, err := tbl.Require("index", "LENGTH", "Width", "Height")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, cols)

	v, err := tbl.Float(0, cols[1])
	require.NoError(t, err)
	assert.Equal(t, 5.8, v)

	_, err = tbl.Float(1, cols[1])
	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 4, pe.Line)
	assert.Equal(t, "dims.log", pe.File)
}

func TestRequireMissingColumn(t *testing.T) {
	tbl, err := tabular.ReadCSV(strings.NewReader("Box,Length\nB1,3\n"), "x.csv")
	require.NoError(t, err)
	_, err = tbl.Require("Box", "Height")
	assert.ErrorContains(t, err, `missing column "Height"`)
}

func TestReadEmpty(t *testing.T) {
	_, err := tabular.ReadCSV(strings.NewReader("\n\n"), "empty.csv")
	assert.ErrorContains(t, err, "missing header row")
}

func TestInt(t *testing.T) {
	tbl, err := tabular.ReadCSV(strings.NewReader("Index\n7\n8.0\n8.5\n"), "")
	require.NoError(t, err)

	v, err := tbl.Int(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = tbl.Int(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	_, err = tbl.Int(2, 0)
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.xlsx")
	f := excelize.NewFile()
	rows := [][]any{{"Box", "Length", "Width", "Height"}, {"B1", 12.0, 8.0, 4.0}}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := tabular.ReadXLSX(path, "")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "B1", tbl.String(0, 0))
	v, err := tbl.Float(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)
}

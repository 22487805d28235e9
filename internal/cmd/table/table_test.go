package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/forest"
	"github.com/agentstation/dimcheck/pkg/reconcile"
	"github.com/agentstation/dimcheck/pkg/report"
)

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.10", FormatFloat(0.1, 2))
	assert.Equal(t, "0.00", FormatFloat(-0.0001, 2))
	assert.Equal(t, "5.8", FormatFloat(5.8, 1))
}

func TestRowsToTableData(t *testing.T) {
	delta := dims.New(0, 0.5, 0)
	data := RowsToTableData([]report.Row{
		{Index: 4, Measured: dims.New(5.8, 4.5, 2), Label: "B1", Delta: &delta, Within: &[3]bool{true, false, true}, Status: reconcile.StatusFail},
		{Index: 5, Measured: dims.New(9, 9, 9), Label: "B9", Status: reconcile.StatusUnresolved},
	})

	require.Len(t, data.Rows, 2)
	assert.Len(t, data.Headers, len(data.ColumnAlignment))
	assert.Equal(t, []string{"4", "5.8", "4.5", "2.0", "B1", "0.00", "0.50 ✗", "0.00", "✗ fail"}, data.Rows[0])
	assert.Equal(t, "-", data.Rows[1][5])
	assert.Equal(t, "? unresolved", data.Rows[1][8])
}

func TestSummaryToTableData(t *testing.T) {
	r := report.Build(nil)
	data := SummaryToTableData(r)
	assert.Contains(t, data.Rows, []string{"Success Rate", "n/a"})
}

func TestBoxesToTableData(t *testing.T) {
	data := BoxesToTableData([]catalogs.BoxType{
		catalogs.NewBoxType("B1", dims.New(5.8, 4, 2)),
		catalogs.NewBoxType("B2", dims.New(12, 10, 8)),
	}, map[string]bool{"B2": true})

	assert.Equal(t, "", data.Rows[0][0])
	assert.Equal(t, "✓", data.Rows[1][0])
	assert.Equal(t, "-", data.Rows[1][5])
}

func TestSearchToTableData(t *testing.T) {
	best := forest.Params{Estimators: 50, MaxDepth: 0, MinSamplesSplit: 2}
	data := SearchToTableData([]forest.CVResult{
		{Params: best, Mean: -0.01},
		{Params: forest.Params{Estimators: 50, MaxDepth: 10, MinSamplesSplit: 2}, Mean: -0.02},
	}, best)

	assert.Equal(t, "✓", data.Rows[0][0])
	assert.Equal(t, "none", data.Rows[0][2])
	assert.Equal(t, "10", data.Rows[1][2])
	assert.Equal(t, "-0.0100", data.Rows[0][4])
}

package dimcheck_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/logging"
	"github.com/agentstation/dimcheck/pkg/reconcile"
	"github.com/agentstation/dimcheck/pkg/report"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boxes.csv")
	data := "Box,Length,Width,Height\nB1,4.0,2.0,5.8\nB2,12,8,4\nB3,20,16,10\nB2,1,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestCheckEndToEnd(t *testing.T) {
	tl := logging.NewTestLogger(t)
	checker, err := dimcheck.New(
		dimcheck.WithCatalogFile(writeCatalog(t)),
		dimcheck.WithSelection("B1", "B2"),
		dimcheck.WithTolerance(tolerance.Default()),
		dimcheck.WithLogger(tl.Logger),
	)
	require.NoError(t, err)
	assert.True(t, tl.Contains("Duplicate box type ignored"))
	assert.Equal(t, 3, checker.Catalog().Len())

	var failed, unresolved []int
	var completed *report.Report
	checker.OnUnitFailed(func(row report.Row) { failed = append(failed, row.Index) })
	checker.OnUnitUnresolved(func(row report.Row) { unresolved = append(unresolved, row.Index) })
	checker.OnRunComplete(func(r *report.Report) { completed = r })

	units := []reconcile.Unit{
		{Index: 1, Dims: dims.New(5.8, 4.1, 2.0)},
		{Index: 2, Dims: dims.New(12.6, 8, 4)},
		{Index: 3, Dims: dims.New(20, 16, 10)},
	}
	rep, err := checker.Check(context.Background(), units)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, failed)
	assert.Equal(t, []int{3}, unresolved)
	assert.Same(t, rep, completed)
	assert.Equal(t, 2, rep.Summary.Total)
	assert.Equal(t, 50.0, rep.Summary.SuccessRate.Value)
	assert.True(t, tl.Contains("Reconciliation complete"))
}

func TestCheckWithTrainedModel(t *testing.T) {
	cat, err := catalogs.FromBoxes([]catalogs.BoxType{{Label: "B2", Length: 12, Width: 8, Height: 4}})
	require.NoError(t, err)

	model, err := classifier.NewKNN([]classifier.Sample{
		{Label: "B2", Dims: dims.New(12, 8, 4)},
		{Label: "B2", Dims: dims.New(12.1, 8, 4)},
		{Label: "B2", Dims: dims.New(11.9, 8, 4)},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "knn.yaml")
	require.NoError(t, model.SaveFile(path))

	checker, err := dimcheck.New(dimcheck.WithCatalog(cat), dimcheck.WithModelFile(path), dimcheck.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, checker.Classifier().Labels())

	rep, err := checker.Check(context.Background(), []reconcile.Unit{{Index: 1, Dims: dims.New(4, 12, 8)}})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Summary.Passed)
}

func TestCheckDefaultClassifierIgnoresOrientation(t *testing.T) {
	cat, err := catalogs.FromBoxes([]catalogs.BoxType{
		{Label: "B1", Length: 4.0, Width: 2.0, Height: 5.8},
		{Label: "CUBE", Length: 5, Width: 5, Height: 5},
	})
	require.NoError(t, err)

	checker, err := dimcheck.New(dimcheck.WithCatalog(cat), dimcheck.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	rep, err := checker.Check(context.Background(), []reconcile.Unit{{Index: 1, Dims: dims.New(5.8, 4.0, 2.0)}})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "B1", rep.Rows[0].Label)
	assert.Equal(t, reconcile.StatusPass, rep.Rows[0].Status)
}

func TestCheckEmptyRun(t *testing.T) {
	checker, err := dimcheck.New(dimcheck.WithCatalogFile(writeCatalog(t)), dimcheck.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	rep, err := checker.Check(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, rep.Summary.Total)
	_, err = rep.Summary.Rate()
	assert.ErrorIs(t, err, errors.ErrUndefinedRate)
}

func TestNewErrors(t *testing.T) {
	_, err := dimcheck.New()
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = dimcheck.New(dimcheck.WithCatalog(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = dimcheck.New(dimcheck.WithCatalogFile(writeCatalog(t)), dimcheck.WithModelFile("missing.yaml"))
	assert.Error(t, err)

	_, err = dimcheck.New(dimcheck.WithCatalogFile(writeCatalog(t)), dimcheck.WithTolerance(tolerance.Uniform(-1)))
	assert.True(t, errors.IsValidationError(err))
}

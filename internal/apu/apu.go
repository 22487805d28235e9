// Package apu builds the rim-plane training dataset: sorter results are
// classified, joined to the catalog and paired with the plane parameters the
// sorter was running, so the forest can learn parameters from axis errors.
package apu

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/agentstation/dimcheck/internal/ingest"
	"github.com/agentstation/dimcheck/internal/tabular"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// ParamNames are the rim-plane parameter columns, the forest's targets.
var ParamNames = []string{"a1", "b1", "c1", "d1", "a2", "b2", "c2", "d2"}

// ErrorNames are the axis error columns, the forest's features.
var ErrorNames = []string{"error_Length", "error_Width", "error_Height"}

// Header is the dataset's column layout.
var Header = append(append(append([]string{"ID"}, ParamNames...),
	"Length", "Width", "Height", "Box"), ErrorNames...)

// RimPlanes holds the two rim plane equations a·x + b·y + c·z + d = 0.
type RimPlanes [8]float64

// DefaultRimPlanes returns the factory calibration.
func DefaultRimPlanes() RimPlanes {
	return RimPlanes{0.9794, 0.0059, 0.2016, -40.9368, 0.0058, -0.9988, 0.0492, 490.7688}
}

// Row is one dataset record.
type Row struct {
	ID       int
	Planes   RimPlanes
	Measured dims.Triple
	Box      string
	Error    dims.Triple
}

// Build classifies every record and pairs it with its catalog reference.
// Error is measured minus reference per axis, without rotation. Records whose
// label is not in the catalog are skipped and counted.
func Build(records []ingest.VMSRecord, cat catalogs.Reader, c classifier.Classifier, planes RimPlanes) ([]Row, int, error) {
	rows := make([]Row, 0, len(records))
	skipped := 0
	for _, rec := range records {
		label, err := c.Classify(rec.Dims)
		if err != nil {
			return nil, skipped, errors.WrapValidation("record "+strconv.Itoa(rec.ID), err)
		}
		box, ok := cat.Get(label)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, Row{
			ID:       rec.ID,
			Planes:   planes,
			Measured: rec.Dims,
			Box:      label,
			Error:    rec.Dims.Sub(box.Dims()),
		})
	}
	return rows, skipped, nil
}

// Write writes rows as CSV, with the header when header is true.
func Write(w io.Writer, rows []Row, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(Header); err != nil {
			return err
		}
	}
	rec := make([]string, 0, len(Header))
	for _, r := range rows {
		rec = rec[:0]
		rec = append(rec, strconv.Itoa(r.ID))
		for _, p := range r.Planes {
			rec = append(rec, formatFloat(p))
		}
		for _, v := range r.Measured {
			rec = append(rec, formatFloat(v))
		}
		rec = append(rec, r.Box)
		for _, v := range r.Error {
			rec = append(rec, formatFloat(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendFile appends rows to the dataset at path, creating it with a header
// when it does not exist yet.
func AppendFile(path string, rows []Row) error {
	_, statErr := os.Stat(path)
	create := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	if err := Write(f, rows, create); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}

// Read loads a dataset as forest features (axis errors) and targets (rim
// plane parameters).
func Read(r io.Reader, source string) (x, y [][]float64, err error) {
	tbl, err := tabular.ReadCSV(r, source)
	if err != nil {
		return nil, nil, err
	}
	xCols, err := tbl.Require(ErrorNames...)
	if err != nil {
		return nil, nil, err
	}
	yCols, err := tbl.Require(ParamNames...)
	if err != nil {
		return nil, nil, err
	}

	x = make([][]float64, len(tbl.Rows))
	y = make([][]float64, len(tbl.Rows))
	for i := range tbl.Rows {
		if x[i], err = floats(tbl, i, xCols); err != nil {
			return nil, nil, err
		}
		if y[i], err = floats(tbl, i, yCols); err != nil {
			return nil, nil, err
		}
	}
	return x, y, nil
}

// ReadFile loads a dataset file.
func ReadFile(path string) (x, y [][]float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, path)
}

func floats(tbl *tabular.Table, row int, cols []int) ([]float64, error) {
	out := make([]float64, len(cols))
	for j, c := range cols {
		v, err := tbl.Float(row, c)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

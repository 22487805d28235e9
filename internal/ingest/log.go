// Package ingest turns QC device output into reconciliation units: the
// semicolon measurement logs, combined multi-log files and VMS result logs.
package ingest

import (
	"io"
	"strings"

	"github.com/agentstation/dimcheck/internal/tabular"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/reconcile"
)

// Column names of a measurement log.
const (
	ColIndex    = "Index"
	ColLength   = "Length"
	ColWidth    = "Width"
	ColHeight   = "Height"
	ColStatus   = "Status 3"
	ColRecordID = "ID"
)

// Separator is the field delimiter of device logs.
const Separator = ';'

// Stats describes what ReadMeasurementLog did with the rows it saw.
type Stats struct {
	Rows    int
	Dropped int
}

// Kept returns the number of rows turned into units.
func (s Stats) Kept() int { return s.Rows - s.Dropped }

// Option configures log reading.
type Option func(*options)

type options struct {
	source     string
	keepZeroed bool
}

// WithSource names the log in parse errors.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

// WithZeroedRows keeps rows whose status column carries the zero sentinel.
func WithZeroedRows() Option {
	return func(o *options) { o.keepZeroed = true }
}

// ReadMeasurementLog reads a semicolon separated measurement log. Rows whose
// "Status 3" column is all zeros are empty scans and are dropped. Dimensions
// are rounded to one decimal.
func ReadMeasurementLog(r io.Reader, opts ...Option) ([]reconcile.Unit, Stats, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	tbl, err := tabular.ReadDelimited(r, Separator, "log", o.source)
	if err != nil {
		return nil, Stats{}, err
	}
	cols, err := tbl.Require(ColIndex, ColLength, ColWidth, ColHeight)
	if err != nil {
		return nil, Stats{}, err
	}
	statusCol, hasStatus := tbl.Col(ColStatus)
	idCol, hasID := tbl.Col(ColRecordID)

	stats := Stats{Rows: len(tbl.Rows)}
	units := make([]reconcile.Unit, 0, len(tbl.Rows))
	for i := range tbl.Rows {
		if hasStatus && !o.keepZeroed && zeroStatus(tbl.String(i, statusCol)) {
			stats.Dropped++
			continue
		}
		idx, err := tbl.Int(i, cols[0])
		if err != nil {
			return nil, stats, err
		}
		var t dims.Triple
		for a := range 3 {
			v, err := tbl.Float(i, cols[a+1])
			if err != nil {
				return nil, stats, err
			}
			t[a] = v
		}
		if !t.Valid() {
			return nil, stats, errors.NewParseError("log", o.source, tbl.Line(i),
				"dimensions "+t.String()+" are not finite non-negative numbers", errors.ErrInvalidInput)
		}
		u := reconcile.Unit{Index: idx, Dims: t.Round1()}
		if hasID {
			u.RecordID = tbl.String(i, idCol)
		}
		units = append(units, u)
	}
	return units, stats, nil
}

// zeroStatus matches the device's empty-scan marker, "0" or "00000000".
func zeroStatus(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && strings.Trim(s, "0") == ""
}

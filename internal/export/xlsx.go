// Package export writes reconciliation reports to spreadsheet files.
package export

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/report"
)

// Sheet names.
const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

// ResultColumns is the header of the results sheet.
var ResultColumns = []string{"Index", "Length", "Width", "Height", "Box", "ΔLength", "ΔWidth", "ΔHeight", "Status"}

// Sink writes a report to path.
type Sink interface {
	Write(ctx context.Context, path string, r *report.Report) error
}

// OutputPath returns <dir>/<log basename>.xlsx.
func OutputPath(dir, logPath string) string {
	base := filepath.Base(logPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".xlsx")
}

// XLSXSink writes the results and summary sheets with excelize. Out of
// tolerance delta cells are filled red and unresolved rows grey.
type XLSXSink struct{}

// NewXLSXSink returns an xlsx sink.
func NewXLSXSink() *XLSXSink { return &XLSXSink{} }

// Write implements Sink.
func (s *XLSXSink) Write(ctx context.Context, path string, r *report.Report) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(errors.ErrCanceled, err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return errors.WrapResource("export", "report", path, err)
	}
	if err := writeResults(f, r); err != nil {
		return errors.WrapResource("export", "report", path, err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return errors.WrapResource("export", "report", path, err)
	}
	if err := writeSummary(f, r); err != nil {
		return errors.WrapResource("export", "report", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		if locked(err) {
			return errors.WrapIO("write", path, errors.Join(errors.ErrFileLocked, err))
		}
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// locked reports whether a save failed because another process holds the
// file, which the OS reports as a permission error.
func locked(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

func writeResults(f *excelize.File, r *report.Report) error {
	header := make([]any, len(ResultColumns))
	for i, c := range ResultColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(ResultsSheet, 1, 1, bold); err != nil {
		return err
	}

	red, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	grey, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "595959"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, row := range r.Rows {
		line := i + 2
		cells := []any{row.Index, row.Measured.Length(), row.Measured.Width(), row.Measured.Height(), row.Label}
		if row.Delta != nil {
			for _, v := range row.Delta {
				cells = append(cells, v)
			}
		} else {
			cells = append(cells, nil, nil, nil)
		}
		cells = append(cells, string(row.Status))

		start, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetSheetRow(ResultsSheet, start, &cells); err != nil {
			return err
		}

		if row.Delta == nil {
			end, _ := excelize.CoordinatesToCellName(len(ResultColumns), line)
			if err := f.SetCellStyle(ResultsSheet, start, end, grey); err != nil {
				return err
			}
			continue
		}
		for _, a := range dims.Axes {
			if !row.OutOfTolerance(a) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(6+int(a), line)
			if err := f.SetCellStyle(ResultsSheet, cell, cell, red); err != nil {
				return err
			}
		}
	}
	return f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, r *report.Report) error {
	s := r.Summary
	rate := any(s.SuccessRate.String())
	if s.SuccessRate.Defined {
		rate = s.SuccessRate.Value
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Units", s.Units},
		{"Evaluated", s.Total},
		{"Passed", s.Passed},
		{"Failed", s.Failed},
		{"Unresolved", s.Unresolved},
		{"Success rate (%)", rate},
		{"Length tolerance", r.Tolerance.Length},
		{"Width tolerance", r.Tolerance.Width},
		{"Height tolerance", r.Tolerance.Height},
	}
	for _, as := range s.Axes {
		rows = append(rows, []any{as.Axis + " failures", as.Failures})
	}
	if len(r.Missing) > 0 {
		rows = append(rows, []any{"Missing boxes", strings.Join(r.Missing, ", ")})
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

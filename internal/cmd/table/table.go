// Package table converts reconciliation results into rows for terminal tables.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/dimcheck/internal/cmd/emoji"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/forest"
	"github.com/agentstation/dimcheck/pkg/reconcile"
	"github.com/agentstation/dimcheck/pkg/report"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

var numeric = []Align{AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft}

// RowsToTableData renders report rows with Index, dimensions, box and deltas.
func RowsToTableData(rows []report.Row) Data {
	headers := []string{"Index", "Length", "Width", "Height", "Box", "ΔLength", "ΔWidth", "ΔHeight", "Status"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Index),
			FormatFloat(r.Measured.Length(), 1),
			FormatFloat(r.Measured.Width(), 1),
			FormatFloat(r.Measured.Height(), 1),
			r.Label,
		}
		if r.Delta != nil {
			for _, a := range dims.Axes {
				cell := FormatFloat(r.Delta[a], 2)
				if r.OutOfTolerance(a) {
					cell += " " + emoji.Error
				}
				row = append(row, cell)
			}
		} else {
			row = append(row, "-", "-", "-")
		}
		row = append(row, StatusString(r.Status))
		out = append(out, row)
	}
	return Data{Headers: headers, Rows: out, ColumnAlignment: numeric}
}

// SummaryToTableData renders the run aggregates as a property table.
func SummaryToTableData(r *report.Report) Data {
	s := r.Summary
	rows := [][]string{
		{"Units", strconv.Itoa(s.Units)},
		{"Evaluated", strconv.Itoa(s.Total)},
		{"Passed", strconv.Itoa(s.Passed)},
		{"Failed", strconv.Itoa(s.Failed)},
		{"Unresolved", strconv.Itoa(s.Unresolved)},
		{"Success Rate", s.SuccessRate.String()},
		{"Tolerance", r.Tolerance.String()},
	}
	for _, as := range s.Axes {
		rows = append(rows, []string{
			as.Axis + " Failures",
			strconv.Itoa(as.Failures) + " (mean |Δ| " + FormatFloat(as.MeanAbs, 2) + ", max " + FormatFloat(as.MaxAbs, 2) + ")",
		})
	}
	if len(r.Missing) > 0 {
		rows = append(rows, []string{"Missing Boxes", strings.Join(r.Missing, ", ")})
	}
	return Data{Headers: []string{"Metric", "Value"}, Rows: rows}
}

// LabelsToTableData renders the per-box breakdown.
func LabelsToTableData(counts []report.LabelCount) Data {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Total), strconv.Itoa(c.Failed), strconv.Itoa(c.Unresolved)})
	}
	return Data{
		Headers:         []string{"Box", "Evaluated", "Failed", "Unresolved"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight},
	}
}

// BoxesToTableData renders catalog entries, marking the selected ones.
func BoxesToTableData(boxes []catalogs.BoxType, selected map[string]bool) Data {
	rows := make([][]string, 0, len(boxes))
	for _, b := range boxes {
		mark := ""
		if selected[b.Label] {
			mark = emoji.Success
		}
		desc := b.Description
		if desc == "" {
			desc = "-"
		}
		rows = append(rows, []string{
			mark,
			b.Label,
			FormatFloat(b.Length, 1),
			FormatFloat(b.Width, 1),
			FormatFloat(b.Height, 1),
			desc,
		})
	}
	return Data{
		Headers:         []string{"", "Box", "Length", "Width", "Height", "Description"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
}

// SearchToTableData renders grid search results in grid order, marking the best.
func SearchToTableData(results []forest.CVResult, best forest.Params) Data {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		mark := ""
		if r.Params == best {
			mark = emoji.Success
		}
		rows = append(rows, []string{
			mark,
			strconv.Itoa(r.Params.Estimators),
			MaxDepthString(r.Params.MaxDepth),
			strconv.Itoa(r.Params.MinSamplesSplit),
			FormatFloat(r.Mean, 4),
			FormatFloat(r.StdDev, 4),
		})
	}
	return Data{
		Headers:         []string{"", "Estimators", "Max Depth", "Min Split", "Mean Score", "Std"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// StatusString renders a status with its symbol.
func StatusString(s reconcile.Status) string {
	switch s {
	case reconcile.StatusPass:
		return emoji.Success + " pass"
	case reconcile.StatusFail:
		return emoji.Error + " fail"
	case reconcile.StatusUnresolved:
		return emoji.Unknown + " unresolved"
	}
	return string(s)
}

// MaxDepthString renders an unlimited depth as "none".
func MaxDepthString(d int) string {
	if d == 0 {
		return "none"
	}
	return strconv.Itoa(d)
}

// FormatFloat formats v with a fixed number of decimals.
func FormatFloat(v float64, places int) string {
	return strconv.FormatFloat(dims.Fixed(v, places), 'f', places, 64)
}

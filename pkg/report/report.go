// Package report aggregates reconciliation outcomes into per-unit rows and
// run-level statistics. Building a report is pure: no I/O, no logging.
package report

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/reconcile"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Row is the reported view of one unit.
type Row struct {
	Index     int              `json:"index" yaml:"index"`
	RecordID  string           `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	Seq       int              `json:"-" yaml:"-"`
	Measured  dims.Triple      `json:"measured" yaml:"measured,flow"`
	Label     string           `json:"box" yaml:"box"`
	Reference *dims.Triple     `json:"reference,omitempty" yaml:"reference,omitempty,flow"`
	Delta     *dims.Triple     `json:"delta,omitempty" yaml:"delta,omitempty,flow"`
	Within    *[3]bool         `json:"within,omitempty" yaml:"within,omitempty,flow"`
	Status    reconcile.Status `json:"status" yaml:"status"`
}

// Failed reports whether the row was evaluated and is out of tolerance.
func (r Row) Failed() bool { return r.Status == reconcile.StatusFail }

// OutOfTolerance reports whether axis a was evaluated and exceeded its
// tolerance. Unresolved rows have no per-axis verdict.
func (r Row) OutOfTolerance(a dims.Axis) bool { return r.Within != nil && !r.Within[a] }

// Rate is a success percentage that may be undefined.
type Rate struct {
	Value   float64 `json:"value" yaml:"value"`
	Defined bool    `json:"defined" yaml:"defined"`
}

// String renders the rate as "95.00%", or "n/a" when undefined.
func (r Rate) String() string {
	if !r.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", r.Value)
}

// AxisStats summarises absolute deltas on one axis over evaluated units.
type AxisStats struct {
	Axis     string  `json:"axis" yaml:"axis"`
	Failures int     `json:"failures" yaml:"failures"`
	MeanAbs  float64 `json:"mean_abs" yaml:"mean_abs"`
	StdDev   float64 `json:"std_dev" yaml:"std_dev"`
	MaxAbs   float64 `json:"max_abs" yaml:"max_abs"`
}

// LabelCount is the per-label breakdown of a run.
type LabelCount struct {
	Label      string `json:"box" yaml:"box"`
	Total      int    `json:"total" yaml:"total"`
	Failed     int    `json:"failed" yaml:"failed"`
	Unresolved int    `json:"unresolved" yaml:"unresolved"`
}

// Summary holds the run aggregates. Total counts evaluated units only, so
// Passed + Failed == Total and Units == Total + Unresolved.
type Summary struct {
	Units       int          `json:"units" yaml:"units"`
	Total       int          `json:"total" yaml:"total"`
	Passed      int          `json:"passed" yaml:"passed"`
	Failed      int          `json:"failed" yaml:"failed"`
	Unresolved  int          `json:"unresolved" yaml:"unresolved"`
	SuccessRate Rate         `json:"success_rate" yaml:"success_rate"`
	Axes        [3]AxisStats `json:"axes" yaml:"axes"`
	Labels      []LabelCount `json:"boxes" yaml:"boxes"`
}

// Rate returns the success percentage or ErrUndefinedRate for an empty run.
func (s Summary) Rate() (float64, error) {
	if !s.SuccessRate.Defined {
		return 0, errors.ErrUndefinedRate
	}
	return s.SuccessRate.Value, nil
}

// Report is the complete output of a run.
type Report struct {
	Rows      []Row               `json:"rows" yaml:"rows"`
	Summary   Summary             `json:"summary" yaml:"summary"`
	Tolerance tolerance.Tolerance `json:"tolerance" yaml:"tolerance"`
	Missing   []string            `json:"missing_boxes,omitempty" yaml:"missing_boxes,omitempty"`
}

// FromResult builds a report from a reconciliation run.
func FromResult(res *reconcile.Result) *Report {
	r := Build(res.Outcomes)
	r.Tolerance = res.Metadata.Tolerance
	r.Missing = res.Metadata.Missing
	return r
}

// Build aggregates outcomes, which must be in ingestion order.
func Build(outcomes []reconcile.Outcome) *Report {
	r := &Report{Rows: make([]Row, 0, len(outcomes))}
	s := &r.Summary
	s.Units = len(outcomes)

	var abs [3][]float64
	labels := map[string]*LabelCount{}

	for _, o := range outcomes {
		row := Row{
			Index:     o.Unit.Index,
			RecordID:  o.Unit.RecordID,
			Seq:       o.Unit.Seq,
			Measured:  o.Unit.Dims,
			Label:     o.Label,
			Reference: o.Reference,
			Status:    o.Status,
		}

		lc := labels[o.Label]
		if lc == nil {
			lc = &LabelCount{Label: o.Label}
			labels[o.Label] = lc
		}

		if !o.Resolved() {
			s.Unresolved++
			lc.Unresolved++
			r.Rows = append(r.Rows, row)
			continue
		}

		delta := o.Alignment.Delta
		row.Delta = &delta
		within := o.Verdict.Within
		row.Within = &within
		s.Total++
		lc.Total++
		if o.Passed() {
			s.Passed++
		} else {
			s.Failed++
			lc.Failed++
		}
		for _, a := range dims.Axes {
			abs[a] = append(abs[a], delta.Abs()[a])
			if !o.Verdict.Within[a] {
				s.Axes[a].Failures++
			}
		}
		r.Rows = append(r.Rows, row)
	}

	for _, a := range dims.Axes {
		s.Axes[a].Axis = a.String()
		s.Axes[a] = describe(s.Axes[a], abs[a])
	}

	s.Labels = make([]LabelCount, 0, len(labels))
	for _, lc := range labels {
		s.Labels = append(s.Labels, *lc)
	}
	sort.Slice(s.Labels, func(i, j int) bool { return s.Labels[i].Label < s.Labels[j].Label })

	s.SuccessRate = successRate(s.Total, s.Failed)
	return r
}

func successRate(total, failed int) Rate {
	if total == 0 {
		return Rate{}
	}
	v, err := stats.Round(float64(total-failed)/float64(total)*100, constants.RatePlaces)
	if err != nil {
		return Rate{}
	}
	return Rate{Value: v, Defined: true}
}

func describe(as AxisStats, values []float64) AxisStats {
	if len(values) == 0 {
		return as
	}
	data := stats.Float64Data(values)
	mean, _ := data.Mean()
	sd, _ := data.StandardDeviation()
	mx, _ := data.Max()
	as.MeanAbs, _ = stats.Round(mean, 3)
	as.StdDev, _ = stats.Round(sd, 3)
	as.MaxAbs = mx
	return as
}

// Failures returns failing rows grouped by label, labels sorted, and within
// a label ordered by unit index. Rows with equal index keep ingestion order.
func (r *Report) Failures() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Failed() {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// FailuresByLabel groups Failures by label.
func (r *Report) FailuresByLabel() map[string][]Row {
	out := map[string][]Row{}
	for _, row := range r.Failures() {
		out[row.Label] = append(out[row.Label], row)
	}
	return out
}

// Unresolved returns unresolved rows in ingestion order.
func (r *Report) Unresolved() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Status == reconcile.StatusUnresolved {
			out = append(out, row)
		}
	}
	return out
}

// LabelBreakdown returns per-label counts sorted by label.
func (r *Report) LabelBreakdown() []LabelCount {
	return append([]LabelCount(nil), r.Summary.Labels...)
}

package reconcile

import (
	"time"

	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Result is the outcome of a reconciliation run.
type Result struct {
	// Outcomes holds one entry per unit, in ingestion order.
	Outcomes []Outcome

	// Metadata about the run
	Metadata Metadata
}

// Metadata describes how a run was performed.
type Metadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Selection is the set of catalog labels units were reconciled against.
	Selection []string

	// Missing lists requested labels that the catalog does not define.
	Missing []string

	// Tolerance applied to every unit
	Tolerance tolerance.Tolerance
}

// Filter returns the outcomes with the given status, in ingestion order.
func (r *Result) Filter(status Status) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

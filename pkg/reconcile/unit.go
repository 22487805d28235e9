package reconcile

import (
	"github.com/agentstation/dimcheck/pkg/align"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Unit is one measured box as read from a QC log.
type Unit struct {
	// Index identifies the unit in its source log.
	Index int `json:"index" yaml:"index"`
	// RecordID is the device record id when the source provides one.
	RecordID string `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	// Dims are the measured dimensions, already rounded to one decimal.
	Dims dims.Triple `json:"dims" yaml:"dims,flow"`
	// Seq is the ingestion position, assigned by the reconciler.
	Seq int `json:"seq" yaml:"seq"`
}

// Status is the reconciliation outcome of a unit.
type Status string

// Status values.
const (
	StatusPass       Status = "pass"
	StatusFail       Status = "fail"
	StatusUnresolved Status = "unresolved"
)

// Outcome is the reconciliation of a single unit.
type Outcome struct {
	Unit Unit `json:"unit" yaml:"unit"`
	// Label is the classified box label.
	Label string `json:"label" yaml:"label"`
	// Reference is the catalog triple for Label, nil when unresolved.
	Reference *dims.Triple `json:"reference,omitempty" yaml:"reference,omitempty,flow"`
	// Alignment and Verdict are zero when unresolved.
	Alignment align.Alignment   `json:"alignment" yaml:"alignment"`
	Verdict   tolerance.Verdict `json:"verdict" yaml:"verdict"`
	Status    Status            `json:"status" yaml:"status"`
}

// Resolved reports whether the unit's label was found in the selected catalog.
func (o Outcome) Resolved() bool {
	return o.Status != StatusUnresolved
}

// Passed reports whether the unit was evaluated and is within tolerance.
func (o Outcome) Passed() bool {
	return o.Status == StatusPass
}

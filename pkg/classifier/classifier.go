// Package classifier assigns a box label to a measured dimension triple.
//
// The production classifier is a k-nearest-neighbours vote over labelled
// measurements (KNN). Inference is pure: the same triple always yields the
// same label, and a degenerate triple is rejected instead of being matched
// to whatever box happens to be closest to the origin.
package classifier

import (
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Classifier maps a dimension triple to a box label.
type Classifier interface {
	// Classify returns the label for t.
	Classify(t dims.Triple) (string, error)
	// Labels returns every label the classifier can produce, sorted.
	Labels() []string
}

// Sample is a labelled measurement.
type Sample struct {
	Label string
	Dims  dims.Triple
}

// NewNearest returns a 1-nearest-neighbour classifier over the reference
// dimensions of the given box types. Axes are compared in sorted order, so a
// box measured on its side still matches its reference. When two references
// are equally close the one listed first wins. It is used when no trained
// model is configured.
func NewNearest(r catalogs.Reader) (*KNN, error) {
	boxes := r.List()
	samples := make([]Sample, len(boxes))
	for i, b := range boxes {
		samples[i] = Sample{Label: b.Label, Dims: b.Dims()}
	}
	return NewKNN(samples, WithK(1), WithSortedAxes())
}

// checkInput rejects triples that cannot be classified.
func checkInput(t dims.Triple) error {
	if !t.Valid() {
		return errors.NewValidationError("dims", t, "dimensions must be finite and non-negative")
	}
	if t.Degenerate() {
		return &errors.ValidationError{Field: "dims", Value: t, Message: "all dimensions are zero", Err: errors.ErrDegenerateTriple}
	}
	return nil
}

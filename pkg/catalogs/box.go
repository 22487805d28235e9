package catalogs

import (
	"strings"

	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// BoxType is a certified box size: a label and its reference dimensions.
type BoxType struct {
	Label       string  `yaml:"label" json:"label"`
	Length      float64 `yaml:"length" json:"length"`
	Width       float64 `yaml:"width" json:"width"`
	Height      float64 `yaml:"height" json:"height"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// NewBoxType builds a BoxType from a label and a triple.
func NewBoxType(label string, t dims.Triple) BoxType {
	return BoxType{Label: label, Length: t.Length(), Width: t.Width(), Height: t.Height()}
}

// Dims returns the reference dimensions as a triple.
func (b BoxType) Dims() dims.Triple {
	return dims.New(b.Length, b.Width, b.Height)
}

// Validate checks the label and reference dimensions.
func (b BoxType) Validate() error {
	if strings.TrimSpace(b.Label) == "" {
		return errors.NewValidationError("box.label", b.Label, "cannot be empty")
	}
	t := b.Dims()
	if !t.Valid() {
		return errors.NewValidationError("box."+b.Label, t, "dimensions must be finite and non-negative")
	}
	if t.Degenerate() {
		return &errors.ValidationError{Field: "box." + b.Label, Value: t, Message: "dimensions are all zero", Err: errors.ErrDegenerateTriple}
	}
	return nil
}

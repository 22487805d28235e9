// Package tolerance decides whether an aligned delta is acceptable.
package tolerance

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Tolerance holds the maximum accepted absolute delta per axis.
type Tolerance struct {
	Length float64 `yaml:"length" json:"length"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Default returns the stock tolerance of 0.2 on every axis.
func Default() Tolerance {
	return Uniform(constants.DefaultTolerance)
}

// Uniform returns a tolerance with the same threshold on every axis.
func Uniform(v float64) Tolerance {
	return Tolerance{Length: v, Width: v, Height: v}
}

// New validates and returns a tolerance.
func New(length, width, height float64) (Tolerance, error) {
	t := Tolerance{Length: length, Width: width, Height: height}
	return t, t.Validate()
}

// Parse reads "0.2" (uniform) or "0.2,0.3,0.2" (length,width,height).
func Parse(s string) (Tolerance, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return Tolerance{}, errors.NewValidationError("tolerance", s, "expected one value or three comma-separated values")
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Tolerance{}, &errors.ValidationError{Field: "tolerance", Value: s, Message: fmt.Sprintf("%q is not a number", p), Err: err}
		}
		vals[i] = v
	}
	if len(vals) == 1 {
		t := Uniform(vals[0])
		return t, t.Validate()
	}
	return New(vals[0], vals[1], vals[2])
}

// Axis returns the threshold for a single axis.
func (t Tolerance) Axis(a dims.Axis) float64 {
	switch a {
	case dims.Length:
		return t.Length
	case dims.Width:
		return t.Width
	default:
		return t.Height
	}
}

// Validate rejects negative or non-finite thresholds.
func (t Tolerance) Validate() error {
	for _, a := range dims.Axes {
		v := t.Axis(a)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.NewValidationError("tolerance."+strings.ToLower(a.String()), v, "must be a finite non-negative number")
		}
	}
	return nil
}

// String renders the tolerance as "L/W/H".
func (t Tolerance) String() string {
	return fmt.Sprintf("%g/%g/%g", t.Length, t.Width, t.Height)
}

// Verdict is the per-axis outcome of an evaluation.
type Verdict struct {
	// Within reports, per axis, whether the delta is inside tolerance.
	Within [3]bool
	// Pass is true when every axis is within tolerance.
	Pass bool
}

// Failed returns the axes outside tolerance in triple order.
func (v Verdict) Failed() []dims.Axis {
	var out []dims.Axis
	for _, a := range dims.Axes {
		if !v.Within[a] {
			out = append(out, a)
		}
	}
	return out
}

// Evaluate compares each delta with its threshold. The absolute delta is
// rounded to one decimal before the comparison, so 0.2049 passes a
// tolerance of 0.2 while 0.3 fails it.
func Evaluate(delta dims.Triple, tol Tolerance) Verdict {
	v := Verdict{Pass: true}
	for _, a := range dims.Axes {
		v.Within[a] = !Exceeds(delta[a], tol.Axis(a))
		if !v.Within[a] {
			v.Pass = false
		}
	}
	return v
}

// Exceeds reports whether a single delta falls outside limit.
func Exceeds(delta, limit float64) bool {
	return dims.RoundHalfEven(math.Abs(delta), constants.MeasurePlaces) > limit
}

// Package dims defines the dimension triple shared by every stage of the
// reconciliation pipeline, together with the rounding rules applied to it.
package dims

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Axis names one dimension of a Triple.
type Axis int

// Axes in triple order.
const (
	Length Axis = iota
	Width
	Height
)

// Axes lists every axis in triple order.
var Axes = [3]Axis{Length, Width, Height}

// String returns the column name of the axis.
func (a Axis) String() string {
	switch a {
	case Length:
		return "Length"
	case Width:
		return "Width"
	case Height:
		return "Height"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Triple is an ordered (length, width, height) measurement in a single unit.
type Triple [3]float64

// New builds a Triple from its three axes.
func New(length, width, height float64) Triple {
	return Triple{length, width, height}
}

// Length returns the first axis.
func (t Triple) Length() float64 { return t[Length] }

// Width returns the second axis.
func (t Triple) Width() float64 { return t[Width] }

// Height returns the third axis.
func (t Triple) Height() float64 { return t[Height] }

// Slice returns the axes as a new slice, for numeric libraries.
func (t Triple) Slice() []float64 {
	return []float64{t[0], t[1], t[2]}
}

// Sorted returns the axes in descending order. Two triples that differ only
// by orientation have the same sorted form.
func (t Triple) Sorted() Triple {
	s := slices.Sorted(slices.Values(t[:]))
	return Triple{s[2], s[1], s[0]}
}

// Valid reports whether every axis is a finite non-negative number.
func (t Triple) Valid() bool {
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

// Degenerate reports whether all three axes are zero.
func (t Triple) Degenerate() bool {
	return t[0] == 0 && t[1] == 0 && t[2] == 0
}

// Sub returns t - o per axis.
func (t Triple) Sub(o Triple) Triple {
	return Triple{t[0] - o[0], t[1] - o[1], t[2] - o[2]}
}

// Abs returns the per-axis absolute value.
func (t Triple) Abs() Triple {
	return Triple{math.Abs(t[0]), math.Abs(t[1]), math.Abs(t[2])}
}

// Sum returns the sum of the axes.
func (t Triple) Sum() float64 {
	return t[0] + t[1] + t[2]
}

// Round1 rounds every axis to one decimal with RoundHalfEven.
func (t Triple) Round1() Triple {
	return t.Map(func(v float64) float64 { return RoundHalfEven(v, 1) })
}

// Fixed rounds every axis to the given number of decimals with Fixed.
func (t Triple) Fixed(places int) Triple {
	return t.Map(func(v float64) float64 { return Fixed(v, places) })
}

// Map applies fn to every axis.
func (t Triple) Map(fn func(float64) float64) Triple {
	return Triple{fn(t[0]), fn(t[1]), fn(t[2])}
}

// String renders the triple as "L x W x H" with one decimal.
func (t Triple) String() string {
	return fmt.Sprintf("%.1f x %.1f x %.1f", t[0], t[1], t[2])
}

// RoundHalfEven scales v by 10^places, rounds to the nearest integer with
// ties to even, and scales back. This is the rounding applied to measured
// values and to absolute deltas before they are compared with a tolerance.
func RoundHalfEven(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.RoundToEven(v*p) / p
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// Fixed rounds v to the decimal that fmt's %.Nf would print. Unlike
// RoundHalfEven it rounds the exact binary value, so 0.245 (stored just
// below) becomes 0.24.
func Fixed(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}

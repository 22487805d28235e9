// Package align computes rotation-invariant differences between a measured
// triple and a reference triple.
//
// A box may be measured in any orientation, so the measured axes are matched
// against every ordering of the reference axes and the ordering with the
// smallest total absolute difference is kept. The search is exhaustive over
// the six orderings and runs in constant time.
package align

import (
	"math"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/dims"
)

// Permutation maps measured axis i to reference axis Permutation[i].
type Permutation [3]int

// Identity leaves the reference axes in place.
var Identity = Permutation{0, 1, 2}

// Permutations is the canonical search order. When two orderings have the
// same cost the one listed first wins, which keeps results stable across runs
// and platforms.
var Permutations = [6]Permutation{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// costEpsilon absorbs float noise so decimal-equal costs compare as ties.
const costEpsilon = 1e-9

// Apply reorders t so that position i holds t[p[i]].
func (p Permutation) Apply(t dims.Triple) dims.Triple {
	return dims.Triple{t[p[0]], t[p[1]], t[p[2]]}
}

// IsIdentity reports whether p leaves the axes unchanged.
func (p Permutation) IsIdentity() bool {
	return p == Identity
}

// Alignment is the outcome of aligning one measured triple.
type Alignment struct {
	// Delta is measured minus the reordered reference, per axis, to two decimals.
	Delta dims.Triple
	// Permutation is the reference ordering that produced Delta.
	Permutation Permutation
	// Reference is the reference triple after reordering.
	Reference dims.Triple
	// Cost is the sum of absolute raw deltas for the chosen ordering.
	Cost float64
}

// Align returns the alignment of measured against reference with the
// minimum total absolute difference.
func Align(measured, reference dims.Triple) Alignment {
	best := Alignment{Cost: math.Inf(1)}
	for _, p := range Permutations {
		rotated := p.Apply(reference)
		raw := measured.Sub(rotated)
		cost := stable(raw.Abs().Sum())
		if cost < best.Cost {
			best = Alignment{
				Delta:       raw,
				Permutation: p,
				Reference:   rotated,
				Cost:        cost,
			}
		}
	}
	best.Delta = best.Delta.Fixed(constants.DeltaPlaces)
	return best
}

// Cost returns the total absolute difference for a single ordering.
func Cost(measured, reference dims.Triple, p Permutation) float64 {
	return stable(measured.Sub(p.Apply(reference)).Abs().Sum())
}

func stable(v float64) float64 {
	return math.Round(v/costEpsilon) * costEpsilon
}

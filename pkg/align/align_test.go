package align_test

import (
	"math/rand/v2"
	"testing"

	"github.com/agentstation/dimcheck/pkg/align"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignRotatedBox(t *testing.T) {
	measured := dims.New(5.8, 4.1, 2.0)
	reference := dims.New(4.0, 2.0, 5.8)

	got := align.Align(measured, reference)

	assert.Equal(t, align.Permutation{2, 0, 1}, got.Permutation)
	assert.Equal(t, dims.New(5.8, 4.0, 2.0), got.Reference)
	assert.Equal(t, dims.New(0.0, 0.1, 0.0), got.Delta)
	assert.InDelta(t, 0.1, got.Cost, 1e-9)
}

func TestAlignExactMatch(t *testing.T) {
	ref := dims.New(10, 8, 4)
	got := align.Align(ref, ref)

	assert.True(t, got.Permutation.IsIdentity())
	assert.Equal(t, dims.Triple{}, got.Delta)
	assert.Zero(t, got.Cost)
}

func TestAlignTieBreak(t *testing.T) {
	tests := []struct {
		name      string
		measured  dims.Triple
		reference dims.Triple
		want      align.Permutation
	}{
		// Every ordering of a cube costs the same.
		{"cube", dims.New(3, 3, 3), dims.New(3, 3, 3), align.Permutation{0, 1, 2}},
		// Swapping the equal width and height is also a tie; identity comes first.
		{"square cross-section", dims.New(9, 4.1, 3.9), dims.New(9, 4, 4), align.Permutation{0, 1, 2}},
		// A uniform reference makes every ordering cost the same.
		{"decimal tie", dims.New(1.1, 1.2, 1.3), dims.New(1.2, 1.2, 1.2), align.Permutation{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := align.Align(tt.measured, tt.reference)
			assert.Equal(t, tt.want, first.Permutation)
			for i := 0; i < 10; i++ {
				assert.Equal(t, first, align.Align(tt.measured, tt.reference))
			}
		})
	}
}

func TestAlignIsOptimal(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	for i := 0; i < 500; i++ {
		measured := dims.New(rng.Float64()*20, rng.Float64()*20, rng.Float64()*20).Round1()
		reference := dims.New(rng.Float64()*20, rng.Float64()*20, rng.Float64()*20).Round1()

		got := align.Align(measured, reference)
		for _, p := range align.Permutations {
			require.LessOrEqual(t, got.Cost, align.Cost(measured, reference, p),
				"measured=%v reference=%v perm=%v", measured, reference, p)
		}
	}
}

func TestAlignReferenceOrderInvariant(t *testing.T) {
	measured := dims.New(12.3, 7.9, 4.2)
	reference := dims.New(12.0, 8.0, 4.0)

	want := align.Align(measured, reference)
	for _, p := range align.Permutations {
		got := align.Align(measured, p.Apply(reference))
		assert.InDelta(t, want.Cost, got.Cost, 1e-9)
		assert.Equal(t, want.Delta, got.Delta)
	}
}

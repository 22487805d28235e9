package dims_test

import (
	"math"
	"testing"

	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/stretchr/testify/assert"
)

func TestTripleValidity(t *testing.T) {
	tests := []struct {
		name       string
		triple     dims.Triple
		valid      bool
		degenerate bool
	}{
		{"ordinary", dims.New(5.8, 4.1, 2.0), true, false},
		{"all zero", dims.Triple{}, true, true},
		{"one zero", dims.New(0, 1, 1), true, false},
		{"negative", dims.New(-1, 1, 1), false, false},
		{"nan", dims.New(math.NaN(), 1, 1), false, false},
		{"inf", dims.New(1, math.Inf(1), 1), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.triple.Valid())
			assert.Equal(t, tt.degenerate, tt.triple.Degenerate())
		})
	}
}

func TestRoundHalfEven(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.2049, 0.2},
		{0.25, 0.2},
		{0.26, 0.3},
		{5.75, 5.8},
		{0.20000000000000018, 0.2},
		{-0.04, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dims.RoundHalfEven(tt.in, 1), "round(%v)", tt.in)
	}
	assert.False(t, math.Signbit(dims.RoundHalfEven(-0.04, 1)))
}

func TestFixed(t *testing.T) {
	assert.Equal(t, 0.1, dims.Fixed(4.1-4.0, 2))
	assert.Equal(t, 0.24, dims.Fixed(0.245, 2))
	assert.Equal(t, -0.3, dims.Fixed(-0.30000000000000004, 2))
	assert.Equal(t, 0.0, dims.Fixed(-0.001, 2))
	assert.True(t, math.IsNaN(dims.Fixed(math.NaN(), 2)))
}

func TestTripleArithmetic(t *testing.T) {
	a := dims.New(5.8, 4.1, 2.0)
	b := dims.New(5.8, 4.0, 2.0)

	assert.Equal(t, dims.New(0, 0.1, 0), a.Sub(b).Fixed(2))
	assert.Equal(t, dims.New(1, 2, 3), dims.New(-1, 2, -3).Abs())
	assert.InDelta(t, 11.9, a.Sum(), 1e-9)
	assert.Equal(t, []float64{5.8, 4.1, 2.0}, a.Slice())
	assert.Equal(t, "5.8 x 4.1 x 2.0", a.String())
	assert.Equal(t, "Height", dims.Height.String())
}

func TestTripleSorted(t *testing.T) {
	want := dims.New(5.8, 4.0, 2.0)
	for _, in := range []dims.Triple{
		dims.New(4.0, 2.0, 5.8),
		dims.New(2.0, 5.8, 4.0),
		dims.New(5.8, 4.0, 2.0),
	} {
		assert.Equal(t, want, in.Sorted(), "Sorted(%v)", in)
	}
	assert.Equal(t, dims.New(3, 3, 1), dims.New(3, 1, 3).Sorted())
}

// Package forest implements a bagged multi-output regression forest and an
// exhaustive cross-validated grid search over its hyperparameters.
//
// It backs the rim-plane correction model: given the per-axis measurement
// errors of a unit, predict the eight plane parameters used to correct the
// scanner. Training is reproducible: every tree draws its bootstrap sample
// from a generator seeded by the forest seed and the tree's position.
package forest

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/agentstation/dimcheck/pkg/errors"
)

// Params are the forest hyperparameters.
type Params struct {
	// Estimators is the number of trees.
	Estimators int `yaml:"estimators" json:"estimators"`
	// MaxDepth limits tree depth; zero means unlimited.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
	// MinSamplesSplit is the smallest node that may be split.
	MinSamplesSplit int `yaml:"min_samples_split" json:"min_samples_split"`
}

// DefaultParams mirrors the usual library defaults.
func DefaultParams() Params {
	return Params{Estimators: 100, MaxDepth: 0, MinSamplesSplit: 2}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.Estimators < 1 {
		return errors.NewValidationError("estimators", p.Estimators, "must be at least 1")
	}
	if p.MaxDepth < 0 {
		return errors.NewValidationError("max_depth", p.MaxDepth, "must not be negative")
	}
	if p.MinSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", p.MinSamplesSplit, "must be at least 2")
	}
	return nil
}

// Forest is a fitted ensemble of regression trees.
type Forest struct {
	Params   Params   `yaml:"params"`
	Seed     uint64   `yaml:"seed"`
	Features []string `yaml:"features,omitempty"`
	Targets  []string `yaml:"targets,omitempty"`
	Trees    []*Tree  `yaml:"trees"`

	inputs  int
	outputs int
}

// Fit grows p.Estimators trees on bootstrap samples of (x, y).
func Fit(x, y [][]float64, p Params, seed uint64) (*Forest, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	inputs, outputs, err := shape(x, y)
	if err != nil {
		return nil, err
	}

	f := &Forest{Params: p, Seed: seed, inputs: inputs, outputs: outputs}
	f.Trees = make([]*Tree, p.Estimators)
	for t := range f.Trees {
		rng := rand.New(rand.NewPCG(seed, uint64(t)))
		f.Trees[t] = growTree(x, y, bootstrap(len(x), rng), p)
	}
	return f, nil
}

// Inputs returns the number of features the forest was trained on.
func (f *Forest) Inputs() int { return f.inputs }

// Outputs returns the number of predicted values.
func (f *Forest) Outputs() int { return f.outputs }

// Predict averages the tree predictions for one feature vector.
func (f *Forest) Predict(x []float64) ([]float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return nil, errors.ErrNotTrained
	}
	if len(x) != f.inputs {
		return nil, errors.NewValidationError("features", len(x), "feature count does not match the trained forest")
	}
	out := make([]float64, f.outputs)
	for _, t := range f.Trees {
		floats.Add(out, t.Predict(x))
	}
	floats.Scale(1/float64(len(f.Trees)), out)
	return out, nil
}

// PredictAll predicts every row of x.
func (f *Forest) PredictAll(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		p, err := f.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// MSE is the mean squared error over every output of every row.
func MSE(want, got [][]float64) float64 {
	var sum float64
	var n int
	for i := range want {
		for k := range want[i] {
			d := want[i][k] - got[i][k]
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Split shuffles rows with a seeded generator and holds out
// ceil(fraction*n) of them for testing.
func Split(x, y [][]float64, fraction float64, seed uint64) (xTrain, yTrain, xTest, yTest [][]float64) {
	n := len(x)
	nTest := min(max(int(math.Ceil(float64(n)*fraction)), 0), n)

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	for i, p := range perm {
		if i < nTest {
			xTest, yTest = append(xTest, x[p]), append(yTest, y[p])
		} else {
			xTrain, yTrain = append(xTrain, x[p]), append(yTrain, y[p])
		}
	}
	return xTrain, yTrain, xTest, yTest
}

func shape(x, y [][]float64) (inputs, outputs int, err error) {
	if len(x) == 0 {
		return 0, 0, errors.NewValidationError("x", 0, "no training rows")
	}
	if len(x) != len(y) {
		return 0, 0, errors.NewValidationError("y", len(y), "row count differs from x")
	}
	inputs, outputs = len(x[0]), len(y[0])
	if inputs == 0 || outputs == 0 {
		return 0, 0, errors.NewValidationError("x", inputs, "rows must have at least one feature and one target")
	}
	for i := range x {
		if len(x[i]) != inputs || len(y[i]) != outputs {
			return 0, 0, errors.NewValidationError("row", i, "ragged training data")
		}
	}
	return inputs, outputs, nil
}

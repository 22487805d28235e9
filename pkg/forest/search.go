package forest

import (
	"context"
	"math/rand/v2"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Grid lists candidate values per hyperparameter. A zero MaxDepth entry
// means unlimited depth.
type Grid struct {
	Estimators      []int `yaml:"estimators" json:"estimators"`
	MaxDepth        []int `yaml:"max_depth" json:"max_depth"`
	MinSamplesSplit []int `yaml:"min_samples_split" json:"min_samples_split"`
}

// DefaultGrid is the 36-point grid used to tune the rim-plane model.
func DefaultGrid() Grid {
	return Grid{
		Estimators:      []int{50, 100, 200},
		MaxDepth:        []int{0, 10, 20, 30},
		MinSamplesSplit: []int{2, 5, 10},
	}
}

// Combinations expands the grid with MaxDepth varying slowest and
// Estimators fastest. Ties in the search resolve to the earliest entry.
func (g Grid) Combinations() []Params {
	out := make([]Params, 0, len(g.Estimators)*len(g.MaxDepth)*len(g.MinSamplesSplit))
	for _, d := range g.MaxDepth {
		for _, s := range g.MinSamplesSplit {
			for _, e := range g.Estimators {
				out = append(out, Params{Estimators: e, MaxDepth: d, MinSamplesSplit: s})
			}
		}
	}
	return out
}

// CVResult is the cross-validated score of one grid point.
type CVResult struct {
	Params Params    `yaml:"params" json:"params"`
	Scores []float64 `yaml:"scores" json:"scores"`
	Mean   float64   `yaml:"mean" json:"mean"`
	StdDev float64   `yaml:"std_dev" json:"std_dev"`
}

// SearchResult holds every grid point's score and the refitted best model.
type SearchResult struct {
	Best      Params     `yaml:"best" json:"best"`
	BestScore float64    `yaml:"best_score" json:"best_score"`
	Results   []CVResult `yaml:"results" json:"results"`
	Model     *Forest    `yaml:"-" json:"-"`
}

// SearchOption configures GridSearch.
type SearchOption func(*searchOptions) error

type searchOptions struct {
	folds       int
	seed        uint64
	concurrency int
	onResult    func(CVResult)
}

// WithFolds sets the number of cross-validation folds.
func WithFolds(k int) SearchOption {
	return func(o *searchOptions) error {
		if k < 2 {
			return errors.NewValidationError("folds", k, "must be at least 2")
		}
		o.folds = k
		return nil
	}
}

// WithSeed sets the base seed for every forest fitted during the search.
func WithSeed(seed uint64) SearchOption {
	return func(o *searchOptions) error {
		o.seed = seed
		return nil
	}
}

// WithConcurrency limits how many grid points are evaluated at once.
func WithConcurrency(n int) SearchOption {
	return func(o *searchOptions) error {
		if n < 1 {
			return errors.NewValidationError("concurrency", n, "must be at least 1")
		}
		o.concurrency = n
		return nil
	}
}

// WithResultHook registers a callback invoked as each grid point finishes.
// Calls may come from several goroutines.
func WithResultHook(fn func(CVResult)) SearchOption {
	return func(o *searchOptions) error {
		o.onResult = fn
		return nil
	}
}

// GridSearch scores every grid point by negative mean squared error under
// k-fold cross-validation, picks the highest mean score and refits it on
// all rows. Results do not depend on the concurrency level.
func GridSearch(ctx context.Context, x, y [][]float64, grid Grid, opts ...SearchOption) (*SearchResult, error) {
	o := &searchOptions{
		folds:       constants.DefaultFolds,
		seed:        constants.DefaultSeed,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if _, _, err := shape(x, y); err != nil {
		return nil, err
	}
	if len(x) < o.folds {
		return nil, errors.NewValidationError("rows", len(x), "fewer rows than cross-validation folds")
	}

	combos := grid.Combinations()
	if len(combos) == 0 {
		return nil, errors.NewValidationError("grid", grid, "grid has no combinations")
	}
	for _, p := range combos {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	folds := kFold(len(x), o.folds)
	results := make([]CVResult, len(combos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, p := range combos {
		g.Go(func() error {
			res, err := crossValidate(gctx, x, y, p, folds, o.seed^uint64(i)<<32)
			if err != nil {
				return err
			}
			results[i] = res
			if o.onResult != nil {
				o.onResult(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := range results {
		if results[i].Mean > results[best].Mean {
			best = i
		}
	}

	model, err := Fit(x, y, results[best].Params, o.seed)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Best:      results[best].Params,
		BestScore: results[best].Mean,
		Results:   results,
		Model:     model,
	}, nil
}

func crossValidate(ctx context.Context, x, y [][]float64, p Params, folds [][2]int, seed uint64) (CVResult, error) {
	res := CVResult{Params: p, Scores: make([]float64, len(folds))}
	for k, fold := range folds {
		if err := ctx.Err(); err != nil {
			return CVResult{}, errors.Join(errors.ErrCanceled, err)
		}
		xTrain, yTrain, xTest, yTest := holdOut(x, y, fold[0], fold[1])

		f, err := Fit(xTrain, yTrain, p, seed+uint64(k))
		if err != nil {
			return CVResult{}, err
		}
		pred, err := f.PredictAll(xTest)
		if err != nil {
			return CVResult{}, err
		}
		res.Scores[k] = -MSE(yTest, pred)
	}

	var err error
	if res.Mean, err = stats.Mean(res.Scores); err != nil {
		return CVResult{}, err
	}
	if res.StdDev, err = stats.StandardDeviation(res.Scores); err != nil {
		return CVResult{}, err
	}
	return res, nil
}

// kFold returns contiguous [start, end) test ranges. The first n%k folds
// are one row larger.
func kFold(n, k int) [][2]int {
	out := make([][2]int, k)
	start := 0
	for i := range out {
		size := n / k
		if i < n%k {
			size++
		}
		out[i] = [2]int{start, start + size}
		start += size
	}
	return out
}

func holdOut(x, y [][]float64, start, end int) (xTrain, yTrain, xTest, yTest [][]float64) {
	for i := range x {
		if i >= start && i < end {
			xTest, yTest = append(xTest, x[i]), append(yTest, y[i])
		} else {
			xTrain, yTrain = append(xTrain, x[i]), append(yTrain, y[i])
		}
	}
	return xTrain, yTrain, xTest, yTest
}

// Shuffle returns x and y reordered by the same seeded permutation.
func Shuffle(x, y [][]float64, seed uint64) ([][]float64, [][]float64) {
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(len(x))
	xs, ys := make([][]float64, len(x)), make([][]float64, len(y))
	for i, p := range perm {
		xs[i], ys[i] = x[p], y[p]
	}
	return xs, ys
}

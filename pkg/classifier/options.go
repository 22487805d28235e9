package classifier

import (
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Option configures model construction and training.
type Option func(*options) error

type options struct {
	k            int
	testFraction float64
	seed         uint64
	sortedAxes   bool
}

func defaultOptions() *options {
	return &options{
		k:            constants.DefaultNeighbors,
		testFraction: constants.DefaultTestFraction,
		seed:         constants.DefaultSeed,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithK sets the number of neighbours consulted per vote.
func WithK(k int) Option {
	return func(o *options) error {
		if k < 1 {
			return errors.NewValidationError("k", k, "must be at least 1")
		}
		o.k = k
		return nil
	}
}

// WithTestFraction sets the share of samples held out for evaluation.
func WithTestFraction(f float64) Option {
	return func(o *options) error {
		if f < 0 || f >= 1 {
			return errors.NewValidationError("test_fraction", f, "must be in [0, 1)")
		}
		o.testFraction = f
		return nil
	}
}

// WithSeed sets the seed of the train/test shuffle.
func WithSeed(seed uint64) Option {
	return func(o *options) error {
		o.seed = seed
		return nil
	}
}

// WithSortedAxes makes distances ignore orientation: samples and queries are
// compared by their axes in descending order.
func WithSortedAxes() Option {
	return func(o *options) error {
		o.sortedAxes = true
		return nil
	}
}

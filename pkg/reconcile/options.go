package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/logging"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

type options struct {
	tolerance tolerance.Tolerance
	selection []string
	logger    *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		tolerance: tolerance.Default(),
		logger:    logging.Default(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithTolerance sets the per-axis tolerance.
func WithTolerance(t tolerance.Tolerance) Option {
	return func(o *options) error {
		if err := t.Validate(); err != nil {
			return err
		}
		o.tolerance = t
		return nil
	}
}

// WithSelection restricts reconciliation to the given box labels. Units
// classified as any other label are reported unresolved. An empty selection
// uses the whole catalog.
func WithSelection(labels ...string) Option {
	return func(o *options) error {
		for _, l := range labels {
			if l == "" {
				return &errors.ValidationError{Field: "selection", Message: "labels cannot be empty"}
			}
		}
		o.selection = labels
		return nil
	}
}

// WithLogger sets the logger used for per-run diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		o.logger = logger
		return nil
	}
}

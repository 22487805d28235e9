package dimcheck

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/logging"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Option is a function that configures a Checker instance
type Option func(*config) error

// config holds the configuration for a Checker instance
type config struct {
	catalog     *catalogs.Catalog
	catalogPath string
	classifier  classifier.Classifier
	modelPath   string
	tolerance   tolerance.Tolerance
	selection   []string
	logger      *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		tolerance: tolerance.Default(),
		logger:    logging.Default(),
	}
}

func (c *config) apply(opts ...Option) (*config, error) {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithCatalog sets the reference catalog.
func WithCatalog(cat *catalogs.Catalog) Option {
	return func(c *config) error {
		if cat == nil {
			return &errors.ValidationError{Field: "catalog", Message: "cannot be nil"}
		}
		c.catalog = cat
		return nil
	}
}

// WithCatalogFile loads the reference catalog from a YAML, CSV or xlsx file.
func WithCatalogFile(path string) Option {
	return func(c *config) error {
		c.catalogPath = path
		return nil
	}
}

// WithClassifier sets the size classifier. Without one, units are matched
// to the nearest reference box.
func WithClassifier(cl classifier.Classifier) Option {
	return func(c *config) error {
		if cl == nil {
			return &errors.ValidationError{Field: "classifier", Message: "cannot be nil"}
		}
		c.classifier = cl
		return nil
	}
}

// WithModelFile loads a trained KNN model from path.
func WithModelFile(path string) Option {
	return func(c *config) error {
		c.modelPath = path
		return nil
	}
}

// WithTolerance sets the per-axis tolerance.
func WithTolerance(t tolerance.Tolerance) Option {
	return func(c *config) error {
		if err := t.Validate(); err != nil {
			return err
		}
		c.tolerance = t
		return nil
	}
}

// WithSelection restricts reconciliation to the given box labels.
func WithSelection(labels ...string) Option {
	return func(c *config) error {
		c.selection = labels
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		c.logger = logger
		return nil
	}
}

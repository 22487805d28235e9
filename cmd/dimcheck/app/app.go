// Package app provides the application context and dependency management
// for the dimcheck CLI. It centralizes configuration, logging and the lazily
// loaded catalog and model that commands share.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck"
	"github.com/agentstation/dimcheck/internal/cmd/application"
	"github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// App represents the dimcheck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Lazily loaded, shared across commands
	mu         sync.Mutex
	catalog    *catalogs.Catalog
	classifier classifier.Classifier
	modelDone  bool
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and config file and can be
// replaced with functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Settings returns the resolved file locations and default tolerance.
func (a *App) Settings() application.Settings {
	return application.Settings{
		CatalogPath: a.config.CatalogPath,
		ModelPath:   a.config.ModelPath,
		ModelsDir:   a.config.ModelsDir,
		OutputDir:   a.config.OutputDir,
		PrefsPath:   a.config.PrefsPath,
		DatasetPath: a.config.DatasetPath,
		Tolerance:   a.config.Tolerance,
	}
}

// Catalog returns the reference catalog, loading it on first use.
func (a *App) Catalog() (*catalogs.Catalog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog != nil {
		return a.catalog, nil
	}
	if a.config.CatalogPath == "" {
		return nil, errors.NewConfigError("catalog", "no catalog configured: set catalog_path, DIMCHECK_CATALOG_PATH or --catalog", nil)
	}

	cat, err := catalogs.LoadFile(a.config.CatalogPath)
	if err != nil {
		return nil, err
	}
	for _, dup := range cat.Duplicates() {
		a.logger.Warn().Str("box", dup).Str("path", a.config.CatalogPath).Msg("Duplicate box type ignored")
	}
	a.logger.Debug().Int("boxes", cat.Len()).Str("path", a.config.CatalogPath).Msg("Loaded catalog")
	a.catalog = cat
	return cat, nil
}

// Classifier returns the configured model. Without model_path the newest
// model in models_dir is used; with neither it returns nil.
func (a *App) Classifier() (classifier.Classifier, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.modelDone {
		return a.classifier, nil
	}

	path := a.config.ModelPath
	if path == "" {
		latest, err := classifier.LatestModel(a.config.ModelsDir)
		if err != nil {
			return nil, err
		}
		path = latest
	}
	if path != "" {
		m, err := classifier.LoadFile(path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug().Str("path", path).Int("k", m.K()).Msg("Loaded model")
		a.classifier = m
	}
	a.modelDone = true
	return a.classifier, nil
}

// Checker builds a checker over the app's catalog and model. Extra options
// are applied last and win.
func (a *App) Checker(opts ...dimcheck.Option) (dimcheck.Checker, error) {
	cat, err := a.Catalog()
	if err != nil {
		return nil, err
	}
	cl, err := a.Classifier()
	if err != nil {
		return nil, err
	}

	base := []dimcheck.Option{
		dimcheck.WithCatalog(cat),
		dimcheck.WithTolerance(a.config.Tolerance),
		dimcheck.WithLogger(a.logger),
	}
	if cl != nil {
		base = append(base, dimcheck.WithClassifier(cl))
	}
	return dimcheck.New(append(base, opts...)...)
}

// Prefs loads the saved preferences.
func (a *App) Prefs() (*prefs.Prefs, error) {
	return prefs.Load(a.config.PrefsPath)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCatalog sets a preloaded catalog (useful for testing).
func WithCatalog(cat *catalogs.Catalog) Option {
	return func(a *App) error {
		a.catalog = cat
		return nil
	}
}

// WithClassifier sets a preloaded model (useful for testing).
func WithClassifier(cl classifier.Classifier) Option {
	return func(a *App) error {
		a.classifier = cl
		a.modelDone = true
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// Package application defines what dimcheck commands need from the running
// application. Commands accept this interface so tests can pass a Mock.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck"
	"github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Settings are the resolved file locations and defaults commands work with.
type Settings struct {
	CatalogPath string
	ModelPath   string
	ModelsDir   string
	OutputDir   string
	PrefsPath   string
	DatasetPath string
	Tolerance   tolerance.Tolerance
}

// Application provides the dependencies commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Catalog returns the reference catalog, loading it on first use.
	Catalog() (*catalogs.Catalog, error)

	// Classifier returns the configured trained model, or nil when none is
	// configured and the checker should fall back to nearest reference.
	Classifier() (classifier.Classifier, error)

	// Checker builds a checker over the catalog and classifier with extra options.
	Checker(opts ...dimcheck.Option) (dimcheck.Checker, error)

	// Prefs loads the saved operator preferences.
	Prefs() (*prefs.Prefs, error)

	// Settings returns the resolved configuration.
	Settings() Settings

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

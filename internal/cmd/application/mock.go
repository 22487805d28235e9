package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dimcheck"
	"github.com/agentstation/dimcheck/internal/prefs"
	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    CatalogFunc: func() (*catalogs.Catalog, error) {
//	        return testCatalog, nil
//	    },
//	}
//	cmd := check.NewCommand(mock)
type Mock struct {
	CatalogFunc      func() (*catalogs.Catalog, error)
	ClassifierFunc   func() (classifier.Classifier, error)
	CheckerFunc      func(opts ...dimcheck.Option) (dimcheck.Checker, error)
	PrefsFunc        func() (*prefs.Prefs, error)
	SettingsFunc     func() Settings
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Catalog returns a catalog using the mock function or an empty catalog.
func (m *Mock) Catalog() (*catalogs.Catalog, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc()
	}
	return catalogs.New(), nil
}

// Classifier returns a classifier using the mock function or nil.
func (m *Mock) Classifier() (classifier.Classifier, error) {
	if m.ClassifierFunc != nil {
		return m.ClassifierFunc()
	}
	return nil, nil
}

// Checker returns a checker using the mock function, or builds one over the
// mock catalog and classifier.
func (m *Mock) Checker(opts ...dimcheck.Option) (dimcheck.Checker, error) {
	if m.CheckerFunc != nil {
		return m.CheckerFunc(opts...)
	}
	cat, err := m.Catalog()
	if err != nil {
		return nil, err
	}
	base := []dimcheck.Option{dimcheck.WithCatalog(cat), dimcheck.WithLogger(m.Logger())}
	cl, err := m.Classifier()
	if err != nil {
		return nil, err
	}
	if cl != nil {
		base = append(base, dimcheck.WithClassifier(cl))
	}
	return dimcheck.New(append(base, opts...)...)
}

// Prefs returns prefs using the mock function or empty prefs.
func (m *Mock) Prefs() (*prefs.Prefs, error) {
	if m.PrefsFunc != nil {
		return m.PrefsFunc()
	}
	return &prefs.Prefs{}, nil
}

// Settings returns settings using the mock function or the default tolerance.
func (m *Mock) Settings() Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return Settings{Tolerance: tolerance.Default()}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)

// Package constants provides shared constants used throughout the dimcheck
// codebase: file permissions, default paths, retry limits and the numeric
// defaults of the reconciliation pipeline.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Reconciliation defaults
const (
	// DefaultTolerance is the per-axis tolerance used when none is configured
	DefaultTolerance = 0.2

	// DefaultNeighbors is the number of neighbours consulted by the size classifier
	DefaultNeighbors = 3

	// DefaultTestFraction is the share of samples held out when training
	DefaultTestFraction = 0.2

	// DefaultSeed makes training splits and forest bootstraps reproducible
	DefaultSeed = 42

	// DefaultFolds is the number of cross-validation folds used by grid search
	DefaultFolds = 5

	// DeltaPlaces is the number of decimals kept on reported deltas
	DeltaPlaces = 2

	// MeasurePlaces is the number of decimals kept on ingested measurements
	MeasurePlaces = 1

	// RatePlaces is the number of decimals kept on the success rate
	RatePlaces = 2
)

// Retry constants for export sinks
const (
	// MaxRetries is the maximum number of attempts to write a locked output file
	MaxRetries = 5

	// RetryBackoff is the delay between write attempts
	RetryBackoff = 1 * time.Second
)

// Path constants
const (
	// DefaultHomeDir holds preferences and trained models
	DefaultHomeDir = "~/.dimcheck"

	// DefaultPrefsFile is the preferences file name inside DefaultHomeDir
	DefaultPrefsFile = "prefs.yaml"

	// DefaultModelsDir is the models directory name inside DefaultHomeDir
	DefaultModelsDir = "models"

	// DefaultCombinedLog is the output name of the combine command
	DefaultCombinedLog = "dims.log"
)

// Format constants
const (
	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)

// Package constants provides shared constants for CLI commands.
package constants

// Output format names accepted by --format.
const (
	// FormatTable is the default table output format.
	FormatTable = "table"

	// FormatJSON outputs data as JSON.
	FormatJSON = "json"

	// FormatYAML outputs data as YAML.
	FormatYAML = "yaml"

	// FormatMarkdown outputs data as markdown tables.
	FormatMarkdown = "markdown"
)

// Default output locations relative to the working directory.
const (
	// DefaultOutputDir receives the xlsx reports.
	DefaultOutputDir = "excel_output"

	// DefaultDatasetFile is the rim-plane training dataset.
	DefaultDatasetFile = "APU_train.csv"

	// DefaultForestFile is the tuned forest artifact.
	DefaultForestFile = "parameter_prediction_model.yaml"
)

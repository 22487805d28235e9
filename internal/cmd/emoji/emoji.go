// Package emoji provides symbol constants for CLI output, so pass, fail and
// warning markers look the same in every command.
package emoji

const (
	// Success marks a passing unit, a selected box or a finished operation.
	Success = "✓"

	// Error marks an out-of-tolerance axis or a failed operation.
	Error = "✗"

	// Warning marks non-fatal issues such as missing selected boxes.
	Warning = "!"

	// Unknown marks units whose box could not be resolved.
	Unknown = "?"

	// Info marks informational lines.
	Info = "i"
)

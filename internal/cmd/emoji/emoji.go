// Package emoji provides symbol constants for CLI output.
// These symbols keep status markers consistent across sspmerge commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success marks a completed operation or a passing check.
	Success = "✓"

	// Error marks a failed operation or a validation error.
	Error = "✗"

	// Stop marks a shutdown.
	Stop = "✗"

	// Warning marks a non-fatal issue such as a structural warning.
	Warning = "!"

	// Info marks informational output.
	Info = "i"

	// New, Changed, Unchanged and Removed mark reconciliation outcomes.
	New       = "+"
	Changed   = "~"
	Unchanged = "="
	Removed   = "-"
)

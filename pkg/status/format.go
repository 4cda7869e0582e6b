package status

import (
	"fmt"
)

// FileFormatter defines how run results should be formatted
type FileFormatter interface {
	// FormatUpdated formats the notice for a modified file
	FormatUpdated(path string, dryRun bool) string

	// FormatTotal formats the final summary line
	FormatTotal(modified int, dryRun bool) string

	// FormatFailure formats a per-file error
	FormatFailure(f Failure) string

	// FormatDiagnostic formats a content diagnostic
	FormatDiagnostic(d Diagnostic) string
}

// DefaultFileFormatter provides the plain line format scripts can parse
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatUpdated returns "Updated: <path>", or "Would update: <path>" in a dry run
func (f *DefaultFileFormatter) FormatUpdated(path string, dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("Would update: %s", path)
	}
	return fmt.Sprintf("Updated: %s", path)
}

// FormatTotal returns "Total files updated: <n>"
func (f *DefaultFileFormatter) FormatTotal(modified int, dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("Total files that would be updated: %d", modified)
	}
	return fmt.Sprintf("Total files updated: %d", modified)
}

// FormatFailure formats a per-file error
func (f *DefaultFileFormatter) FormatFailure(fail Failure) string {
	return fmt.Sprintf("Failed: %s: %v", fail.Path, fail.Err)
}

// FormatDiagnostic formats a content diagnostic
func (f *DefaultFileFormatter) FormatDiagnostic(d Diagnostic) string {
	return fmt.Sprintf("%s:%d: %s", d.Path, d.Offset, d.Message)
}

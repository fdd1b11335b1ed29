// Package errors provides a lightweight structured error type (SiteError)
// for category-based classification across the build pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a build error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig ErrorCategory = "config"
	CategoryParse  ErrorCategory = "parse"

	// Rendering errors
	CategoryLayout   ErrorCategory = "layout"
	CategoryTemplate ErrorCategory = "template"
	CategoryRender   ErrorCategory = "render"

	// Output and verification errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryLinkCheck  ErrorCategory = "linkcheck"

	// Runtime and infrastructure errors
	CategoryCache    ErrorCategory = "cache"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the whole build
	SeverityError   ErrorSeverity = "error"   // Fails the document, build continues
	SeverityWarning ErrorSeverity = "warning" // Reported, build unaffected
)

// SiteError is a structured error with category, severity, and context.
//
// Per-document failures carry SeverityError: the batch keeps going and the
// build report lists every offending document at the end of the pass.
type SiteError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SiteError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *SiteError) WithContext(key string, value any) *SiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SiteError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SiteError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapError wraps an existing error with SeverityError.
func WrapError(err error, category ErrorCategory, message string) *SiteError {
	return Wrap(err, category, SeverityError, message)
}

// IsCategory checks if an error belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := err.(*SiteError); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or CategoryInternal if it
// is not a SiteError.
func GetCategory(err error) ErrorCategory {
	if se, ok := err.(*SiteError); ok {
		return se.Category
	}
	return CategoryInternal
}

// IsFatal reports whether an error should abort the whole build rather than
// just the offending document.
func IsFatal(err error) bool {
	if se, ok := err.(*SiteError); ok {
		return se.Severity == SeverityFatal
	}
	return false
}

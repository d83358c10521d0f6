package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryConfig     Category = "config"
	CategoryEffect     Category = "effect"
	CategoryRender     Category = "render"
	CategoryValidation Category = "validation"
	CategoryCLI        Category = "cli"
	CategoryLive       Category = "live"
)

// Location represents a position in a source or configuration file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SummonError is a structured error with a registered code, a category and
// optional hints for the reader.
type SummonError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (structural, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position the error refers to, if any.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SummonError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SummonError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file position to the error.
func (e *SummonError) WithLocation(file string, line, column int) *SummonError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SummonError) WithSuggestion(s string) *SummonError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *SummonError) WithDetail(d string) *SummonError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *SummonError) Wrap(err error) *SummonError {
	e.Wrapped = err
	return e
}

// New creates a SummonError from a registered error code.
func New(code string) *SummonError {
	template, ok := registry[code]
	if !ok {
		return &SummonError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SummonError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new SummonError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *SummonError {
	return &SummonError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a SummonError.
func FromError(err error, code string) *SummonError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SummonError); ok {
		return se
	}
	return New(code).Wrap(err)
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryURL    Category = "url"
	CategoryMatch  Category = "match"
	CategoryConfig Category = "config"
	CategoryGuard  Category = "guard"
	CategoryCLI    Category = "cli"
)

// RouteError is a structured error with a stable code, the offending route
// or URL fragment, and a fix suggestion.
type RouteError struct {
	// Code is a unique error identifier (e.g., "R100").
	Code string

	// Category is the error type (url, match, config, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Subject is the route path or URL segment the error is about.
	Subject string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: '%s'", msg, e.Subject)
	}
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RouteError with the same code.
// This lets callers match against the sentinel values of this package.
func (e *RouteError) Is(target error) bool {
	t, ok := target.(*RouteError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSubject records the route path or URL part the error is about.
func (e *RouteError) WithSubject(s string) *RouteError {
	e.Subject = s
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *RouteError) WithDetailf(format string, args ...any) *RouteError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// New creates a RouteError from a registered error code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new RouteError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RouteError {
	return &RouteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RouteError.
func FromError(err error, code string) *RouteError {
	if err == nil {
		return nil
	}
	var re *RouteError
	if stderrors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first RouteError in err's chain, or "".
func Code(err error) string {
	var re *RouteError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// Is, As and Join re-export the standard library helpers so callers that
// import this package under the name "errors" keep them at hand.
var (
	Is   = stderrors.Is
	As   = stderrors.As
	Join = stderrors.Join
)

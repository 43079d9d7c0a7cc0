package errors

import (
	stderrors "errors"
	"fmt"
)

// Category groups error codes.
type Category string

const (
	CategoryRouting Category = "routing"
	CategoryTable   Category = "table"
	CategoryModule  Category = "module"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Location is where in the route tree an error happened.
type Location struct {
	RouteID string
	Path    string
}

// String returns "route <id>  <path>", omitting empty parts.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.RouteID != "" && l.Path != "":
		return fmt.Sprintf("route %s  %s", l.RouteID, l.Path)
	case l.RouteID != "":
		return "route " + l.RouteID
	default:
		return l.Path
	}
}

// ConsoleError is a coded error with an explanation and a hint.
type ConsoleError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ConsoleError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ConsoleError) Unwrap() error {
	return e.Wrapped
}

// WithLocation records the route and path.
func (e *ConsoleError) WithLocation(routeID, path string) *ConsoleError {
	e.Location = &Location{RouteID: routeID, Path: path}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ConsoleError) WithSuggestion(s string) *ConsoleError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *ConsoleError) WithDetail(d string) *ConsoleError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ConsoleError) Wrap(err error) *ConsoleError {
	e.Wrapped = err
	return e
}

// New creates a ConsoleError from a registered error code.
func New(code string) *ConsoleError {
	template, ok := registry[code]
	if !ok {
		return &ConsoleError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ConsoleError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates an uncoded ConsoleError with a formatted message.
func Newf(category Category, format string, args ...any) *ConsoleError {
	return &ConsoleError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Wrapf wraps err in a ConsoleError with the given code, or returns err
// unchanged if it already is one.
func Wrapf(err error, code string) *ConsoleError {
	if err == nil {
		return nil
	}
	var ce *ConsoleError
	if stderrors.As(err, &ce) {
		return ce
	}
	return New(code).Wrap(err)
}

package router

import (
	"errors"
	"fmt"
)

// Route table errors, wrapped with the offending route.
var (
	ErrDuplicateSibling  = errors.New("duplicate sibling route")
	ErrPathOutsideParent = errors.New("absolute child path does not extend its parent")
	ErrEmptyRoute        = errors.New("route provides nothing and has no children")
	ErrInvalidPattern    = errors.New("invalid route pattern")
	ErrMissingLazy       = errors.New("route declares capabilities but has no lazy supplier")
	ErrDuplicateID       = errors.New("duplicate route id")
)

// ErrMissingCapability is wrapped in a *ModuleLoadError when a segment lacks
// a capability its route declares.
var ErrMissingCapability = errors.New("missing declared capability")

// ErrSuperseded is returned to a navigation that a newer one replaced.
var ErrSuperseded = errors.New("navigation superseded")

// ModuleLoadError reports that a route's page module could not be loaded.
type ModuleLoadError struct {
	RouteID string
	Module  string
	Err     error
}

func (e *ModuleLoadError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("route %s: load module %q: %v", e.RouteID, e.Module, e.Err)
	}
	return fmt.Sprintf("route %s: load segment: %v", e.RouteID, e.Err)
}

func (e *ModuleLoadError) Unwrap() error { return e.Err }

// NoMatchError reports that no route consumes a path. Resolution records it
// on a NotFound result rather than returning it.
type NoMatchError struct {
	Path string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no route matches %q", e.Path)
}

// LoaderError reports that a route's loader failed.
type LoaderError struct {
	RouteID string
	Path    string
	Err     error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("route %s: loader for %q: %v", e.RouteID, e.Path, e.Err)
}

func (e *LoaderError) Unwrap() error { return e.Err }

// RedirectLoopError reports a redirect chain longer than the resolver allows.
type RedirectLoopError struct {
	Path string
	Hops []string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("too many redirects resolving %q (%d hops)", e.Path, len(e.Hops))
}

// ErrNoHistory is returned by Back and Forward at either end of history.
var ErrNoHistory = errors.New("no history entry in that direction")

// RenderError reports that a route's component panicked while rendering.
type RenderError struct {
	RouteID string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("route %s: render: %v", e.RouteID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

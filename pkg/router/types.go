package router

import (
	"context"
	"strings"

	"github.com/hatchet-dev/console/pkg/view"
)

// Capability flags what a route's page module contributes.
type Capability uint8

const (
	// CapLoader marks a route whose module exports a loader.
	CapLoader Capability = 1 << iota
	// CapComponent marks a route whose module exports a component.
	CapComponent

	// CapNone is a pure grouping route.
	CapNone Capability = 0
)

// Has reports whether every flag in o is set.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// String returns a "|" separated flag list.
func (c Capability) String() string {
	var parts []string
	if c.Has(CapLoader) {
		parts = append(parts, "loader")
	}
	if c.Has(CapComponent) {
		parts = append(parts, "component")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Exports returns the page module export names that supply c.
func (c Capability) Exports() []string {
	var names []string
	if c.Has(CapComponent) {
		names = append(names, ExportDefault)
	}
	if c.Has(CapLoader) {
		names = append(names, ExportLoader)
	}
	return names
}

// LoaderFunc prepares data for a route before it renders. Returning a
// *Redirect instead of data aborts the current resolution.
type LoaderFunc func(ctx context.Context, args LoaderArgs) (any, error)

// LoaderArgs is what a loader sees of the navigation.
type LoaderArgs struct {
	// Path is the canonical path being resolved, without basename.
	Path string

	// Query is the raw query string.
	Query string

	// RouteID is the ID of the route whose loader is running.
	RouteID string

	// Params are the path parameters bound across the whole matched chain.
	Params map[string]string

	parents map[string]any
}

// Param returns a bound path parameter.
func (a LoaderArgs) Param(name string) string {
	return a.Params[name]
}

// Parent returns the data an ancestor's loader produced in this navigation.
func (a LoaderArgs) Parent(routeID string) (any, bool) {
	v, ok := a.parents[routeID]
	return v, ok
}

// Segment is the materialized capability pair of a route.
type Segment struct {
	Loader    LoaderFunc
	Component view.Component
}

// Capabilities reports which parts of the segment are populated.
func (s Segment) Capabilities() Capability {
	var c Capability
	if s.Loader != nil {
		c |= CapLoader
	}
	if s.Component != nil {
		c |= CapComponent
	}
	return c
}

// LazyFunc materializes a route's segment. It is called at most once per
// SegmentCache for a successful load.
type LazyFunc func(ctx context.Context) (Segment, error)

// Route declares one node of the route tree.
type Route struct {
	// ID optionally names the route. Unnamed routes get their index path,
	// e.g. "0.2.1".
	ID string

	// Path is an absolute pattern ("/auth/login") that must extend the
	// parent's pattern, or a pattern relative to the parent ("login").
	Path string

	// Provides declares the capabilities the lazy segment supplies.
	Provides Capability

	// Lazy supplies the segment. It may be nil for pure grouping routes.
	Lazy LazyFunc

	// Children render inside this route's outlet.
	Children []*Route
}

// Redirect is the instruction a loader returns to retarget a navigation.
type Redirect struct {
	// To is the target path. It may carry a query string.
	To string
}

// RedirectTo builds a redirect instruction.
func RedirectTo(path string) *Redirect {
	return &Redirect{To: path}
}

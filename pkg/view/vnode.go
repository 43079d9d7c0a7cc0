package view

import "github.com/hatchet-dev/console/pkg/routepath"

// Kind discriminates node types.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <a>, ...
	KindText                 // escaped text
	KindFragment             // children without a wrapper
	KindRaw                  // trusted HTML, written verbatim
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Attrs holds element attributes. A value of "" renders a bare attribute.
type Attrs map[string]string

// VNode is a node in a rendered tree.
type VNode struct {
	Kind     Kind
	Tag      string
	Attrs    Attrs
	Children []*VNode
	Text     string
}

// Component renders a route segment.
type Component interface {
	Render(ctx *Context) *VNode
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx *Context) *VNode

// Render implements Component.
func (f ComponentFunc) Render(ctx *Context) *VNode {
	return f(ctx)
}

// Context is handed to a component when it renders.
type Context struct {
	// Path is the canonical path being rendered.
	Path string

	// Query is the raw query string.
	Query string

	// RouteID identifies the route the component belongs to.
	RouteID string

	// Params are the path parameters captured up to and including this route.
	Params map[string]string

	// Data is the value the route's loader returned, or nil.
	Data any

	// Basename is the path the app is mounted under. Href prefixes it.
	Basename string

	outlet *VNode
}

// NewContext builds a render context whose outlet is the given child tree.
func NewContext(path, query, routeID string, params map[string]string, data any, outlet *VNode) *Context {
	return &Context{
		Path:    path,
		Query:   query,
		RouteID: routeID,
		Params:  params,
		Data:    data,
		outlet:  outlet,
	}
}

// Outlet returns the nested route's output. It is nil for the leaf route.
func (c *Context) Outlet() *VNode {
	if c == nil {
		return nil
	}
	return c.outlet
}

// Href returns the browser URL of an app path.
func (c *Context) Href(path string) string {
	if c == nil {
		return path
	}
	return routepath.JoinBase(path, c.Basename)
}

// Link is A with the href resolved through Href.
func (c *Context) Link(path string, children ...*VNode) *VNode {
	return A(c.Href(path), children...)
}

// Param returns a path parameter, or "" when it is not bound.
func (c *Context) Param(name string) string {
	if c == nil {
		return ""
	}
	return c.Params[name]
}

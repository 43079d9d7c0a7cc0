package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hatchet-dev/console/pkg/routepath"
)

type segKind uint8

const (
	segStatic segKind = iota
	segParam
	segSplat
)

// patternSegment is one compiled segment of a route pattern.
type patternSegment struct {
	kind  segKind
	value string // literal for static segments, name for params
}

func (s patternSegment) String() string {
	switch s.kind {
	case segParam:
		return ":" + s.value
	case segSplat:
		return "*"
	default:
		return s.value
	}
}

func (s patternSegment) equal(o patternSegment) bool {
	if s.kind != o.kind {
		return false
	}
	if s.kind == segStatic {
		return strings.EqualFold(s.value, o.value)
	}
	return s.value == o.value
}

// Node is a compiled, immutable route.
type Node struct {
	id       string
	pattern  string
	own      []patternSegment
	full     []patternSegment
	provides Capability
	lazy     LazyFunc
	parent   *Node
	children []*Node
	depth    int
}

// ID returns the route ID.
func (n *Node) ID() string { return n.id }

// Pattern returns the full absolute pattern, e.g. "/workflows/:workflow".
func (n *Node) Pattern() string { return n.pattern }

// Provides returns the declared capabilities.
func (n *Node) Provides() Capability { return n.provides }

// Parent returns the enclosing route, or nil for a top-level route.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the nested routes in declaration order.
func (n *Node) Children() []*Node { return n.children }

// Depth is 0 for top-level routes.
func (n *Node) Depth() int { return n.depth }

// IsLayout reports whether the route has nested routes.
func (n *Node) IsLayout() bool { return len(n.children) > 0 }

// Tree is the compiled route table. It is safe for concurrent use.
type Tree struct {
	roots []*Node
	byID  map[string]*Node
}

// NewTree compiles and validates route declarations.
//
// Validation rejects unparsable patterns, absolute child paths that do not
// extend their parent, routes that provide nothing and have no children,
// missing lazy suppliers, duplicate IDs and ambiguous siblings. Two siblings
// are ambiguous when their patterns are equal up to parameter names and they
// are both leaves or both layouts; a leaf "/" next to a layout "/" is legal
// because only the leaf can end a match at that path.
func NewTree(routes ...*Route) (*Tree, error) {
	t := &Tree{byID: make(map[string]*Node)}
	roots, err := t.build(routes, nil, "")
	if err != nil {
		return nil, err
	}
	t.roots = roots
	return t, nil
}

// MustTree is NewTree that panics on error, for package-level tables.
func MustTree(routes ...*Route) *Tree {
	t, err := NewTree(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tree) build(routes []*Route, parent *Node, prefix string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(routes))
	seen := make(map[string]string)

	for i, r := range routes {
		index := strconv.Itoa(i)
		if prefix != "" {
			index = prefix + "." + index
		}
		if r == nil {
			return nil, fmt.Errorf("route %s: %w: nil route", index, ErrInvalidPattern)
		}

		id := r.ID
		if id == "" {
			id = index
		}
		if _, dup := t.byID[id]; dup {
			return nil, fmt.Errorf("route %s: %w", id, ErrDuplicateID)
		}

		own, full, err := compilePath(r.Path, parent)
		if err != nil {
			return nil, fmt.Errorf("route %s (%q): %w", id, r.Path, err)
		}
		if r.Provides == CapNone && len(r.Children) == 0 {
			return nil, fmt.Errorf("route %s (%q): %w", id, r.Path, ErrEmptyRoute)
		}
		if r.Provides != CapNone && r.Lazy == nil {
			return nil, fmt.Errorf("route %s (%q): %w", id, r.Path, ErrMissingLazy)
		}
		if len(full) > 0 && full[len(full)-1].kind == segSplat && len(r.Children) > 0 {
			return nil, fmt.Errorf("route %s (%q): %w: splat routes cannot have children", id, r.Path, ErrInvalidPattern)
		}
		if err := checkParamNames(full); err != nil {
			return nil, fmt.Errorf("route %s (%q): %w", id, r.Path, err)
		}

		key := siblingKey(full, len(r.Children) > 0)
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("route %s (%q) conflicts with route %s: %w", id, r.Path, other, ErrDuplicateSibling)
		}
		seen[key] = id

		n := &Node{
			id:       id,
			pattern:  formatPattern(full),
			own:      own,
			full:     full,
			provides: r.Provides,
			lazy:     r.Lazy,
			parent:   parent,
		}
		if parent != nil {
			n.depth = parent.depth + 1
		}
		t.byID[id] = n

		children, err := t.build(r.Children, n, index)
		if err != nil {
			return nil, err
		}
		n.children = children
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// compilePath returns the segments a route consumes and its full pattern.
func compilePath(path string, parent *Node) (own, full []patternSegment, err error) {
	segs, err := parsePattern(path)
	if err != nil {
		return nil, nil, err
	}
	if parent == nil {
		return segs, segs, nil
	}
	if n := len(parent.full); n > 0 && parent.full[n-1].kind == segSplat {
		return nil, nil, fmt.Errorf("%w: cannot nest under a splat route", ErrInvalidPattern)
	}

	if !strings.HasPrefix(path, "/") {
		full = make([]patternSegment, 0, len(parent.full)+len(segs))
		full = append(full, parent.full...)
		full = append(full, segs...)
		return segs, full, nil
	}

	if len(segs) < len(parent.full) {
		return nil, nil, ErrPathOutsideParent
	}
	for i, ps := range parent.full {
		if !ps.equal(segs[i]) {
			return nil, nil, ErrPathOutsideParent
		}
	}
	return segs[len(parent.full):], segs, nil
}

func parsePattern(path string) ([]patternSegment, error) {
	raw := routepath.Split(path)
	segs := make([]patternSegment, 0, len(raw))
	for i, s := range raw {
		switch {
		case s == "*":
			if i != len(raw)-1 {
				return nil, fmt.Errorf("%w: \"*\" must be the last segment", ErrInvalidPattern)
			}
			segs = append(segs, patternSegment{kind: segSplat})
		case strings.HasPrefix(s, ":"):
			name := s[1:]
			if name == "" || strings.ContainsAny(name, ":*") {
				return nil, fmt.Errorf("%w: bad parameter %q", ErrInvalidPattern, s)
			}
			segs = append(segs, patternSegment{kind: segParam, value: name})
		case strings.Contains(s, "*"):
			return nil, fmt.Errorf("%w: \"*\" must be a whole segment", ErrInvalidPattern)
		default:
			segs = append(segs, patternSegment{kind: segStatic, value: s})
		}
	}
	return segs, nil
}

func checkParamNames(full []patternSegment) error {
	seen := make(map[string]bool)
	for _, s := range full {
		if s.kind != segParam {
			continue
		}
		if seen[s.value] {
			return fmt.Errorf("%w: parameter %q bound twice", ErrInvalidPattern, s.value)
		}
		seen[s.value] = true
	}
	return nil
}

func siblingKey(full []patternSegment, layout bool) string {
	var b strings.Builder
	for _, s := range full {
		b.WriteByte('/')
		switch s.kind {
		case segParam:
			b.WriteByte(':')
		case segSplat:
			b.WriteByte('*')
		default:
			b.WriteString(strings.ToLower(s.value))
		}
	}
	if layout {
		b.WriteString("#layout")
	}
	return b.String()
}

func formatPattern(full []patternSegment) string {
	if len(full) == 0 {
		return "/"
	}
	parts := make([]string, len(full))
	for i, s := range full {
		parts[i] = s.String()
	}
	return "/" + strings.Join(parts, "/")
}

// Roots returns the top-level routes.
func (t *Tree) Roots() []*Node { return t.roots }

// Lookup returns the route with the given ID.
func (t *Tree) Lookup(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Len returns the number of routes.
func (t *Tree) Len() int { return len(t.byID) }

// Walk visits routes depth first in declaration order. Returning an error
// stops the walk.
func (t *Tree) Walk(fn func(n *Node) error) error {
	var visit func(nodes []*Node) error
	visit = func(nodes []*Node) error {
		for _, n := range nodes {
			if err := fn(n); err != nil {
				return err
			}
			if err := visit(n.children); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(t.roots)
}

// TableRow describes one route for listings.
type TableRow struct {
	ID      string `json:"id" yaml:"id"`
	Path    string `json:"path" yaml:"path"`
	Depth   int    `json:"depth" yaml:"depth"`
	Loader  bool   `json:"loader" yaml:"loader"`
	Layout  bool   `json:"layout" yaml:"layout"`
	Renders bool   `json:"component" yaml:"component"`
}

// Table lists every route in declaration order.
func (t *Tree) Table() []TableRow {
	rows := make([]TableRow, 0, len(t.byID))
	_ = t.Walk(func(n *Node) error {
		rows = append(rows, TableRow{
			ID:      n.id,
			Path:    n.pattern,
			Depth:   n.depth,
			Loader:  n.provides.Has(CapLoader),
			Layout:  n.IsLayout(),
			Renders: n.provides.Has(CapComponent),
		})
		return nil
	})
	return rows
}

package router

import (
	"net/url"
	"strings"

	"github.com/hatchet-dev/console/pkg/routepath"
)

// matched is one step of a matched chain.
type matched struct {
	node   *Node
	params map[string]string
}

// Match returns the chain of routes, root to leaf, that consumes path, and the
// parameters bound along it. path must be canonical (see routepath.Parse).
func (t *Tree) Match(path string) ([]*Node, map[string]string, bool) {
	chain, ok := matchNodes(t.roots, routepath.Split(path))
	if !ok {
		return nil, nil, false
	}
	nodes := make([]*Node, len(chain))
	params := make(map[string]string)
	for i, m := range chain {
		nodes[i] = m.node
		for k, v := range m.params {
			params[k] = v
		}
	}
	return nodes, params, true
}

// matchNodes tries siblings in declaration order. A route is selected when
// its own segments match and either a descendant consumes the rest or
// nothing is left. Descendants are tried first so a layout whose path is
// exhausted still prefers an index-like child.
func matchNodes(nodes []*Node, segs []string) ([]matched, bool) {
	for _, n := range nodes {
		params, used, ok := n.consume(segs)
		if !ok {
			continue
		}
		rest := segs[used:]
		if len(n.children) > 0 {
			if chain, ok := matchNodes(n.children, rest); ok {
				return append([]matched{{node: n, params: params}}, chain...), true
			}
		}
		if len(rest) == 0 {
			return []matched{{node: n, params: params}}, true
		}
	}
	return nil, false
}

// consume matches the route's own segments against the front of segs.
func (n *Node) consume(segs []string) (map[string]string, int, bool) {
	var params map[string]string
	bind := func(k, v string) {
		if params == nil {
			params = make(map[string]string)
		}
		params[k] = v
	}

	for i, ps := range n.own {
		if ps.kind == segSplat {
			parts := make([]string, 0, len(segs)-i)
			for _, s := range segs[i:] {
				v, err := url.PathUnescape(s)
				if err != nil {
					return nil, 0, false
				}
				parts = append(parts, v)
			}
			bind("*", strings.Join(parts, "/"))
			return params, len(segs), true
		}
		if i >= len(segs) {
			return nil, 0, false
		}
		switch ps.kind {
		case segStatic:
			v, err := url.PathUnescape(segs[i])
			if err != nil || !strings.EqualFold(v, ps.value) {
				return nil, 0, false
			}
		case segParam:
			v, err := routepath.Decode(segs[i])
			if err != nil || v == "" {
				return nil, 0, false
			}
			bind(ps.value, v)
		}
	}
	return params, len(n.own), true
}

package router

import (
	"context"
	"sync"
)

// NavigateOptions configures a navigation.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// Navigator keeps browser-like history on top of a Resolver. One Navigator
// serves one client; it is safe for concurrent use, and the most recently
// started navigation always wins.
type Navigator struct {
	resolver *Resolver

	mu      sync.Mutex
	entries []string
	index   int
	current *Resolution
	gen     uint64
	cancel  context.CancelFunc
}

// NewNavigator creates a navigator with empty history.
func NewNavigator(r *Resolver) *Navigator {
	return &Navigator{resolver: r, index: -1}
}

// Navigate resolves path and records it in history.
//
// The entry is pushed unless WithReplace is given, the loader chain
// redirected, or the location equals the current entry. Route errors still
// move history, since the error boundary renders at the new location; a
// superseded navigation returns ErrSuperseded and leaves history alone.
func (n *Navigator) Navigate(ctx context.Context, path string, opts ...NavigateOption) (*Resolution, error) {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}
	pick := func() (string, error) { return path, nil }
	return n.run(ctx, pick, func(res *Resolution) {
		n.commit(res, o.Replace || res.Replace)
	})
}

// Back re-resolves the previous history entry.
func (n *Navigator) Back(ctx context.Context) (*Resolution, error) {
	return n.traverse(ctx, -1)
}

// Forward re-resolves the next history entry.
func (n *Navigator) Forward(ctx context.Context) (*Resolution, error) {
	return n.traverse(ctx, 1)
}

// Current returns the last committed resolution, or nil.
func (n *Navigator) Current() *Resolution {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History returns a copy of the history entries and the current index.
func (n *Navigator) History() ([]string, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.entries...), n.index
}

func (n *Navigator) traverse(ctx context.Context, delta int) (*Resolution, error) {
	var target int
	pick := func() (string, error) {
		target = n.index + delta
		if n.index < 0 || target < 0 || target >= len(n.entries) {
			return "", ErrNoHistory
		}
		return n.entries[target], nil
	}
	return n.run(ctx, pick, func(res *Resolution) {
		n.index = target
		n.entries[target] = res.Location.String()
		n.current = res
	})
}

// run starts a navigation, cancelling any in-flight one. pick and commit
// run under the lock; commit only runs if no newer navigation started.
func (n *Navigator) run(ctx context.Context, pick func() (string, error), commit func(*Resolution)) (*Resolution, error) {
	n.mu.Lock()
	path, err := pick()
	if err != nil {
		n.mu.Unlock()
		return nil, err
	}
	if n.cancel != nil {
		n.cancel()
		n.resolver.metrics.supersede()
	}
	n.gen++
	gen := n.gen
	rctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.mu.Unlock()

	res, err := n.resolver.Resolve(rctx, path)

	n.mu.Lock()
	defer n.mu.Unlock()
	cancel()
	if gen != n.gen {
		n.resolver.logger.Debug("navigation superseded", "path", path)
		return nil, ErrSuperseded
	}
	n.cancel = nil
	if res != nil {
		commit(res)
	}
	return res, err
}

func (n *Navigator) commit(res *Resolution, replace bool) {
	entry := res.Location.String()
	switch {
	case n.index < 0:
		n.entries = append(n.entries[:0], entry)
		n.index = 0
	case replace || n.entries[n.index] == entry:
		n.entries[n.index] = entry
	default:
		n.entries = append(n.entries[:n.index+1], entry)
		n.index++
	}
	n.current = res
}

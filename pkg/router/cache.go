package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// SegmentState is the load state of one route's segment.
type SegmentState uint8

const (
	SegmentUnresolved SegmentState = iota
	SegmentInFlight
	SegmentResolved
)

// String returns the state name.
func (s SegmentState) String() string {
	switch s {
	case SegmentUnresolved:
		return "unresolved"
	case SegmentInFlight:
		return "in-flight"
	case SegmentResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// SegmentCache memoizes lazily loaded segments by route ID.
//
// Concurrent first loads of a route share one call to its LazyFunc. A
// resolved segment is kept for the life of the cache; a failed load is not
// cached, so the next navigation tries again. The shared call runs detached
// from the caller's cancellation: a superseded navigation stops waiting but
// the load still completes and is cached for whoever asks next.
type SegmentCache struct {
	mu       sync.RWMutex
	resolved map[string]Segment
	inflight map[string]struct{}
	flight   singleflight.Group

	fetches atomic.Int64
}

// NewSegmentCache creates an empty cache.
func NewSegmentCache() *SegmentCache {
	return &SegmentCache{
		resolved: make(map[string]Segment),
		inflight: make(map[string]struct{}),
	}
}

// Load returns the route's segment, materializing it on first use.
// Failures are returned as *ModuleLoadError.
func (c *SegmentCache) Load(ctx context.Context, n *Node) (Segment, error) {
	if n.lazy == nil {
		return Segment{}, nil
	}

	c.mu.RLock()
	seg, ok := c.resolved[n.id]
	c.mu.RUnlock()
	if ok {
		return seg, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(n.id, func() (any, error) {
		c.mu.Lock()
		if cached, ok := c.resolved[n.id]; ok {
			c.mu.Unlock()
			return cached, nil
		}
		c.inflight[n.id] = struct{}{}
		c.mu.Unlock()

		c.fetches.Add(1)
		loaded, err := callLazy(detached, n.lazy)

		c.mu.Lock()
		delete(c.inflight, n.id)
		if err == nil {
			c.resolved[n.id] = loaded
		}
		c.mu.Unlock()
		return loaded, err
	})

	select {
	case <-ctx.Done():
		return Segment{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Segment{}, asModuleLoadError(n.id, res.Err)
		}
		return res.Val.(Segment), nil
	}
}

// State reports the load state of a route.
func (c *SegmentCache) State(routeID string) SegmentState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.resolved[routeID]; ok {
		return SegmentResolved
	}
	if _, ok := c.inflight[routeID]; ok {
		return SegmentInFlight
	}
	return SegmentUnresolved
}

// Fetches returns how many times a LazyFunc has been invoked.
func (c *SegmentCache) Fetches() int64 {
	return c.fetches.Load()
}

// Len returns the number of resolved segments.
func (c *SegmentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resolved)
}

func callLazy(ctx context.Context, fn LazyFunc) (seg Segment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lazy segment panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func asModuleLoadError(routeID string, err error) error {
	var mle *ModuleLoadError
	if errors.As(err, &mle) {
		if mle.RouteID == routeID {
			return mle
		}
		return &ModuleLoadError{RouteID: routeID, Module: mle.Module, Err: mle.Err}
	}
	return &ModuleLoadError{RouteID: routeID, Err: err}
}

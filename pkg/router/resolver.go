package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hatchet-dev/console/pkg/routepath"
	"github.com/hatchet-dev/console/pkg/view"
)

const tracerName = "github.com/hatchet-dev/console/pkg/router"

// DefaultMaxRedirects bounds redirect chains.
const DefaultMaxRedirects = 8

// RouteMatch is one route of a resolved chain.
type RouteMatch struct {
	Route   *Node
	Segment Segment

	// Data is what the route's loader returned.
	Data any
}

// Resolution is the result of resolving one navigation.
type Resolution struct {
	// ID identifies the navigation in logs and traces.
	ID string

	// Requested is the target as given to Resolve.
	Requested string

	// Location is the final location, after redirects, without basename.
	Location routepath.Location

	// Href is Location with the basename applied.
	Href string

	Status Status

	// Matches is the matched chain, root to leaf. Empty for NotFound.
	Matches []RouteMatch

	// Params are the parameters bound across the chain.
	Params map[string]string

	// Redirects lists every redirect target followed, in order.
	Redirects []string

	// Replace is set when the navigation was redirected and must replace the
	// current history entry instead of pushing.
	Replace bool

	// View is the rendered tree. For NotFound it is the fallback view, if one
	// is configured.
	View *view.VNode

	// Err is *NoMatchError for NotFound, or the error Resolve returned.
	Err error
}

// Leaf returns the deepest matched route, or nil.
func (r *Resolution) Leaf() *RouteMatch {
	if r == nil || len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[len(r.Matches)-1]
}

// RouteIDs returns the IDs of the matched chain.
func (r *Resolution) RouteIDs() []string {
	ids := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		ids[i] = m.Route.id
	}
	return ids
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithTracer sets the tracer. Default: the global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithSegmentCache shares a segment cache. Default: a fresh cache per resolver.
func WithSegmentCache(c *SegmentCache) Option {
	return func(r *Resolver) {
		r.cache = c
	}
}

// WithMaxRedirects bounds redirect chains. Default: DefaultMaxRedirects.
func WithMaxRedirects(n int) Option {
	return func(r *Resolver) {
		r.maxRedirects = n
	}
}

// WithNotFound renders c for unmatched paths, inside the root route's
// component when the tree has a "/" root that renders.
func WithNotFound(c view.Component) Option {
	return func(r *Resolver) {
		r.notFound = c
	}
}

// WithBasename strips base from every requested path before matching.
func WithBasename(base string) Option {
	return func(r *Resolver) {
		r.basename = strings.TrimSuffix(base, "/")
	}
}

// WithStateHook observes state transitions.
func WithStateHook(h StateHook) Option {
	return func(r *Resolver) {
		r.hook = h
	}
}

// Resolver matches paths against a tree, loads segments, runs loaders and
// renders. It is safe for concurrent use; concurrent resolutions share the
// segment cache.
type Resolver struct {
	tree         *Tree
	cache        *SegmentCache
	logger       *slog.Logger
	tracer       trace.Tracer
	metrics      *Metrics
	notFound     view.Component
	basename     string
	maxRedirects int
	hook         StateHook
}

// NewResolver creates a resolver for tree.
func NewResolver(tree *Tree, opts ...Option) *Resolver {
	r := &Resolver{
		tree:         tree,
		cache:        NewSegmentCache(),
		logger:       slog.Default(),
		tracer:       otel.Tracer(tracerName),
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tree returns the route tree.
func (r *Resolver) Tree() *Tree { return r.tree }

// Cache returns the segment cache.
func (r *Resolver) Cache() *SegmentCache { return r.cache }

// Basename returns the configured basename.
func (r *Resolver) Basename() string { return r.basename }

// Resolve resolves target, following loader redirects.
//
// An unmatched path is not an error: the resolution has StatusNotFound and
// Err set to a *NoMatchError. Module and loader failures return a
// *ModuleLoadError or *LoaderError together with a resolution carrying the
// location and chain reached so far, so callers can render an error
// boundary. Context cancellation returns a nil resolution and ctx.Err().
func (r *Resolver) Resolve(ctx context.Context, target string) (*Resolution, error) {
	start := time.Now()
	res := &Resolution{ID: uuid.NewString(), Requested: target}

	ctx, span := r.tracer.Start(ctx, "router.Resolve", trace.WithAttributes(
		attribute.String("navigation.id", res.ID),
		attribute.String("navigation.target", target),
	))
	defer span.End()

	loc, err := r.parse(target, true)
	if err != nil {
		err = fmt.Errorf("resolve %q: %w", target, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for {
		r.enter(res.ID, StateMatching)
		res.Location = loc
		res.Href = r.href(loc)
		res.Matches = nil

		chain, params, ok := r.tree.Match(loc.Path)
		res.Params = params
		if !ok {
			res.Status = StatusNotFound
			res.Err = &NoMatchError{Path: loc.Path}
			res.View = r.renderNotFound(ctx, res)
			r.enter(res.ID, StateNotFound)
			r.logger.Info("no route matched", "navigation", res.ID, "path", loc.Path)
			r.finish(span, res, "not_found", start)
			return res, nil
		}

		r.enter(res.ID, StateLoading)
		res.Matches = make([]RouteMatch, len(chain))
		for i, n := range chain {
			seg, err := r.cache.Load(ctx, n)
			r.metrics.moduleLoad(n.id, err)
			if err != nil {
				if ctx.Err() != nil {
					return r.canceled(ctx, span, res, start)
				}
				return r.fail(span, res, err, "module_error", start)
			}
			if missing := n.provides &^ seg.Capabilities(); missing != CapNone {
				err := &ModuleLoadError{RouteID: n.id, Err: fmt.Errorf("%w: %s", ErrMissingCapability, missing)}
				return r.fail(span, res, err, "module_error", start)
			}
			res.Matches[i] = RouteMatch{Route: n, Segment: seg}
		}

		r.enter(res.ID, StateRunningLoaders)
		redirect, from, err := r.runLoaders(ctx, res)
		if err != nil {
			if ctx.Err() != nil {
				return r.canceled(ctx, span, res, start)
			}
			return r.fail(span, res, err, "loader_error", start)
		}

		if redirect != nil {
			res.Redirects = append(res.Redirects, redirect.To)
			if len(res.Redirects) > r.maxRedirects {
				return r.fail(span, res, &RedirectLoopError{Path: res.Requested, Hops: res.Redirects}, "redirect_loop", start)
			}
			next, err := r.parse(redirect.To, false)
			if err != nil {
				return r.fail(span, res, &LoaderError{
					RouteID: from,
					Path:    loc.Path,
					Err:     fmt.Errorf("bad redirect target %q: %w", redirect.To, err),
				}, "loader_error", start)
			}

			r.enter(res.ID, StateRedirecting)
			r.metrics.redirect()
			span.AddEvent("redirect", trace.WithAttributes(
				attribute.String("route", from),
				attribute.String("to", next.String()),
			))
			r.logger.Debug("following redirect",
				"navigation", res.ID, "route", from, "from", loc.Path, "to", next.String())

			loc = next
			res.Replace = true
			continue
		}

		r.enter(res.ID, StateRendering)
		v, err := r.render(res)
		if err != nil {
			return r.fail(span, res, err, "render_error", start)
		}
		res.View = v
		res.Status = StatusOK
		r.enter(res.ID, StateIdle)
		r.finish(span, res, "ok", start)
		return res, nil
	}
}

// Preload matches target and loads its segments without running loaders.
// An unmatched path returns a *NoMatchError.
func (r *Resolver) Preload(ctx context.Context, target string) error {
	loc, err := r.parse(target, true)
	if err != nil {
		return fmt.Errorf("preload %q: %w", target, err)
	}
	chain, _, ok := r.tree.Match(loc.Path)
	if !ok {
		return &NoMatchError{Path: loc.Path}
	}
	for _, n := range chain {
		_, err := r.cache.Load(ctx, n)
		r.metrics.moduleLoad(n.id, err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) parse(target string, stripBase bool) (routepath.Location, error) {
	loc, err := routepath.Parse(target)
	if err != nil {
		return routepath.Location{}, err
	}
	if stripBase {
		p, err := routepath.StripBase(loc.Path, r.basename)
		if err != nil {
			return routepath.Location{}, err
		}
		loc.Path = p
	}
	return loc, nil
}

func (r *Resolver) href(loc routepath.Location) string {
	p := routepath.JoinBase(loc.Path, r.basename)
	if loc.Query != "" {
		return p + "?" + loc.Query
	}
	return p
}

// runLoaders runs loaders root to leaf. It stops at the first redirect and
// reports which route produced it.
func (r *Resolver) runLoaders(ctx context.Context, res *Resolution) (*Redirect, string, error) {
	parents := make(map[string]any)
	for i := range res.Matches {
		m := &res.Matches[i]
		if m.Segment.Loader == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		args := LoaderArgs{
			Path:    res.Location.Path,
			Query:   res.Location.Query,
			RouteID: m.Route.id,
			Params:  res.Params,
			parents: parents,
		}

		lctx, span := r.tracer.Start(ctx, "router.loader", trace.WithAttributes(
			attribute.String("route.id", m.Route.id),
			attribute.String("route.pattern", m.Route.pattern),
		))
		began := time.Now()
		data, err := callLoader(lctx, m.Segment.Loader, args)
		r.metrics.loader(m.Route.id, time.Since(began), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			return nil, "", &LoaderError{RouteID: m.Route.id, Path: res.Location.Path, Err: err}
		}
		span.End()

		if rd, ok := data.(*Redirect); ok && rd != nil {
			return rd, m.Route.id, nil
		}
		m.Data = data
		parents[m.Route.id] = data
	}
	return nil, "", nil
}

// render renders leaf first; each component receives its descendants'
// output as its outlet. Routes without a component pass the outlet through.
func (r *Resolver) render(res *Resolution) (*view.VNode, error) {
	var out *view.VNode
	for i := len(res.Matches) - 1; i >= 0; i-- {
		m := res.Matches[i]
		if m.Segment.Component == nil {
			continue
		}
		ctx := r.viewContext(res, m.Route.id, res.Params, m.Data, out)
		v, err := callRender(m.Segment.Component, ctx)
		if err != nil {
			return nil, &RenderError{RouteID: m.Route.id, Err: err}
		}
		out = v
	}
	return out, nil
}

func (r *Resolver) viewContext(res *Resolution, routeID string, params map[string]string, data any, outlet *view.VNode) *view.Context {
	ctx := view.NewContext(res.Location.Path, res.Location.Query, routeID, params, data, outlet)
	ctx.Basename = r.basename
	return ctx
}

func (r *Resolver) renderNotFound(ctx context.Context, res *Resolution) *view.VNode {
	if r.notFound == nil {
		return nil
	}
	out, err := callRender(r.notFound, r.viewContext(res, "not-found", nil, nil, nil))
	if err != nil {
		r.logger.Error("not found view failed", "navigation", res.ID, "error", err)
		return nil
	}

	roots := r.tree.Roots()
	if len(roots) == 0 || len(roots[0].own) != 0 || !roots[0].provides.Has(CapComponent) {
		return out
	}
	root := roots[0]
	seg, err := r.cache.Load(ctx, root)
	if err != nil || seg.Component == nil {
		return out
	}
	wrapped, err := callRender(seg.Component, r.viewContext(res, root.id, nil, nil, out))
	if err != nil {
		return out
	}
	return wrapped
}

func (r *Resolver) enter(id string, s State) {
	if r.hook != nil {
		r.hook(id, s)
	}
}

func (r *Resolver) finish(span trace.Span, res *Resolution, outcome string, start time.Time) {
	span.SetAttributes(
		attribute.String("navigation.outcome", outcome),
		attribute.String("navigation.location", res.Location.String()),
		attribute.Int("navigation.redirects", len(res.Redirects)),
	)
	r.metrics.navigation(outcome, time.Since(start))
	r.logger.Debug("navigation resolved",
		"navigation", res.ID,
		"path", res.Location.String(),
		"outcome", outcome,
		"routes", len(res.Matches),
		"duration", time.Since(start))
}

func (r *Resolver) fail(span trace.Span, res *Resolution, err error, outcome string, start time.Time) (*Resolution, error) {
	res.Status = StatusError
	res.Err = err
	r.enter(res.ID, StateFailed)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.logger.Error("navigation failed", "navigation", res.ID, "path", res.Location.Path, "error", err)
	r.finish(span, res, outcome, start)
	return res, err
}

func (r *Resolver) canceled(ctx context.Context, span trace.Span, res *Resolution, start time.Time) (*Resolution, error) {
	err := ctx.Err()
	r.enter(res.ID, StateIdle)
	span.SetStatus(codes.Error, err.Error())
	r.metrics.navigation("canceled", time.Since(start))
	r.logger.Debug("navigation canceled", "navigation", res.ID, "path", res.Location.Path)
	return nil, err
}

func callLoader(ctx context.Context, fn LoaderFunc, args LoaderArgs) (data any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("loader panicked: %v", rec)
		}
	}()
	return fn(ctx, args)
}

func callRender(c view.Component, ctx *view.Context) (v *view.VNode, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("component panicked: %v", rec)
		}
	}()
	return c.Render(ctx), nil
}

// IsRouteError reports whether err is a failure an error boundary should
// render: a module, loader or render failure, or a redirect loop.
func IsRouteError(err error) bool {
	var (
		mle *ModuleLoadError
		le  *LoaderError
		re  *RenderError
		rle *RedirectLoopError
	)
	return errors.As(err, &mle) || errors.As(err, &le) || errors.As(err, &re) || errors.As(err, &rle)
}

package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hatchet-dev/console/pkg/view"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(routes []*Route, opts ...Option) *Resolver {
	base := []Option{WithLogger(quietLogger()), WithTracer(noop.NewTracerProvider().Tracer("test"))}
	return NewResolver(mustTree(routes...), append(base, opts...)...)
}

func renderHTML(t *testing.T, v *view.VNode) string {
	t.Helper()
	s, err := view.RenderString(v)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestResolveRootRedirectsToEvents(t *testing.T) {
	rec := &recorder{}
	var mu sync.Mutex
	var states []State
	r := newTestResolver(consoleRoutes(rec), WithStateHook(func(_ string, s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}))

	res, err := r.Resolve(context.Background(), "/")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != StatusOK {
		t.Fatalf("Status = %s", res.Status)
	}
	if res.Location.Path != "/events" || !res.Replace {
		t.Errorf("Location = %q, Replace = %v", res.Location.Path, res.Replace)
	}
	if !reflect.DeepEqual(res.Redirects, []string{"/events"}) {
		t.Errorf("Redirects = %v", res.Redirects)
	}
	if got := res.RouteIDs(); !reflect.DeepEqual(got, []string{"root", "authenticated", "main", "events"}) {
		t.Errorf("chain = %v", got)
	}

	html := renderHTML(t, res.View)
	want := `<div id="root"><div id="authenticated"><div id="main"><p>events</p></div></div></div>`
	if html != want {
		t.Errorf("view = %s, want %s", html, want)
	}

	// The authenticated loader ran once per pass: before the redirect and after it.
	if got := rec.list(); !reflect.DeepEqual(got, []string{"authenticated", "authenticated"}) {
		t.Errorf("loader calls = %v", got)
	}

	wantStates := []State{
		StateMatching, StateLoading, StateRunningLoaders, StateRedirecting,
		StateMatching, StateLoading, StateRunningLoaders, StateRendering, StateIdle,
	}
	if !reflect.DeepEqual(states, wantStates) {
		t.Errorf("states = %v, want %v", states, wantStates)
	}
}

func TestResolveNeverRendersRedirectRoute(t *testing.T) {
	r := newTestResolver(consoleRoutes(&recorder{}))
	for i := 0; i < 3; i++ {
		res, err := r.Resolve(context.Background(), "/")
		if err != nil {
			t.Fatal(err)
		}
		for _, id := range res.RouteIDs() {
			if id == "index" {
				t.Fatal("redirect-only route ended up in the rendered chain")
			}
		}
	}
}

func TestResolveWorkerParam(t *testing.T) {
	r := newTestResolver(consoleRoutes(&recorder{}))
	res, err := r.Resolve(context.Background(), "/workers/42")
	if err != nil {
		t.Fatal(err)
	}
	if res.Params["worker"] != "42" {
		t.Errorf("params = %v", res.Params)
	}
	if html := renderHTML(t, res.View); !strings.Contains(html, "<p>worker:worker=42</p>") {
		t.Errorf("view = %s", html)
	}
}

func TestResolveLoaderOrderAndParentData(t *testing.T) {
	rec := &recorder{}
	var sawParent any
	routes := consoleRoutes(rec)
	main := routes[0].Children[1].Children[1]
	main.Children[2].Lazy = Static(Segment{
		Loader: func(ctx context.Context, args LoaderArgs) (any, error) {
			rec.add("workflow:" + args.Param("workflow"))
			sawParent, _ = args.Parent("authenticated")
			return map[string]string{"name": args.Param("workflow")}, nil
		},
		Component: view.ComponentFunc(func(ctx *view.Context) *view.VNode {
			return view.Text(ctx.Data.(map[string]string)["name"])
		}),
	})

	r := newTestResolver(routes)
	res, err := r.Resolve(context.Background(), "/workflows/abc?tab=runs")
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.list(); !reflect.DeepEqual(got, []string{"authenticated", "workflow:abc"}) {
		t.Errorf("loader order = %v", got)
	}
	if sawParent != "authenticated-data" {
		t.Errorf("parent data = %v", sawParent)
	}
	if res.Location.Query != "tab=runs" {
		t.Errorf("query = %q", res.Location.Query)
	}
	if leaf := res.Leaf(); leaf == nil || leaf.Route.ID() != "workflow" {
		t.Errorf("leaf = %+v", leaf)
	}
	if html := renderHTML(t, res.View); !strings.HasSuffix(html, `<div id="main">abc</div></div></div>`) {
		t.Errorf("view = %s", html)
	}
}

func TestResolveLoaderSeesAncestorCompleted(t *testing.T) {
	var mu sync.Mutex
	done := map[int]bool{}
	mk := func(depth int) LoaderFunc {
		return func(ctx context.Context, args LoaderArgs) (any, error) {
			mu.Lock()
			defer mu.Unlock()
			if depth > 0 && !done[depth-1] {
				return nil, errors.New("ancestor loader not finished")
			}
			done[depth] = true
			return depth, nil
		}
	}
	routes := []*Route{{
		Path: "/", Provides: CapLoader, Lazy: Static(Segment{Loader: mk(0)}),
		Children: []*Route{{
			Path: "a", Provides: CapLoader, Lazy: Static(Segment{Loader: mk(1)}),
			Children: []*Route{{
				Path: "b", Provides: CapLoader, Lazy: Static(Segment{Loader: mk(2)}),
				Children: []*Route{{Path: "c", Provides: CapLoader, Lazy: Static(Segment{Loader: mk(3)})}},
			}},
		}},
	}}
	res, err := newTestResolver(routes).Resolve(context.Background(), "/a/b/c")
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 4 || res.View != nil {
		t.Errorf("done = %v, view = %v", done, res.View)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := newTestResolver(consoleRoutes(&recorder{}))
	for _, p := range []string{"/nope", "/workflows/a/b", "/workers", "/auth/login/x"} {
		res, err := r.Resolve(context.Background(), p)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", p, err)
		}
		if res.Status != StatusNotFound {
			t.Errorf("Resolve(%q) status = %s", p, res.Status)
		}
		var nm *NoMatchError
		if !errors.As(res.Err, &nm) {
			t.Errorf("Resolve(%q) Err = %v", p, res.Err)
		}
		if res.View != nil {
			t.Errorf("Resolve(%q) rendered without a NotFound view", p)
		}
	}
}

func TestResolveNotFoundViewInsideRoot(t *testing.T) {
	nf := view.ComponentFunc(func(ctx *view.Context) *view.VNode {
		return view.P(nil, view.Text("missing "+ctx.Path))
	})
	r := newTestResolver(consoleRoutes(&recorder{}), WithNotFound(nf))
	res, err := r.Resolve(context.Background(), "/nope")
	if err != nil {
		t.Fatal(err)
	}
	if html := renderHTML(t, res.View); html != `<div id="root"><p>missing /nope</p></div>` {
		t.Errorf("view = %s", html)
	}
}

func TestResolveLoaderError(t *testing.T) {
	boom := errors.New("api down")
	routes := consoleRoutes(&recorder{})
	routes[0].Children[1].Lazy = Static(Segment{
		Loader:    func(context.Context, LoaderArgs) (any, error) { return nil, boom },
		Component: layout("authenticated"),
	})

	res, err := newTestResolver(routes).Resolve(context.Background(), "/events")
	var le *LoaderError
	if !errors.As(err, &le) || le.RouteID != "authenticated" || !errors.Is(err, boom) {
		t.Fatalf("error = %v", err)
	}
	if res == nil || res.Status != StatusError || res.Location.Path != "/events" {
		t.Errorf("resolution = %+v", res)
	}
	if !IsRouteError(err) {
		t.Error("IsRouteError = false")
	}
}

func TestResolveModuleLoadErrorIsNotRetriedWithinNavigation(t *testing.T) {
	imp := &fakeImporter{err: errors.New("chunk 404")}
	routes := []*Route{{ID: "root", Path: "/", Provides: CapComponent, Lazy: Lazy(imp, "pages/root", CapComponent)}}
	r := newTestResolver(routes)

	_, err := r.Resolve(context.Background(), "/")
	var mle *ModuleLoadError
	if !errors.As(err, &mle) || mle.RouteID != "root" || mle.Module != "pages/root" {
		t.Fatalf("error = %v", err)
	}
	if imp.imports != 1 {
		t.Errorf("imports = %d, want 1", imp.imports)
	}

	// A new navigation is the recovery path.
	_, _ = r.Resolve(context.Background(), "/")
	if imp.imports != 2 {
		t.Errorf("imports after re-navigation = %d, want 2", imp.imports)
	}
}

func TestResolveMissingDeclaredLoaderFails(t *testing.T) {
	rec := &recorder{}
	routes := []*Route{{
		ID: "root", Path: "/", Provides: CapComponent, Lazy: Static(Segment{Component: layout("root")}),
		Children: []*Route{{
			ID: "gate", Path: "/", Provides: CapLoader | CapComponent, Lazy: Static(Segment{Component: layout("gate")}),
			Children: []*Route{
				{ID: "events", Path: "/events", Provides: CapLoader | CapComponent, Lazy: Static(Segment{
					Loader:    recordingLoader(rec, "events"),
					Component: page("events"),
				})},
			},
		}},
	}}

	res, err := newTestResolver(routes).Resolve(context.Background(), "/events")
	var mle *ModuleLoadError
	if !errors.As(err, &mle) || mle.RouteID != "gate" || !errors.Is(err, ErrMissingCapability) {
		t.Fatalf("error = %v, want ModuleLoadError for gate", err)
	}
	if res == nil || res.Status != StatusError || res.View != nil {
		t.Fatalf("resolution = %+v", res)
	}
	if calls := rec.list(); len(calls) != 0 {
		t.Errorf("loaders ran: %v", calls)
	}
}

func TestResolveLazyLoadsOncePerCache(t *testing.T) {
	imp := &fakeImporter{modules: map[string]fakeExports{"pages/root": {ExportDefault: page("root")}}}
	routes := []*Route{{ID: "root", Path: "/", Provides: CapComponent, Lazy: Lazy(imp, "pages/root", CapComponent)}}
	cache := NewSegmentCache()
	r := newTestResolver(routes, WithSegmentCache(cache))
	for i := 0; i < 5; i++ {
		if _, err := r.Resolve(context.Background(), "/"); err != nil {
			t.Fatal(err)
		}
	}
	if imp.imports != 1 {
		t.Errorf("imports = %d, want 1", imp.imports)
	}

	// A fresh resolver with its own cache loads again.
	if _, err := newTestResolver(routes).Resolve(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if imp.imports != 2 {
		t.Errorf("imports with fresh cache = %d, want 2", imp.imports)
	}
}

func TestResolveRedirectLoop(t *testing.T) {
	routes := []*Route{
		{ID: "a", Path: "/a", Provides: CapLoader, Lazy: RedirectRoute("/b")},
		{ID: "b", Path: "/b", Provides: CapLoader, Lazy: RedirectRoute("/a")},
	}
	res, err := newTestResolver(routes, WithMaxRedirects(3)).Resolve(context.Background(), "/a")
	var loop *RedirectLoopError
	if !errors.As(err, &loop) || len(loop.Hops) != 4 {
		t.Fatalf("error = %v", err)
	}
	if res.Status != StatusError {
		t.Errorf("status = %s", res.Status)
	}
}

func TestResolveBasename(t *testing.T) {
	r := newTestResolver(consoleRoutes(&recorder{}), WithBasename("/console/"))
	res, err := r.Resolve(context.Background(), "/console")
	if err != nil {
		t.Fatal(err)
	}
	if res.Location.Path != "/events" || res.Href != "/console/events" {
		t.Errorf("Location = %q, Href = %q", res.Location.Path, res.Href)
	}
	if _, err := r.Resolve(context.Background(), "/events"); err == nil {
		t.Error("expected error for path outside basename")
	}
}

func TestResolveInvalidPath(t *testing.T) {
	_, err := newTestResolver(consoleRoutes(&recorder{})).Resolve(context.Background(), "/../etc")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestResolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	routes := []*Route{{Path: "/", Provides: CapLoader, Lazy: Static(Segment{
		Loader: func(ctx context.Context, _ LoaderArgs) (any, error) {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})}}
	res, err := newTestResolver(routes).Resolve(ctx, "/")
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Errorf("Resolve = %v, %v", res, err)
	}
}

func TestResolveRenderPanic(t *testing.T) {
	routes := []*Route{{ID: "p", Path: "/", Provides: CapComponent, Lazy: Static(Segment{
		Component: view.ComponentFunc(func(*view.Context) *view.VNode { panic("nil map") }),
	})}}
	_, err := newTestResolver(routes).Resolve(context.Background(), "/")
	var re *RenderError
	if !errors.As(err, &re) || re.RouteID != "p" {
		t.Errorf("error = %v", err)
	}
}

func TestResolveMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithMetricsRegistry(reg))
	r := newTestResolver(consoleRoutes(&recorder{}), WithMetrics(m))

	if _, err := r.Resolve(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(context.Background(), "/nope"); err != nil {
		t.Fatal(err)
	}
	if got := counterValue(t, reg, "console_router_navigations_total", "ok"); got != 1 {
		t.Errorf("ok navigations = %v", got)
	}
	if got := counterValue(t, reg, "console_router_navigations_total", "not_found"); got != 1 {
		t.Errorf("not_found navigations = %v", got)
	}
	if got := counterValue(t, reg, "console_router_redirects_total", ""); got != 1 {
		t.Errorf("redirects = %v", got)
	}
}

// counterValue returns the counter named name whose first label has the
// given value, or the unlabeled counter when label is empty.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := m.GetLabel()
			if label == "" && len(labels) == 0 {
				return m.GetCounter().GetValue()
			}
			if len(labels) > 0 && labels[0].GetValue() == label {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestPreload(t *testing.T) {
	imp := &fakeImporter{modules: map[string]fakeExports{"pages/root": {ExportDefault: page("root")}}}
	routes := []*Route{{ID: "root", Path: "/", Provides: CapComponent, Lazy: Lazy(imp, "pages/root", CapComponent)}}
	r := newTestResolver(routes)

	if err := r.Preload(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if r.Cache().State("root") != SegmentResolved {
		t.Error("root not resolved after preload")
	}
	var nm *NoMatchError
	if err := r.Preload(context.Background(), "/missing"); !errors.As(err, &nm) {
		t.Errorf("Preload(/missing) = %v", err)
	}
}

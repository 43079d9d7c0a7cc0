package router

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hatchet-dev/console/pkg/view"
)

// layout renders a named wrapper around its outlet.
func layout(name string) view.Component {
	return view.ComponentFunc(func(ctx *view.Context) *view.VNode {
		return view.Div(view.Attrs{"id": name}, ctx.Outlet())
	})
}

// page renders its name and bound params.
func page(name string) view.Component {
	return view.ComponentFunc(func(ctx *view.Context) *view.VNode {
		var params []string
		for _, k := range []string{"workflow", "run", "worker"} {
			if v := ctx.Param(k); v != "" {
				params = append(params, k+"="+v)
			}
		}
		return view.P(nil, view.Text(name+strings.Join(params, ",")))
	})
}

// recorder collects loader calls in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func recordingLoader(rec *recorder, name string) LoaderFunc {
	return func(ctx context.Context, args LoaderArgs) (any, error) {
		rec.add(name)
		return name + "-data", nil
	}
}

// consoleRoutes mirrors the shape of the console route table with inline
// segments.
func consoleRoutes(rec *recorder) []*Route {
	seg := func(loader LoaderFunc, c view.Component) LazyFunc {
		return Static(Segment{Loader: loader, Component: c})
	}
	return []*Route{{
		ID:       "root",
		Path:     "/",
		Provides: CapComponent,
		Lazy:     seg(nil, layout("root")),
		Children: []*Route{
			{
				ID:       "no-auth",
				Path:     "/auth",
				Provides: CapLoader,
				Lazy:     seg(recordingLoader(rec, "no-auth"), nil),
				Children: []*Route{
					{ID: "login", Path: "/auth/login", Provides: CapComponent, Lazy: seg(nil, page("login"))},
					{ID: "register", Path: "/auth/register", Provides: CapComponent, Lazy: seg(nil, page("register"))},
				},
			},
			{
				ID:       "authenticated",
				Path:     "/",
				Provides: CapLoader | CapComponent,
				Lazy:     seg(recordingLoader(rec, "authenticated"), layout("authenticated")),
				Children: []*Route{
					{ID: "index", Path: "/", Provides: CapLoader, Lazy: RedirectRoute("/events")},
					{
						ID:       "main",
						Path:     "/",
						Provides: CapComponent,
						Lazy:     seg(nil, layout("main")),
						Children: []*Route{
							{ID: "events", Path: "/events", Provides: CapComponent, Lazy: seg(nil, page("events"))},
							{ID: "workflows", Path: "/workflows", Provides: CapComponent, Lazy: seg(nil, page("workflows"))},
							{
								ID:       "workflow",
								Path:     "/workflows/:workflow",
								Provides: CapLoader | CapComponent,
								Lazy:     seg(recordingLoader(rec, "workflow"), page("workflow:")),
							},
							{ID: "worker", Path: "/workers/:worker", Provides: CapComponent, Lazy: seg(nil, page("worker:"))},
						},
					},
				},
			},
		},
	}}
}

func mustTree(routes ...*Route) *Tree {
	t, err := NewTree(routes...)
	if err != nil {
		panic(fmt.Sprintf("NewTree: %v", err))
	}
	return t
}

package pages

import (
	"github.com/hatchet-dev/console/pkg/view"
)

// Root is the application shell.
func Root(ctx *view.Context) *view.VNode {
	return view.Div(view.Attrs{"id": "console", "class": "console"}, ctx.Outlet())
}

// Authenticated renders the top bar around every signed-in page.
func Authenticated(ctx *view.Context) *view.VNode {
	s, _ := ctx.Data.(*Session)
	var user, tenant *view.VNode
	if s != nil && s.User != nil {
		user = view.Span(view.Attrs{"class": "user"}, view.Text(s.User.Email))
		if s.Tenant != nil {
			tenant = tenantSwitcher(ctx, s)
		}
	}
	return view.Div(view.Attrs{"class": "authenticated"},
		view.Header(view.Attrs{"class": "topbar"},
			ctx.Link("/", view.Text("Hatchet")),
			tenant,
			user,
		),
		ctx.Outlet(),
	)
}

func tenantSwitcher(ctx *view.Context, s *Session) *view.VNode {
	items := make([]*view.VNode, 0, len(s.Memberships))
	for _, m := range s.Memberships {
		attrs := view.Attrs{}
		if m.Tenant.ID == s.Tenant.ID {
			attrs["aria-current"] = "true"
		}
		items = append(items, view.Li(attrs, ctx.Link("/events?tenant="+m.Tenant.Slug, view.Text(m.Tenant.Name))))
	}
	return view.Nav(view.Attrs{"class": "tenants"}, view.Ul(nil, items...))
}

var sidebar = []struct {
	href, label string
}{
	{"/events", "Events"},
	{"/workflows", "Workflows"},
	{"/workflow-runs", "Workflow Runs"},
	{"/workers", "Workers"},
	{"/tenant-settings", "Settings"},
}

// MainLayout renders the sidebar and the page beside it.
func MainLayout(ctx *view.Context) *view.VNode {
	items := make([]*view.VNode, len(sidebar))
	for i, item := range sidebar {
		attrs := view.Attrs{}
		if ctx.Path == item.href || hasPathPrefix(ctx.Path, item.href) {
			attrs["class"] = "active"
		}
		items[i] = view.Li(attrs, ctx.Link(item.href, view.Text(item.label)))
	}
	return view.Div(view.Attrs{"class": "main"},
		view.Nav(view.Attrs{"class": "sidebar"}, view.Ul(nil, items...)),
		view.Main(nil, ctx.Outlet()),
	)
}

func hasPathPrefix(path, prefix string) bool {
	return len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}

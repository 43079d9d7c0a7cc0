package pages

import (
	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/pkg/view"
)

func authForm(title, action, submit string, fields ...*view.VNode) *view.VNode {
	children := append([]*view.VNode{}, fields...)
	children = append(children, view.Button(view.Attrs{"type": "submit"}, view.Text(submit)))
	return view.Section(view.Attrs{"class": "auth"},
		view.H1(nil, view.Text(title)),
		view.Form(view.Attrs{"method": "post", "action": action}, children...),
	)
}

func field(name, typ string) *view.VNode {
	return view.Input(view.Attrs{"name": name, "type": typ, "required": ""})
}

// Login is the sign-in page.
func Login(ctx *view.Context) *view.VNode {
	return view.Fragment(
		authForm("Log in", "/api/v1/users/login", "Log in",
			field("email", "email"),
			field("password", "password"),
		),
		view.P(nil, view.Text("No account? "), ctx.Link("/auth/register", view.Text("Sign up"))),
	)
}

// SignUp is the registration page.
func SignUp(ctx *view.Context) *view.VNode {
	return view.Fragment(
		authForm("Create an account", "/api/v1/users/register", "Sign up",
			field("name", "text"),
			field("email", "email"),
			field("password", "password"),
		),
		view.P(nil, view.Text("Have an account? "), ctx.Link("/auth/login", view.Text("Log in"))),
	)
}

// VerifyEmail asks the user to confirm their address.
func VerifyEmail(ctx *view.Context) *view.VNode {
	email := "your email"
	if u, ok := ctx.Data.(*api.User); ok && u != nil {
		email = u.Email
	}
	return view.Section(view.Attrs{"class": "onboarding"},
		view.H1(nil, view.Text("Verify your email")),
		view.P(nil, view.Text("We sent a link to "+email+". Follow it to continue.")),
	)
}

// CreateTenant is shown to users without a tenant.
func CreateTenant(ctx *view.Context) *view.VNode {
	return authForm("Create a tenant", "/api/v1/tenants", "Create",
		field("name", "text"),
		field("slug", "text"),
	)
}

// Invites lists pending invitations.
func Invites(ctx *view.Context) *view.VNode {
	invites, _ := ctx.Data.([]api.Invite)
	items := make([]*view.VNode, len(invites))
	for i, inv := range invites {
		items[i] = view.Li(view.Attrs{"data-invite": inv.ID},
			view.Text(inv.InviterEmail+" invited you to "+inv.TenantName+" as "+inv.Role),
			view.Form(view.Attrs{"method": "post", "action": "/api/v1/users/invites/accept"},
				view.Input(view.Attrs{"type": "hidden", "name": "invite", "value": inv.ID}),
				view.Button(view.Attrs{"type": "submit"}, view.Text("Accept")),
			),
		)
	}
	return view.Section(view.Attrs{"class": "onboarding"},
		view.H1(nil, view.Text("Pending invites")),
		view.Ul(nil, items...),
	)
}

package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hatchet-dev/console/app/routes"
	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/pkg/router"
)

// Paths loaders redirect to.
const (
	PathLogin        = "/auth/login"
	PathVerifyEmail  = "/onboarding/verify-email"
	PathCreateTenant = "/onboarding/create-tenant"
	PathInvites      = "/onboarding/invites"
)

// Session is what the authenticated loader hands to every page below it.
type Session struct {
	User        *api.User
	Memberships []api.Membership

	// Tenant is the selected tenant: the one named by ?tenant=, else the
	// first membership. Nil while onboarding.
	Tenant *api.Tenant
}

type loaders struct {
	api api.Client
}

// noAuth keeps signed-in users out of the auth pages.
func (l *loaders) noAuth(ctx context.Context, args router.LoaderArgs) (any, error) {
	_, err := l.api.CurrentUser(ctx)
	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return router.RedirectTo("/"), nil
}

func (l *loaders) verifyEmail(ctx context.Context, args router.LoaderArgs) (any, error) {
	u, err := l.api.CurrentUser(ctx)
	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		return router.RedirectTo(PathLogin), nil
	case err != nil:
		return nil, err
	}
	if u.EmailVerified {
		return router.RedirectTo("/"), nil
	}
	return u, nil
}

// authenticated gates everything under the authenticated shell: a session,
// a verified email, and a tenant (or a pending invite) are required.
func (l *loaders) authenticated(ctx context.Context, args router.LoaderArgs) (any, error) {
	u, err := l.api.CurrentUser(ctx)
	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		return router.RedirectTo(PathLogin), nil
	case err != nil:
		return nil, err
	}
	if !u.EmailVerified {
		return router.RedirectTo(PathVerifyEmail), nil
	}

	memberships, err := l.api.Memberships(ctx)
	if err != nil {
		return nil, err
	}
	s := &Session{User: u, Memberships: memberships, Tenant: selectTenant(memberships, args.Query)}

	if s.Tenant != nil || strings.HasPrefix(args.Path, "/onboarding/") {
		return s, nil
	}
	invites, err := l.api.Invites(ctx)
	if err != nil {
		return nil, err
	}
	if len(invites) > 0 {
		return router.RedirectTo(PathInvites), nil
	}
	return router.RedirectTo(PathCreateTenant), nil
}

func (l *loaders) invites(ctx context.Context, args router.LoaderArgs) (any, error) {
	invites, err := l.api.Invites(ctx)
	if err != nil {
		return nil, err
	}
	if len(invites) == 0 {
		return router.RedirectTo("/"), nil
	}
	return invites, nil
}

func (l *loaders) workflow(ctx context.Context, args router.LoaderArgs) (any, error) {
	s, err := session(args)
	if err != nil {
		return nil, err
	}
	w, err := l.api.Workflow(ctx, s.Tenant.ID, args.Param("workflow"))
	if err != nil {
		return nil, err
	}
	return w, nil
}

// session returns the authenticated loader's data.
func session(args router.LoaderArgs) (*Session, error) {
	v, ok := args.Parent(routes.IDAuthenticated)
	s, _ := v.(*Session)
	if !ok || s == nil || s.Tenant == nil {
		return nil, fmt.Errorf("route %s needs a tenant session", args.RouteID)
	}
	return s, nil
}

func selectTenant(memberships []api.Membership, query string) *api.Tenant {
	if len(memberships) == 0 {
		return nil
	}
	if want := queryValue(query, "tenant"); want != "" {
		for i := range memberships {
			if t := &memberships[i].Tenant; t.ID == want || t.Slug == want {
				return t
			}
		}
	}
	return &memberships[0].Tenant
}

func queryValue(query, key string) string {
	v, err := url.ParseQuery(query)
	if err != nil {
		return ""
	}
	return v.Get(key)
}

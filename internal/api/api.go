// Package api is the console's view of the Hatchet API: the handful of
// calls route loaders make before a page renders.
package api

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnauthenticated is returned when the request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
)

// User is the signed-in user.
type User struct {
	ID            string `json:"metadata_id" yaml:"id"`
	Email         string `json:"email" yaml:"email"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	EmailVerified bool   `json:"emailVerified" yaml:"emailVerified"`
}

// Tenant is a workspace a user belongs to.
type Tenant struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// Membership links a user to a tenant.
type Membership struct {
	Tenant Tenant `json:"tenant" yaml:"tenant"`
	Role   string `json:"role" yaml:"role"`
}

// Invite is a pending tenant invitation.
type Invite struct {
	ID           string    `json:"id" yaml:"id"`
	TenantName   string    `json:"tenantName" yaml:"tenantName"`
	InviterEmail string    `json:"inviterEmail" yaml:"inviterEmail"`
	Role         string    `json:"role" yaml:"role"`
	Expires      time.Time `json:"expires" yaml:"expires"`
}

// Workflow is a registered workflow with its versions, newest first.
type Workflow struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Versions    []WorkflowVersion `json:"versions,omitempty" yaml:"versions,omitempty"`
}

// WorkflowVersion is one deployed version of a workflow.
type WorkflowVersion struct {
	ID        string    `json:"id" yaml:"id"`
	Version   string    `json:"version" yaml:"version"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Client is what loaders need from the API.
type Client interface {
	// CurrentUser returns ErrUnauthenticated when there is no session.
	CurrentUser(ctx context.Context) (*User, error)

	Memberships(ctx context.Context) ([]Membership, error)

	Invites(ctx context.Context) ([]Invite, error)

	// Workflow returns ErrNotFound for unknown IDs.
	Workflow(ctx context.Context, tenantID, workflowID string) (*Workflow, error)
}

type cookieKey struct{}

// WithCookie attaches the caller's Cookie header to ctx. HTTPClient forwards
// it so API calls run as the browser's session.
func WithCookie(ctx context.Context, cookie string) context.Context {
	if cookie == "" {
		return ctx
	}
	return context.WithValue(ctx, cookieKey{}, cookie)
}

// CookieFrom returns the Cookie header attached by WithCookie.
func CookieFrom(ctx context.Context) string {
	s, _ := ctx.Value(cookieKey{}).(string)
	return s
}

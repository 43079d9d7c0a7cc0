package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const fixtureYAML = `
user:
  id: u1
  email: alice@example.com
  emailVerified: true
memberships:
  - role: OWNER
    tenant: {id: t1, name: Default, slug: default}
invites:
  - id: i1
    tenantName: Acme
    inviterEmail: bob@example.com
    role: MEMBER
    expires: 2030-01-01T00:00:00Z
workflows:
  wf-1:
    name: nightly-report
    versions:
      - {id: v2, version: "2", createdAt: 2024-03-02T00:00:00Z}
`

func TestFixtureClient(t *testing.T) {
	c, err := ParseFixture([]byte(fixtureYAML))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	u, err := c.CurrentUser(ctx)
	if err != nil || u.Email != "alice@example.com" || !u.EmailVerified {
		t.Fatalf("CurrentUser = %+v, %v", u, err)
	}
	ms, err := c.Memberships(ctx)
	if err != nil || len(ms) != 1 || ms[0].Tenant.Slug != "default" {
		t.Errorf("Memberships = %+v, %v", ms, err)
	}
	inv, err := c.Invites(ctx)
	if err != nil || len(inv) != 1 || inv[0].Expires.Year() != 2030 {
		t.Errorf("Invites = %+v, %v", inv, err)
	}
	w, err := c.Workflow(ctx, "t1", "wf-1")
	if err != nil || w.ID != "wf-1" || w.Name != "nightly-report" || len(w.Versions) != 1 {
		t.Errorf("Workflow = %+v, %v", w, err)
	}
	if _, err := c.Workflow(ctx, "t1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown workflow = %v", err)
	}

	c.SetUser(nil)
	if _, err := c.CurrentUser(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("signed out = %v", err)
	}
	if _, err := c.Invites(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("signed out invites = %v", err)
	}
}

func TestParseFixtureErrors(t *testing.T) {
	for _, data := range []string{"user: [", "workflows:\n  a:\n"} {
		if _, err := ParseFixture([]byte(data)); err == nil {
			t.Errorf("ParseFixture(%q) expected error", data)
		}
	}
}

func TestCookieContext(t *testing.T) {
	ctx := context.Background()
	if WithCookie(ctx, "") != ctx {
		t.Error("empty cookie should not wrap")
	}
	if got := CookieFrom(WithCookie(ctx, "hatchet=abc")); got != "hatchet=abc" {
		t.Errorf("CookieFrom = %q", got)
	}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHTTPClient(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/current", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "hatchet=abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"metadata_id":"u1","email":"a@b.c","emailVerified":true}`)
	})
	mux.HandleFunc("/api/v1/users/memberships", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"rows":[{"role":"OWNER","tenant":{"id":"t1","name":"D","slug":"d"}}]}`)
	})
	mux.HandleFunc("/api/v1/users/invites", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"rows":[]}`)
	})
	mux.HandleFunc("/api/v1/tenants/t1/workflows/wf-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"wf-1","name":"report"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL+"/api/v1/", WithHTTPLogger(quiet()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithCookie(context.Background(), "hatchet=abc")

	u, err := c.CurrentUser(ctx)
	if err != nil || u.ID != "u1" {
		t.Errorf("CurrentUser = %+v, %v", u, err)
	}
	if _, err := c.CurrentUser(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("no cookie = %v", err)
	}
	ms, err := c.Memberships(ctx)
	if err != nil || len(ms) != 1 {
		t.Errorf("Memberships = %+v, %v", ms, err)
	}
	inv, err := c.Invites(ctx)
	if err != nil || len(inv) != 0 || calls.Load() != 3 {
		t.Errorf("Invites = %+v, %v after %d calls", inv, err, calls.Load())
	}
	w, err := c.Workflow(ctx, "t1", "wf-1")
	if err != nil || w.Name != "report" {
		t.Errorf("Workflow = %+v, %v", w, err)
	}
	if _, err := c.Workflow(ctx, "t1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing workflow = %v", err)
	}
}

func TestHTTPClientGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, WithHTTPLogger(quiet()), WithMaxTries(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.CurrentUser(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	for _, u := range []string{"ftp://x", "://bad", "localhost:8080"} {
		if _, err := NewHTTPClient(u); err == nil {
			t.Errorf("NewHTTPClient(%q) expected error", u)
		}
	}
}

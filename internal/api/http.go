package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// HTTPClient calls the Hatchet REST API.
type HTTPClient struct {
	base     *url.URL
	http     *http.Client
	logger   *slog.Logger
	maxTries uint
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.http = c
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTPClient) {
		h.logger = l
	}
}

// WithMaxTries bounds attempts per call. Default 3.
func WithMaxTries(n uint) HTTPOption {
	return func(h *HTTPClient) {
		h.maxTries = n
	}
}

// NewHTTPClient creates a client for the API at baseURL, e.g.
// "https://cloud.onhatchet.run/api/v1".
func NewHTTPClient(baseURL string, opts ...HTTPOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	h := &HTTPClient{
		base:     u,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   slog.Default(),
		maxTries: 3,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// CurrentUser implements Client.
func (h *HTTPClient) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := h.get(ctx, "/users/current", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Memberships implements Client.
func (h *HTTPClient) Memberships(ctx context.Context) ([]Membership, error) {
	var out struct {
		Rows []Membership `json:"rows"`
	}
	if err := h.get(ctx, "/users/memberships", &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// Invites implements Client.
func (h *HTTPClient) Invites(ctx context.Context) ([]Invite, error) {
	var out struct {
		Rows []Invite `json:"rows"`
	}
	if err := h.get(ctx, "/users/invites", &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// Workflow implements Client.
func (h *HTTPClient) Workflow(ctx context.Context, tenantID, workflowID string) (*Workflow, error) {
	var w Workflow
	p := "/tenants/" + url.PathEscape(tenantID) + "/workflows/" + url.PathEscape(workflowID)
	if err := h.get(ctx, p, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// get fetches base+path into out, retrying transport errors and 5xx.
func (h *HTTPClient) get(ctx context.Context, path string, out any) error {
	target := h.base.String() + path

	op := func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c := CookieFrom(ctx); c != "" {
			req.Header.Set("Cookie", c)
		}

		resp, err := h.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return struct{}{}, backoff.Permanent(ctx.Err())
			}
			return struct{}{}, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return struct{}{}, backoff.Permanent(fmt.Errorf("GET %s: %w", path, ErrUnauthenticated))
		case resp.StatusCode == http.StatusNotFound:
			return struct{}{}, backoff.Permanent(fmt.Errorf("GET %s: %w", path, ErrNotFound))
		case resp.StatusCode >= 500:
			_, _ = io.Copy(io.Discard, resp.Body)
			return struct{}{}, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
		case resp.StatusCode >= 300:
			return struct{}{}, backoff.Permanent(fmt.Errorf("GET %s: status %d", path, resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("GET %s: decode: %w", path, err))
		}
		return struct{}{}, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(h.maxTries),
		backoff.WithNotify(func(err error, d time.Duration) {
			h.logger.Warn("api request failed, retrying", "path", path, "error", err, "backoff", d)
		}),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

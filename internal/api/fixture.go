package api

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Fixture is canned API state, loaded from YAML for development and the
// resolve command.
type Fixture struct {
	// User is nil when signed out.
	User        *User                `yaml:"user"`
	Memberships []Membership         `yaml:"memberships"`
	Invites     []Invite             `yaml:"invites"`
	Workflows   map[string]*Workflow `yaml:"workflows"`
}

// FixtureClient serves a Fixture. It is safe for concurrent use.
type FixtureClient struct {
	mu sync.RWMutex
	f  Fixture
}

// NewFixtureClient serves f.
func NewFixtureClient(f Fixture) *FixtureClient {
	if f.Workflows == nil {
		f.Workflows = make(map[string]*Workflow)
	}
	return &FixtureClient{f: f}
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*FixtureClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (*FixtureClient, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	for id, w := range f.Workflows {
		if w == nil {
			return nil, fmt.Errorf("parse fixture: workflow %q is empty", id)
		}
		if w.ID == "" {
			w.ID = id
		}
	}
	return NewFixtureClient(f), nil
}

// SetUser replaces the signed-in user; nil signs out.
func (c *FixtureClient) SetUser(u *User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.f.User = u
}

// CurrentUser implements Client.
func (c *FixtureClient) CurrentUser(ctx context.Context) (*User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.f.User == nil {
		return nil, ErrUnauthenticated
	}
	u := *c.f.User
	return &u, nil
}

// Memberships implements Client.
func (c *FixtureClient) Memberships(ctx context.Context) ([]Membership, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.f.User == nil {
		return nil, ErrUnauthenticated
	}
	return append([]Membership(nil), c.f.Memberships...), nil
}

// Invites implements Client.
func (c *FixtureClient) Invites(ctx context.Context) ([]Invite, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.f.User == nil {
		return nil, ErrUnauthenticated
	}
	return append([]Invite(nil), c.f.Invites...), nil
}

// Workflow implements Client. tenantID is not checked.
func (c *FixtureClient) Workflow(ctx context.Context, tenantID, workflowID string) (*Workflow, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.f.User == nil {
		return nil, ErrUnauthenticated
	}
	w, ok := c.f.Workflows[workflowID]
	if !ok {
		return nil, fmt.Errorf("workflow %q: %w", workflowID, ErrNotFound)
	}
	cp := *w
	return &cp, nil
}

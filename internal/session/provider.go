// Package session supplies the current actor's identity. Accounts and
// sessions live in the key-value store; a fixed set of demo accounts is
// always available. This is demo identity, not a security boundary:
// passwords are accepted as-is and role checks elsewhere are advisory.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
)

var (
	ErrUnknownEmail = errors.New("unknown email")
	ErrEmailTaken   = errors.New("email already registered")
	ErrBadRole      = errors.New("unknown role")
)

var demoUsers = []market.User{
	{ID: "admin-1", Email: "admin@jlsoftware.com", Name: "JL Admin", Role: market.RoleAdmin, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	{ID: "vendor-1", Email: "vendor@techhub.com", Name: "TechHub Store", Role: market.RoleVendor, CreatedAt: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
	{ID: "vendor-2", Email: "vendor@fashion.com", Name: "Fashion Forward", Role: market.RoleVendor, CreatedAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	{ID: "customer-1", Email: "customer@example.com", Name: "John Doe", Role: market.RoleCustomer, CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
}

type Provider struct {
	store kv.Store
}

func New(store kv.Store) *Provider {
	return &Provider{store: store}
}

// Login starts a session for a known email and returns the session id.
// The password is not verified; every account here is synthetic.
func (p *Provider) Login(ctx context.Context, email, _ string) (market.User, string, error) {
	user, ok, err := p.findByEmail(ctx, email)
	if err != nil {
		return market.User{}, "", err
	}
	if !ok {
		return market.User{}, "", ErrUnknownEmail
	}
	sid, err := p.startSession(ctx, user)
	if err != nil {
		return market.User{}, "", err
	}
	return user, sid, nil
}

// Register creates a local account, persists it to the registered list
// and starts a session.
func (p *Provider) Register(ctx context.Context, email, _, name string, role market.Role) (market.User, string, error) {
	if _, ok := market.ParseRole(string(role)); !ok {
		return market.User{}, "", fmt.Errorf("%w: %q", ErrBadRole, role)
	}
	if _, exists, err := p.findByEmail(ctx, email); err != nil {
		return market.User{}, "", err
	} else if exists {
		return market.User{}, "", ErrEmailTaken
	}

	user := market.User{
		ID:        "user-" + uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	registered, err := p.registered(ctx)
	if err != nil {
		return market.User{}, "", err
	}
	registered = append(registered, user)
	b, err := json.Marshal(registered)
	if err != nil {
		return market.User{}, "", fmt.Errorf("encode accounts: %w", err)
	}
	if err := p.store.Set(ctx, kv.KeyRegistered, string(b)); err != nil {
		return market.User{}, "", fmt.Errorf("persist accounts: %w", err)
	}

	sid, err := p.startSession(ctx, user)
	if err != nil {
		return market.User{}, "", err
	}
	return user, sid, nil
}

func (p *Provider) Logout(ctx context.Context, sessionID string) error {
	return p.store.Delete(ctx, fmt.Sprintf(kv.KeySession, sessionID))
}

// Current returns the session's user, or nil when the session id is
// empty or unknown.
func (p *Provider) Current(ctx context.Context, sessionID string) (*market.User, error) {
	if sessionID == "" {
		return nil, nil
	}
	raw, ok, err := p.store.Get(ctx, fmt.Sprintf(kv.KeySession, sessionID))
	if err != nil || !ok {
		return nil, err
	}
	var u market.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &u, nil
}

// Users returns demo plus registered accounts.
func (p *Provider) Users(ctx context.Context) ([]market.User, error) {
	registered, err := p.registered(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]market.User, 0, len(demoUsers)+len(registered))
	out = append(out, demoUsers...)
	out = append(out, registered...)
	return out, nil
}

func (p *Provider) startSession(ctx context.Context, u market.User) (string, error) {
	sid := uuid.NewString()
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := p.store.Set(ctx, fmt.Sprintf(kv.KeySession, sid), string(b)); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return sid, nil
}

func (p *Provider) findByEmail(ctx context.Context, email string) (market.User, bool, error) {
	users, err := p.Users(ctx)
	if err != nil {
		return market.User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return market.User{}, false, nil
}

func (p *Provider) registered(ctx context.Context) ([]market.User, error) {
	raw, ok, err := p.store.Get(ctx, kv.KeyRegistered)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var users []market.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return users, nil
}

package devauth

// Package devauth provides a config-driven identity provider for local
// development. Any email/password pair signs in as the configured identity,
// and CurrentSession reports it as already signed in so the app boots
// straight to an authenticated state.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID          string
	Email           string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.IdentityProvider for local development.
type Provider struct {
	userID          string
	email           string
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{userID: cfg.UserID, email: cfg.Email, sessionDuration: dur}, nil
}

func (p *Provider) identity() domainauth.Identity {
	return domainauth.Identity{
		Key:       p.userID,
		Email:     p.email,
		ExpiresAt: time.Now().Add(p.sessionDuration),
	}
}

// SignIn accepts any credential pair and returns the configured identity.
func (p *Provider) SignIn(_ context.Context, _, _ string) (domainauth.Identity, error) {
	return p.identity(), nil
}

// SignOut is a no-op for the dev provider.
func (p *Provider) SignOut(_ context.Context, _ string) error { return nil }

// CurrentSession always reports the configured identity as signed in.
func (p *Provider) CurrentSession(_ context.Context) (domainauth.Identity, bool, error) {
	return p.identity(), true, nil
}

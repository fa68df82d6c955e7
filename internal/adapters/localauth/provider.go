package localauth

// Package localauth implements the identity provider against the club's own
// credential table with bcrypt password hashes. It is the default provider
// for self-hosted deployments; hosted identity backends plug in behind the
// same port.

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// CredentialSource is the slice of data.CredentialRepo the provider needs.
type CredentialSource interface {
	GetByEmail(ctx context.Context, email string) (data.Credential, error)
}

// Config controls provider behavior.
type Config struct {
	Credentials     CredentialSource
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.IdentityProvider by checking bcrypt hashes.
type Provider struct {
	credentials     CredentialSource
	sessionDuration time.Duration
}

// NewProvider constructs a local credential provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Credentials == nil {
		return nil, errors.New("localauth: credential source is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{credentials: cfg.Credentials, sessionDuration: dur}, nil
}

// SignIn verifies the email/password pair. An unknown email and a wrong
// password are indistinguishable to the caller.
func (p *Provider) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	cred, err := p.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrCredentialNotFound) {
			return domainauth.Identity{}, domainauth.ErrBadCredentials
		}
		return domainauth.Identity{}, err
	}

	if compareErr := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); compareErr != nil {
		return domainauth.Identity{}, domainauth.ErrBadCredentials
	}

	return domainauth.Identity{
		Key:       cred.ID,
		Email:     cred.Email,
		ExpiresAt: time.Now().Add(p.sessionDuration),
	}, nil
}

// SignOut is a no-op: local credentials hold no provider-side session state.
func (p *Provider) SignOut(_ context.Context, _ string) error { return nil }

// CurrentSession always reports no pre-existing session; browser sessions
// are tracked by the web session store, not the credential table.
func (p *Provider) CurrentSession(_ context.Context) (domainauth.Identity, bool, error) {
	return domainauth.Identity{}, false, nil
}

// HashPassword produces the bcrypt hash stored alongside a credential.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

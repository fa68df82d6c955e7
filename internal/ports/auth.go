package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// IdentityProvider brokers credential checks against the external identity
// system. Implementations return domainauth.ErrBadCredentials on rejected
// credentials; any other failure is infrastructure.
type IdentityProvider interface {
	// SignIn verifies the credential pair and returns the authenticated identity.
	SignIn(ctx context.Context, email, password string) (domainauth.Identity, error)

	// SignOut invalidates the provider-side session for the identity, when one
	// exists. Failures are reported but callers must not depend on success.
	SignOut(ctx context.Context, identityKey string) error

	// CurrentSession reports a pre-existing valid provider session, if any.
	// ok is false when no session exists; err is reserved for infrastructure
	// failures while asking.
	CurrentSession(ctx context.Context) (identity domainauth.Identity, ok bool, err error)
}

// SessionChangeNotifier is implemented by providers that can signal
// out-of-band session invalidation. Each receive on the channel means the
// provider-side session changed and must be re-resolved.
type SessionChangeNotifier interface {
	SessionChanges() <-chan struct{}
}

// ProfileStore resolves provider identities into domain user records.
type ProfileStore interface {
	// FetchUserByKey returns the user whose ID equals the identity key.
	// Returns domainauth.ErrProfileNotFound when no row matches; any other
	// error is an infrastructure failure, never a missing account.
	FetchUserByKey(ctx context.Context, identityKey string) (domainauth.User, error)

	// FetchUserBySubject returns the user linked to an SSO subject.
	// Same error contract as FetchUserByKey.
	FetchUserBySubject(ctx context.Context, subject string) (domainauth.User, error)
}

// BeginInput carries inputs for initiating an SSO auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the SSO code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider initiates and completes a browser redirect flow against an IdP.
// Used for staff single sign-on alongside the password IdentityProvider.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque
	// state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity subject and email.
	Exchange(ctx context.Context, in ExchangeInput) (SSOIdentity, error)
}

// SSOIdentity is the principal returned by an SSO exchange. Subject is the
// provider's stable subject claim; it maps to a user via ProfileStore.
type SSOIdentity struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// SessionStore persists and retrieves server-side web sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

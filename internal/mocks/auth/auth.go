package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider      = (*MockIdentityProvider)(nil)
	_ ports.SessionChangeNotifier = (*MockIdentityProvider)(nil)
	_ ports.SSOProvider           = (*MockSSOProvider)(nil)
	_ ports.ProfileStore          = (*MemoryProfileStore)(nil)
	_ ports.SessionStore          = (*MemorySessionStore)(nil)
)

// MockIdentityProvider simulates the identity provider for tests. Each
// behavior can be overridden per test via the *Func fields; otherwise the
// provider accepts DefaultEmail/DefaultPassword and reports no pre-existing
// session.
type MockIdentityProvider struct {
	SignInFunc         func(ctx context.Context, email, password string) (domainauth.Identity, error)
	SignOutFunc        func(ctx context.Context, identityKey string) error
	CurrentSessionFunc func(ctx context.Context) (domainauth.Identity, bool, error)

	DefaultEmail    string
	DefaultPassword string
	DefaultIdentity domainauth.Identity

	// Changes, when non-nil, is returned by SessionChanges so tests can
	// push out-of-band invalidation signals.
	Changes chan struct{}

	mu           sync.Mutex
	signInCalls  int
	signOutCalls int
	signOutKeys  []string
}

// NewMockIdentityProvider creates a provider that accepts a single known
// credential pair.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultEmail:    "mock.user@example.com",
		DefaultPassword: "password",
		DefaultIdentity: domainauth.Identity{
			Key:       "mock-user-1",
			Email:     "mock.user@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	m.mu.Lock()
	m.signInCalls++
	m.mu.Unlock()

	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	if email != m.DefaultEmail || password != m.DefaultPassword {
		return domainauth.Identity{}, domainauth.ErrBadCredentials
	}
	id := m.DefaultIdentity
	id.ExpiresAt = time.Now().Add(time.Hour)
	return id, nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, identityKey string) error {
	m.mu.Lock()
	m.signOutCalls++
	m.signOutKeys = append(m.signOutKeys, identityKey)
	m.mu.Unlock()

	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, identityKey)
	}
	return nil
}

func (m *MockIdentityProvider) CurrentSession(ctx context.Context) (domainauth.Identity, bool, error) {
	if m.CurrentSessionFunc != nil {
		return m.CurrentSessionFunc(ctx)
	}
	return domainauth.Identity{}, false, nil
}

// SessionChanges returns the injected change channel, or a nil channel that
// never delivers when none was set.
func (m *MockIdentityProvider) SessionChanges() <-chan struct{} { return m.Changes }

// SignInCalls reports how many times SignIn was invoked.
func (m *MockIdentityProvider) SignInCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signInCalls
}

// SignOutCalls reports how many times SignOut was invoked.
func (m *MockIdentityProvider) SignOutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signOutCalls
}

// SignOutKeys returns the identity keys passed to SignOut, in call order.
func (m *MockIdentityProvider) SignOutKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.signOutKeys))
	copy(out, m.signOutKeys)
	return out
}

// MockSSOProvider simulates a redirect-flow IdP with deterministic state and
// nonce values.
type MockSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.SSOIdentity, error)

	AuthURL         string
	DefaultIdentity ports.SSOIdentity

	mu        sync.Mutex
	callCount int
}

// NewMockSSOProvider creates a MockSSOProvider with sensible defaults.
func NewMockSSOProvider() *MockSSOProvider {
	return &MockSSOProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultIdentity: ports.SSOIdentity{
			Subject: "mock-subject-1",
			Email:   "mock.user@example.com",
		},
	}
}

func (m *MockSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return authURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.SSOIdentity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	id := m.DefaultIdentity
	id.ExpiresAt = time.Now().Add(time.Hour)
	return id, nil
}

// MemoryProfileStore is an in-memory profile store keyed by user ID, with a
// secondary index from SSO subject to user ID.
type MemoryProfileStore struct {
	mu       sync.Mutex
	users    map[string]domainauth.User
	subjects map[string]string

	// FetchErr, when set, is returned from both fetch methods so tests can
	// simulate infrastructure failures.
	FetchErr error
}

// NewMemoryProfileStore creates an empty in-memory profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{
		users:    make(map[string]domainauth.User),
		subjects: make(map[string]string),
	}
}

// Add stores a user, keyed by its ID.
func (m *MemoryProfileStore) Add(u domainauth.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// Link associates an SSO subject with a stored user ID.
func (m *MemoryProfileStore) Link(subject, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects[subject] = userID
}

func (m *MemoryProfileStore) FetchUserByKey(_ context.Context, identityKey string) (domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return domainauth.User{}, m.FetchErr
	}
	u, ok := m.users[identityKey]
	if !ok {
		return domainauth.User{}, domainauth.ErrProfileNotFound
	}
	return u, nil
}

func (m *MemoryProfileStore) FetchUserBySubject(_ context.Context, subject string) (domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return domainauth.User{}, m.FetchErr
	}
	id, ok := m.subjects[subject]
	if !ok {
		return domainauth.User{}, domainauth.ErrProfileNotFound
	}
	u, ok := m.users[id]
	if !ok {
		return domainauth.User{}, domainauth.ErrProfileNotFound
	}
	return u, nil
}

// MemorySessionStore is an in-memory web session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, fmt.Errorf("session %q not found", id)
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	mockauth "github.com/fitnova/fitnova-ui-api/internal/mocks/auth"
)

func newTestSessionService(provider *mockauth.MockIdentityProvider, profiles *mockauth.MemoryProfileStore) *SessionService {
	return NewSessionService(SessionServiceOptions{
		Provider: provider,
		Profiles: profiles,
	})
}

func seedProfile(profiles *mockauth.MemoryProfileStore, key string, role domainauth.Role) domainauth.User {
	user := domainauth.User{
		ID:        key,
		FirstName: "Ana",
		LastName:  "Novak",
		Email:     "ana@example.com",
		Role:      role,
	}
	profiles.Add(user)
	return user
}

// snapshotRecorder collects observer notifications in delivery order.
type snapshotRecorder struct {
	mu    sync.Mutex
	snaps []domainauth.Snapshot
}

func (r *snapshotRecorder) record(snap domainauth.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

func (r *snapshotRecorder) all() []domainauth.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domainauth.Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}

func TestSessionServiceStartsLoading(t *testing.T) {
	svc := newTestSessionService(mockauth.NewMockIdentityProvider(), mockauth.NewMemoryProfileStore())

	snap := svc.Snapshot()
	assert.True(t, snap.Loading)
	assert.Nil(t, snap.CurrentUser)
	assert.Equal(t, domainauth.PhaseLoading, snap.Phase())
}

func TestSessionServiceInitializeNoSession(t *testing.T) {
	svc := newTestSessionService(mockauth.NewMockIdentityProvider(), mockauth.NewMemoryProfileStore())

	svc.Initialize(context.Background())

	snap := svc.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.CurrentUser)
	assert.Equal(t, domainauth.PhaseAnonymous, snap.Phase())
}

func TestSessionServiceInitializeExistingSession(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	user := seedProfile(profiles, "user-1", domainauth.RoleMember)

	provider.CurrentSessionFunc = func(context.Context) (domainauth.Identity, bool, error) {
		return domainauth.Identity{Key: "user-1", Email: user.Email}, true, nil
	}

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())

	snap := svc.Snapshot()
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, user, *snap.CurrentUser)
	assert.Equal(t, domainauth.PhaseAuthenticated, snap.Phase())
}

func TestSessionServiceInitializeLookupFailure(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	provider.CurrentSessionFunc = func(context.Context) (domainauth.Identity, bool, error) {
		return domainauth.Identity{}, false, errors.New("idp unreachable")
	}

	svc := newTestSessionService(provider, mockauth.NewMemoryProfileStore())
	svc.Initialize(context.Background())

	snap := svc.Snapshot()
	assert.Nil(t, snap.CurrentUser)
	assert.Equal(t, domainauth.ErrorKindFetch, snap.LastError)
	assert.True(t, snap.LastError.Retryable())
}

func TestSessionServiceLoginSuccess(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	seeded := seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())

	user, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, seeded, *user)

	snap := svc.Snapshot()
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, seeded.ID, snap.CurrentUser.ID)
	assert.Equal(t, domainauth.ErrorKindNone, snap.LastError)
}

func TestSessionServiceLoginBadCredentialsKeepsUser(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	seeded := seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())

	_, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.NoError(t, err)

	// A rejected re-login must not disturb the signed-in user.
	_, err = svc.Login(context.Background(), provider.DefaultEmail, "wrong")
	require.ErrorIs(t, err, domainauth.ErrBadCredentials)

	snap := svc.Snapshot()
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, seeded.ID, snap.CurrentUser.ID)
	assert.Equal(t, domainauth.ErrorKindAuth, snap.LastError)
	assert.False(t, snap.LastError.Retryable())
}

func TestSessionServiceLoginProfileNotFound(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	// Identity verifies upstream but no profile row exists.
	svc := newTestSessionService(provider, mockauth.NewMemoryProfileStore())
	svc.Initialize(context.Background())

	user, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.ErrorIs(t, err, domainauth.ErrProfileNotFound)
	assert.Nil(t, user)

	snap := svc.Snapshot()
	assert.Nil(t, snap.CurrentUser)
	assert.Equal(t, domainauth.ErrorKindProfileNotFound, snap.LastError)
	assert.False(t, snap.LastError.Retryable())
}

func TestSessionServiceLoginFetchErrorKeepsUser(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	seeded := seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())
	_, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.NoError(t, err)

	// Infrastructure failure on the next resolution must not fake a logout.
	profiles.FetchErr = errors.New("db down")
	_, err = svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.Error(t, err)

	var fetchErr *domainauth.FetchError
	require.ErrorAs(t, err, &fetchErr)

	snap := svc.Snapshot()
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, seeded.ID, snap.CurrentUser.ID)
	assert.Equal(t, domainauth.ErrorKindFetch, snap.LastError)
}

func TestSessionServiceLoginWithIdentity(t *testing.T) {
	profiles := mockauth.NewMemoryProfileStore()
	seeded := seedProfile(profiles, "user-7", domainauth.RoleAdmin)

	svc := newTestSessionService(mockauth.NewMockIdentityProvider(), profiles)
	svc.Initialize(context.Background())

	user, err := svc.LoginWithIdentity(context.Background(), domainauth.Identity{Key: "user-7"})
	require.NoError(t, err)
	assert.Equal(t, seeded, *user)
	assert.Equal(t, domainauth.PhaseAuthenticated, svc.Snapshot().Phase())
}

func TestSessionServiceLogout(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())
	_, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.NoError(t, err)

	svc.Logout(context.Background())

	snap := svc.Snapshot()
	assert.Nil(t, snap.CurrentUser)
	assert.Equal(t, domainauth.PhaseAnonymous, snap.Phase())
	assert.Equal(t, []string{"mock-user-1"}, provider.SignOutKeys())
}

func TestSessionServiceLogoutFailOpen(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	provider.SignOutFunc = func(context.Context, string) error {
		return errors.New("idp unreachable")
	}
	profiles := mockauth.NewMemoryProfileStore()
	seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())
	_, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.NoError(t, err)

	// The provider failing never keeps a user signed in locally.
	svc.Logout(context.Background())

	snap := svc.Snapshot()
	assert.Nil(t, snap.CurrentUser)
	assert.Equal(t, domainauth.ErrorKindNone, snap.LastError)
}

func TestSessionServiceLogoutSupersedesInflightLogin(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())

	// Logout lands while the login's sign-in call is still in flight; the
	// login's completion carries a stale generation and must be dropped.
	provider.SignInFunc = func(ctx context.Context, email, password string) (domainauth.Identity, error) {
		svc.Logout(ctx)
		return domainauth.Identity{Key: "mock-user-1"}, nil
	}

	user, err := svc.Login(context.Background(), "any@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, user)

	snap := svc.Snapshot()
	assert.Nil(t, snap.CurrentUser, "superseded login must not resurrect the session")
	assert.Equal(t, domainauth.PhaseAnonymous, snap.Phase())
}

func TestSessionServiceObserversSeeOrderedTransitions(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())

	rec := &snapshotRecorder{}
	unsubscribe := svc.Subscribe(rec.record)

	_, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.NoError(t, err)

	snaps := rec.all()
	require.Len(t, snaps, 2, "one loading transition, one settled transition")
	assert.True(t, snaps[0].Loading)
	assert.False(t, snaps[1].Loading)
	require.NotNil(t, snaps[1].CurrentUser)
	assert.Equal(t, "mock-user-1", snaps[1].CurrentUser.ID)

	unsubscribe()
	svc.Logout(context.Background())
	assert.Len(t, rec.all(), 2, "no deliveries after unsubscribe")
}

func TestSessionServiceSnapshotIsACopy(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	profiles := mockauth.NewMemoryProfileStore()
	seedProfile(profiles, "mock-user-1", domainauth.RoleMember)

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(context.Background())
	_, err := svc.Login(context.Background(), provider.DefaultEmail, provider.DefaultPassword)
	require.NoError(t, err)

	snap := svc.Snapshot()
	require.NotNil(t, snap.CurrentUser)
	snap.CurrentUser.FirstName = "Mutated"

	assert.Equal(t, "Ana", svc.Snapshot().CurrentUser.FirstName)
}

func TestSessionServiceProviderChangeInvalidatesSession(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	provider.Changes = make(chan struct{})
	profiles := mockauth.NewMemoryProfileStore()
	user := seedProfile(profiles, "user-1", domainauth.RoleMember)

	signedIn := true
	provider.CurrentSessionFunc = func(context.Context) (domainauth.Identity, bool, error) {
		if signedIn {
			return domainauth.Identity{Key: "user-1", Email: user.Email}, true, nil
		}
		return domainauth.Identity{}, false, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newTestSessionService(provider, profiles)
	svc.Initialize(ctx)
	require.NotNil(t, svc.Snapshot().CurrentUser)

	signedIn = false
	provider.Changes <- struct{}{}

	assert.Eventually(t, func() bool {
		snap := svc.Snapshot()
		return !snap.Loading && snap.CurrentUser == nil
	}, time.Second, 5*time.Millisecond, "provider invalidation must clear the session")
}

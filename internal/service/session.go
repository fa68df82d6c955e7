package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/ports"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Provider ports.IdentityProvider
	Profiles ports.ProfileStore
	Logger   *slog.Logger
}

// SessionService is the single authority for the authentication lifecycle.
// All reads of "who is logged in" go through its current snapshot.
//
// It is explicitly constructed and dependency-injected rather than a
// module-level global, so tests instantiate isolated instances per case.
type SessionService struct {
	provider ports.IdentityProvider
	profiles ports.ProfileStore
	logger   *slog.Logger

	// notifyMu serializes state transitions end to end so observers see every
	// transition exactly once, in the order transitions occurred. mu alone
	// guards the fields and stays droppable during observer callbacks.
	notifyMu sync.Mutex
	mu       sync.Mutex
	snap     domainauth.Snapshot
	gen      uint64 // latest issued request generation; stale completions are dropped
	nextSub  int
	subs     map[int]func(domainauth.Snapshot)

	watchOnce sync.Once
}

// NewSessionService constructs a SessionService. The snapshot starts in the
// loading phase: consumers render a neutral state until Initialize resolves.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		provider: opts.Provider,
		profiles: opts.Profiles,
		logger:   logger,
		snap:     domainauth.Snapshot{Loading: true},
		subs:     make(map[int]func(domainauth.Snapshot)),
	}
}

// Snapshot returns a copy of the current session state. The returned user is
// a copy; mutating it never affects the store.
func (s *SessionService) Snapshot() domainauth.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap)
}

// Subscribe registers an observer that receives every subsequent state
// transition once, in order. The returned function unsubscribes.
func (s *SessionService) Subscribe(fn func(domainauth.Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Initialize resolves a pre-existing provider session into a domain user. It
// is invoked once at process start; consumers treat the loading snapshot as
// "do not decide on redirects yet". If the provider supports change
// notifications, re-resolution is wired up here as well.
func (s *SessionService) Initialize(ctx context.Context) {
	gen := s.issue(true)

	identity, ok, err := s.provider.CurrentSession(ctx)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "session lookup failed", "error", err)
		s.complete(gen, domainauth.Snapshot{LastError: domainauth.ErrorKindFetch})
	case !ok:
		s.complete(gen, domainauth.Snapshot{})
	default:
		s.resolveInto(ctx, gen, identity)
	}

	s.watchOnce.Do(func() { s.watchProviderChanges(ctx) })
}

// Login verifies credentials and resolves the identity into a domain user.
// The returned user is what the login form navigates with afterward.
//
// Overlapping calls are not expected (the form disables its submit control)
// but the store stays safe if they happen: each call gets a generation, and
// a completion is applied only when its generation is still the latest.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domainauth.User, error) {
	gen := s.issue(true)

	identity, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, domainauth.ErrBadCredentials) {
			// Rejected credentials do not disturb whoever was signed in before.
			s.completeKeepUser(gen, domainauth.ErrorKindAuth)
			return nil, domainauth.ErrBadCredentials
		}
		s.completeKeepUser(gen, domainauth.ErrorKindFetch)
		return nil, domainauth.NewFetchError("sign in", err)
	}

	return s.finishResolve(ctx, gen, identity)
}

// LoginWithIdentity applies an already-authenticated identity (the SSO
// callback path) through the same resolution pipeline as Login.
func (s *SessionService) LoginWithIdentity(ctx context.Context, identity domainauth.Identity) (*domainauth.User, error) {
	gen := s.issue(true)
	return s.finishResolve(ctx, gen, identity)
}

// Logout invalidates the provider session, then unconditionally clears local
// state. Local correctness never depends on the external call succeeding: a
// user who asked to sign out is signed out, period.
func (s *SessionService) Logout(ctx context.Context) {
	// Issuing a new generation here also drops any in-flight login completion.
	gen := s.issue(false)

	identityKey := ""
	s.mu.Lock()
	if s.snap.CurrentUser != nil {
		identityKey = s.snap.CurrentUser.ID
	}
	s.mu.Unlock()

	if err := s.provider.SignOut(ctx, identityKey); err != nil {
		s.logger.WarnContext(ctx, "provider sign-out failed, clearing local state anyway", "error", err)
	}

	s.complete(gen, domainauth.Snapshot{})
}

// finishResolve resolves an identity to a user record and applies the result.
func (s *SessionService) finishResolve(ctx context.Context, gen uint64, identity domainauth.Identity) (*domainauth.User, error) {
	user, err := s.resolveUser(ctx, identity.Key)
	if err != nil {
		if errors.Is(err, domainauth.ErrProfileNotFound) {
			// Identity exists upstream but is not a usable account here:
			// resolved-without-user, terminal for this identity.
			s.complete(gen, domainauth.Snapshot{LastError: domainauth.ErrorKindProfileNotFound})
			return nil, err
		}
		s.completeKeepUser(gen, domainauth.ErrorKindFetch)
		return nil, err
	}

	s.complete(gen, domainauth.Snapshot{CurrentUser: &user})
	return &user, nil
}

// resolveInto is finishResolve for paths that have no caller to return to.
func (s *SessionService) resolveInto(ctx context.Context, gen uint64, identity domainauth.Identity) {
	if _, err := s.finishResolve(ctx, gen, identity); err != nil {
		s.logger.InfoContext(ctx, "session did not resolve to a user", "error", err)
	}
}

// resolveUser fetches the domain user for an identity key. A legitimate
// "no row" answer surfaces as ErrProfileNotFound; only the fetch itself
// failing becomes a FetchError.
func (s *SessionService) resolveUser(ctx context.Context, identityKey string) (domainauth.User, error) {
	user, err := s.profiles.FetchUserByKey(ctx, identityKey)
	if err != nil {
		if errors.Is(err, domainauth.ErrProfileNotFound) {
			return domainauth.User{}, domainauth.ErrProfileNotFound
		}
		return domainauth.User{}, domainauth.NewFetchError(
			fmt.Sprintf("fetch user %s", identityKey), err)
	}
	return user, nil
}

// issue allocates the next request generation and optionally enters the
// loading phase, clearing any error left over from a prior resolution.
func (s *SessionService) issue(markLoading bool) uint64 {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	var changed bool
	var snap domainauth.Snapshot
	if markLoading && !s.snap.Loading {
		s.snap.Loading = true
		s.snap.LastError = domainauth.ErrorKindNone
		snap = copySnapshot(s.snap)
		changed = true
	}
	subs := s.observers()
	s.mu.Unlock()

	if changed {
		dispatch(subs, snap)
	}
	return gen
}

// complete applies a settled snapshot if gen is still the latest request.
func (s *SessionService) complete(gen uint64, settled domainauth.Snapshot) {
	settled.Loading = false
	s.applyIfCurrent(gen, func(_ domainauth.Snapshot) domainauth.Snapshot { return settled })
}

// completeKeepUser settles with an error kind while preserving the current
// user, so an infrastructure failure never fakes an unauthenticated state.
func (s *SessionService) completeKeepUser(gen uint64, kind domainauth.ErrorKind) {
	s.applyIfCurrent(gen, func(prev domainauth.Snapshot) domainauth.Snapshot {
		return domainauth.Snapshot{CurrentUser: prev.CurrentUser, LastError: kind}
	})
}

func (s *SessionService) applyIfCurrent(gen uint64, next func(domainauth.Snapshot) domainauth.Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("dropping stale session completion", "generation", gen)
		return
	}
	s.snap = next(s.snap)
	snap := copySnapshot(s.snap)
	subs := s.observers()
	s.mu.Unlock()

	dispatch(subs, snap)
}

// observers returns the subscriber callbacks in registration order.
// Caller must hold mu.
func (s *SessionService) observers() []func(domainauth.Snapshot) {
	out := make([]func(domainauth.Snapshot), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// watchProviderChanges re-resolves the session whenever the provider signals
// an out-of-band invalidation, through the same path as Initialize.
func (s *SessionService) watchProviderChanges(ctx context.Context) {
	notifier, ok := s.provider.(ports.SessionChangeNotifier)
	if !ok {
		return
	}
	changes := notifier.SessionChanges()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, open := <-changes:
				if !open {
					return
				}
				gen := s.issue(true)
				identity, present, err := s.provider.CurrentSession(ctx)
				switch {
				case err != nil:
					s.complete(gen, domainauth.Snapshot{LastError: domainauth.ErrorKindFetch})
				case !present:
					s.complete(gen, domainauth.Snapshot{})
				default:
					s.resolveInto(ctx, gen, identity)
				}
			}
		}
	}()
}

func copySnapshot(snap domainauth.Snapshot) domainauth.Snapshot {
	out := snap
	if snap.CurrentUser != nil {
		user := *snap.CurrentUser
		out.CurrentUser = &user
	}
	return out
}

func dispatch(subs []func(domainauth.Snapshot), snap domainauth.Snapshot) {
	for _, fn := range subs {
		fn(copySnapshot(snap))
	}
}

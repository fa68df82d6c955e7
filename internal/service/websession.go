package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/ports"
	"github.com/google/uuid"
)

// ErrSessionExpired is returned when a web session exists but has passed its
// absolute expiry.
var ErrSessionExpired = errors.New("session expired")

// WebSessionServiceOptions groups dependencies for WebSessionService.
type WebSessionServiceOptions struct {
	Store ports.SessionStore
	TTL   time.Duration
}

// WebSessionService issues and validates the server-side sessions that back
// browser cookies. It carries no authorization logic; that belongs to the
// guard.
type WebSessionService struct {
	store ports.SessionStore
	ttl   time.Duration
}

// DefaultSessionTTL bounds a browser session when no TTL is configured.
const DefaultSessionTTL = 8 * time.Hour

// NewWebSessionService constructs a WebSessionService.
func NewWebSessionService(opts WebSessionServiceOptions) *WebSessionService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &WebSessionService{store: opts.Store, ttl: ttl}
}

// Create persists a fresh session for a resolved user and returns it.
func (s *WebSessionService) Create(ctx context.Context, user domainauth.User) (domainauth.Session, error) {
	sess := domainauth.NewSession(uuid.NewString(), user, time.Now().Add(s.ttl))
	if err := s.store.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Get retrieves a session by ID, cleaning up expired records on the way.
func (s *WebSessionService) Get(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.Expired(time.Now()) {
		if deleteErr := s.store.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &sess, nil
}

// Destroy removes a session. A missing ID is not an error; there is nothing
// to destroy.
func (s *WebSessionService) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	mockauth "github.com/fitnova/fitnova-ui-api/internal/mocks/auth"
)

func TestWebSessionServiceRoundTrip(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc := NewWebSessionService(WebSessionServiceOptions{Store: store})

	user := domainauth.User{
		ID:        "user-1",
		FirstName: "Ana",
		LastName:  "Novak",
		Email:     "ana@example.com",
		Role:      domainauth.RoleMember,
	}

	sess, err := svc.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, user, sess.User())
	assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), sess.ExpiresAt, time.Minute)

	got, err := svc.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)
}

func TestWebSessionServiceGetRequiresID(t *testing.T) {
	svc := NewWebSessionService(WebSessionServiceOptions{Store: mockauth.NewMemorySessionStore()})

	_, err := svc.Get(context.Background(), "")
	assert.Error(t, err)
}

func TestWebSessionServiceGetUnknownID(t *testing.T) {
	svc := NewWebSessionService(WebSessionServiceOptions{Store: mockauth.NewMemorySessionStore()})

	_, err := svc.Get(context.Background(), "no-such-session")
	assert.Error(t, err)
}

func TestWebSessionServiceExpiredSessionIsDeleted(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc := NewWebSessionService(WebSessionServiceOptions{Store: store})

	user := domainauth.User{ID: "user-1", Role: domainauth.RoleMember}
	expired := domainauth.NewSession("sess-1", user, time.Now().Add(-time.Minute))
	require.NoError(t, store.Save(context.Background(), expired))

	_, err := svc.Get(context.Background(), "sess-1")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, store.Len(), "expired session must be removed from the store")
}

func TestWebSessionServiceDestroy(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc := NewWebSessionService(WebSessionServiceOptions{Store: store})

	sess, err := svc.Create(context.Background(), domainauth.User{ID: "user-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(context.Background(), sess.ID))
	assert.Zero(t, store.Len())

	// Destroying nothing is not an error.
	assert.NoError(t, svc.Destroy(context.Background(), ""))
}

func TestWebSessionServiceCustomTTL(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc := NewWebSessionService(WebSessionServiceOptions{Store: store, TTL: time.Minute})

	sess, err := svc.Create(context.Background(), domainauth.User{ID: "user-1"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), sess.ExpiresAt, 10*time.Second)
}

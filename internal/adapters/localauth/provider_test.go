package localauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

type fakeCredentialSource struct {
	creds map[string]data.Credential
	err   error
}

func (f *fakeCredentialSource) GetByEmail(_ context.Context, email string) (data.Credential, error) {
	if f.err != nil {
		return data.Credential{}, f.err
	}
	cred, ok := f.creds[email]
	if !ok {
		return data.Credential{}, data.ErrCredentialNotFound
	}
	return cred, nil
}

func newTestProvider(t *testing.T, source CredentialSource) *Provider {
	t.Helper()
	p, err := NewProvider(Config{Credentials: source})
	require.NoError(t, err)
	return p
}

func TestNewProviderRequiresCredentials(t *testing.T) {
	_, err := NewProvider(Config{})
	assert.Error(t, err)
}

func TestSignIn(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	source := &fakeCredentialSource{creds: map[string]data.Credential{
		"ana@example.com": {ID: "user-1", Email: "ana@example.com", PasswordHash: hash},
	}}
	p := newTestProvider(t, source)

	identity, err := p.SignIn(context.Background(), "ana@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.Key)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), identity.ExpiresAt, time.Minute)
}

func TestSignInRejections(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	source := &fakeCredentialSource{creds: map[string]data.Credential{
		"ana@example.com": {ID: "user-1", Email: "ana@example.com", PasswordHash: hash},
	}}
	p := newTestProvider(t, source)

	// Wrong password and unknown email produce the same error.
	_, err = p.SignIn(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, domainauth.ErrBadCredentials)

	_, err = p.SignIn(context.Background(), "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, domainauth.ErrBadCredentials)
}

func TestSignInInfrastructureFailureIsNotBadCredentials(t *testing.T) {
	dbErr := errors.New("db down")
	p := newTestProvider(t, &fakeCredentialSource{err: dbErr})

	_, err := p.SignIn(context.Background(), "ana@example.com", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, domainauth.ErrBadCredentials)
}

func TestSignOutAndCurrentSession(t *testing.T) {
	p := newTestProvider(t, &fakeCredentialSource{})

	assert.NoError(t, p.SignOut(context.Background(), "user-1"))

	_, ok, err := p.CurrentSession(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret password", string(hash))

	// Hashing the same password twice yields different salts.
	again, err := HashPassword("secret password")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

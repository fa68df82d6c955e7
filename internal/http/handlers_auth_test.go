package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	mockauth "github.com/fitnova/fitnova-ui-api/internal/mocks/auth"
	"github.com/fitnova/fitnova-ui-api/internal/service"
)

// fakeSessionCore is a hand-written SessionCore double.
type fakeSessionCore struct {
	user       *domainauth.User
	loginErr   error
	logoutDone bool
}

func (f *fakeSessionCore) Login(context.Context, string, string) (*domainauth.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

func (f *fakeSessionCore) LoginWithIdentity(context.Context, domainauth.Identity) (*domainauth.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

func (f *fakeSessionCore) Logout(context.Context) { f.logoutDone = true }

// fakeRegistrar is a hand-written Registrar double.
type fakeRegistrar struct {
	user domainauth.User
	err  error
	got  service.RegisterInput
}

func (f *fakeRegistrar) Register(_ context.Context, in service.RegisterInput) (domainauth.User, error) {
	f.got = in
	if f.err != nil {
		return domainauth.User{}, f.err
	}
	return f.user, nil
}

func testUser() domainauth.User {
	return domainauth.User{
		ID:        "user-1",
		FirstName: "Ana",
		LastName:  "Novak",
		Email:     "ana@example.com",
		Role:      domainauth.RoleMember,
	}
}

type authHandlersFixture struct {
	handlers *AuthHandlers
	core     *fakeSessionCore
	store    *mockauth.MemorySessionStore
	profiles *mockauth.MemoryProfileStore
	sso      *mockauth.MockSSOProvider
}

func newAuthHandlersFixture(t *testing.T) *authHandlersFixture {
	t.Helper()
	user := testUser()
	f := &authHandlersFixture{
		core:     &fakeSessionCore{user: &user},
		store:    mockauth.NewMemorySessionStore(),
		profiles: mockauth.NewMemoryProfileStore(),
		sso:      mockauth.NewMockSSOProvider(),
	}
	f.handlers = &AuthHandlers{
		Core:         f.core,
		Sessions:     service.NewWebSessionService(service.WebSessionServiceOptions{Store: f.store}),
		Registration: &fakeRegistrar{user: user},
		SSO:          f.sso,
		Profiles:     f.profiles,
	}
	return f
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthHandlersFixture(t)

	body := `{"email": "ana@example.com", "password": "supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handlers.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User userPayload `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, "member", resp.User.Role)

	cookie := findCookie(t, rec, SessionCookieName)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 1, f.store.Len())
}

func TestLoginErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		loginErr    error
		wantCode    int
		wantErrCode string
		wantRetry   bool
	}{
		{
			name:        "bad credentials",
			loginErr:    domainauth.ErrBadCredentials,
			wantCode:    http.StatusUnauthorized,
			wantErrCode: "invalid_credentials",
		},
		{
			name:        "profile not found is terminal",
			loginErr:    domainauth.ErrProfileNotFound,
			wantCode:    http.StatusForbidden,
			wantErrCode: "profile_not_found",
		},
		{
			name:        "infrastructure failure is retryable",
			loginErr:    domainauth.NewFetchError("fetch user", errors.New("db down")),
			wantCode:    http.StatusServiceUnavailable,
			wantErrCode: "temporarily_unavailable",
			wantRetry:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthHandlersFixture(t)
			f.core.loginErr = tt.loginErr

			body := `{"email": "ana@example.com", "password": "supersecret"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()
			f.handlers.Login(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErrCode)
			if tt.wantRetry {
				assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			}
			assert.Nil(t, findCookie(t, rec, SessionCookieName), "failed login must not set a cookie")
		})
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	f := newAuthHandlersFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.handlers.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestRegisterSuccess(t *testing.T) {
	f := newAuthHandlersFixture(t)

	body := `{"first_name": "Ana", "last_name": "Novak", "email": "ana@example.com", "password": "supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handlers.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotNil(t, findCookie(t, rec, SessionCookieName), "registration signs the member in")
	assert.Equal(t, 1, f.store.Len())
}

func TestRegisterErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantErrCode string
	}{
		{name: "duplicate email", err: data.ErrEmailExists, wantCode: http.StatusConflict, wantErrCode: "email_exists"},
		{name: "short password", err: service.ErrPasswordTooShort, wantCode: http.StatusBadRequest, wantErrCode: "invalid_input"},
		{name: "missing name", err: service.ErrNameRequired, wantCode: http.StatusBadRequest, wantErrCode: "invalid_input"},
		{name: "unexpected failure", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantErrCode: "registration_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthHandlersFixture(t)
			f.handlers.Registration = &fakeRegistrar{err: tt.err}

			body := `{"first_name": "Ana", "last_name": "Novak", "email": "ana@example.com", "password": "supersecret"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
			rec := httptest.NewRecorder()
			f.handlers.Register(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErrCode)
		})
	}
}

func TestLogout(t *testing.T) {
	f := newAuthHandlersFixture(t)

	sess, err := f.handlers.Sessions.Create(context.Background(), testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	f.handlers.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "signed_out")
	assert.True(t, f.core.logoutDone)
	assert.Zero(t, f.store.Len(), "web session must be destroyed")

	cookie := findCookie(t, rec, SessionCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestLogoutWithoutCookieStillSucceeds(t *testing.T) {
	f := newAuthHandlersFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.core.logoutDone)
}

func TestSessionStatus(t *testing.T) {
	f := newAuthHandlersFixture(t)

	// Anonymous.
	rec := httptest.NewRecorder()
	f.handlers.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Authenticated.
	sess, err := f.handlers.Sessions.Create(context.Background(), testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec = httptest.NewRecorder()
	f.handlers.Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), `"user-1"`)

	// A stale cookie reads as anonymous and is cleared.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "gone"})
	rec = httptest.NewRecorder()
	f.handlers.Session(rec, req)

	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	cleared := findCookie(t, rec, SessionCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestSSOLoginDisabled(t *testing.T) {
	f := newAuthHandlersFixture(t)
	f.handlers.SSO = nil

	rec := httptest.NewRecorder()
	f.handlers.SSOLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/sso/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	f.handlers.SSOCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/sso/callback", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSSOLoginRedirectsToProvider(t *testing.T) {
	f := newAuthHandlersFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/login?redirect_uri=/members", nil)
	rec := httptest.NewRecorder()
	f.handlers.SSOLogin(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mock-idp/auth", rec.Header().Get("Location"))

	state := findCookie(t, rec, "sso_state")
	require.NotNil(t, state)
	assert.Equal(t, "state-1", state.Value)
	nonce := findCookie(t, rec, "sso_nonce")
	require.NotNil(t, nonce)
	assert.Equal(t, "nonce-1", nonce.Value)
	redirect := findCookie(t, rec, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/members", redirect.Value)
}

func TestSSOCallbackHappyPath(t *testing.T) {
	f := newAuthHandlersFixture(t)
	staff := testUser()
	staff.Role = domainauth.RoleInstructor
	f.core.user = &staff
	f.profiles.Add(staff)
	f.profiles.Link("mock-subject-1", staff.ID)

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/callback?code=abc&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "sso_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "sso_nonce", Value: "nonce-1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/members"})
	rec := httptest.NewRecorder()
	f.handlers.SSOCallback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/members", rec.Header().Get("Location"))
	assert.NotNil(t, findCookie(t, rec, SessionCookieName))
	assert.Equal(t, 1, f.store.Len())
}

func TestSSOCallbackRejectsStateMismatch(t *testing.T) {
	f := newAuthHandlersFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: "sso_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "sso_nonce", Value: "nonce-1"})
	rec := httptest.NewRecorder()
	f.handlers.SSOCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestSSOCallbackUnlinkedSubject(t *testing.T) {
	f := newAuthHandlersFixture(t)
	// No profile linked to the subject.

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/callback?code=abc&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "sso_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "sso_nonce", Value: "nonce-1"})
	rec := httptest.NewRecorder()
	f.handlers.SSOCallback(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile_not_found")
	assert.Nil(t, findCookie(t, rec, SessionCookieName))
}

func TestSSOCallbackMissingParams(t *testing.T) {
	f := newAuthHandlersFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.SSOCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/sso/callback", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_params")
}

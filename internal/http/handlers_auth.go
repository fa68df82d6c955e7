package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/ports"
	"github.com/fitnova/fitnova-ui-api/internal/service"
)

// SessionCore is the authentication lifecycle surface the handlers consume.
type SessionCore interface {
	Login(ctx context.Context, email, password string) (*domainauth.User, error)
	LoginWithIdentity(ctx context.Context, identity domainauth.Identity) (*domainauth.User, error)
	Logout(ctx context.Context)
}

// WebSessions issues and destroys the cookie-backed server sessions.
type WebSessions interface {
	Create(ctx context.Context, user domainauth.User) (domainauth.Session, error)
	Get(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Destroy(ctx context.Context, sessionID string) error
}

// Registrar creates new member accounts.
type Registrar interface {
	Register(ctx context.Context, in service.RegisterInput) (domainauth.User, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Core         SessionCore
	Sessions     WebSessions
	Registration Registrar
	SSO          ports.SSOProvider    // nil when SSO is disabled
	Profiles     ports.ProfileStore   // resolves SSO subjects
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type userPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func toUserPayload(u domainauth.User) userPayload {
	return userPayload{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
	}
}

// Login handles credential sign-in.
// POST /api/auth/login {"email": ..., "password": ...}.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}

	user, err := h.Core.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	session, err := h.Sessions.Create(r.Context(), *user)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_failed", Err: err})
		return
	}

	h.setSessionCookie(w, r, session)
	WriteJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(*user)})
}

// writeLoginError maps the sign-in error taxonomy onto HTTP. Rejected
// credentials and a missing profile are terminal for this attempt; an
// infrastructure failure is explicitly retryable and never reads as
// "wrong password".
func (h *AuthHandlers) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domainauth.ErrBadCredentials):
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_credentials",
			Err:     errors.New("invalid email or password"),
		})
	case errors.Is(err, domainauth.ErrProfileNotFound):
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "profile_not_found",
			Err:     errors.New("no club profile exists for this account"),
		})
	default:
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		w.Header().Set("Retry-After", "5")
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "temporarily_unavailable",
			Err:     errors.New("sign-in is temporarily unavailable, try again"),
		})
	}
}

// Register handles member sign-up and signs the new member in.
// POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}

	user, err := h.Registration.Register(r.Context(), service.RegisterInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Phone:     in.Phone,
		Address:   in.Address,
	})
	if err != nil {
		h.writeRegisterError(w, r, err)
		return
	}

	session, err := h.Sessions.Create(r.Context(), user)
	if err != nil {
		// The account exists; the member can still sign in normally.
		h.logger().ErrorContext(r.Context(), "post-register session failed", "error", err)
		WriteJSON(w, http.StatusCreated, map[string]any{"user": toUserPayload(user)})
		return
	}

	h.setSessionCookie(w, r, session)
	WriteJSON(w, http.StatusCreated, map[string]any{"user": toUserPayload(user)})
}

func (h *AuthHandlers) writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrEmailExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_exists", Err: err})
	case errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrEmailInvalid),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrNameRequired):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_input", Err: err})
	default:
		h.logger().ErrorContext(r.Context(), "registration failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "registration_failed",
			Err:     errors.New("registration failed"),
		})
	}
}

// Logout signs the caller out. The web session and cookie are cleared even
// when the provider-side sign-out fails; a user who asked to leave leaves.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if destroyErr := h.Sessions.Destroy(r.Context(), cookie.Value); destroyErr != nil {
			h.logger().WarnContext(r.Context(), "web session destroy failed", "error", destroyErr)
		}
	}
	h.Core.Logout(r.Context())
	h.clearCookie(w, r, SessionCookieName)

	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Session returns the current authentication status.
// GET /api/auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		// Invalid or expired; clear the stale cookie.
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          toUserPayload(session.User()),
		"expires_at":    session.ExpiresAt,
	})
}

// SSOLogin starts the staff single sign-on flow.
// GET /auth/sso/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	if h.SSO == nil {
		http.NotFound(w, r)
		return
	}

	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	authURL, state, nonce, err := h.SSO.Begin(r.Context(), ports.BeginInput{})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sso begin failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "sso_failed", Err: errors.New("single sign-on is unavailable")})
		return
	}

	h.setSSOCookies(w, r, ssoCookieParams{State: state, Nonce: nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// SSOCallback completes the staff single sign-on flow.
// GET /auth/sso/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if h.SSO == nil {
		http.NotFound(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_params", Err: errors.New("code and state are required")})
		return
	}

	stateCookie, err := r.Cookie("sso_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_state", Err: errors.New("invalid or missing state parameter")})
		return
	}
	nonceCookie, err := r.Cookie("sso_nonce")
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_nonce", Err: errors.New("missing nonce")})
		return
	}

	ssoIdentity, err := h.SSO.Exchange(r.Context(), ports.ExchangeInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sso exchange failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "sso_failed", Err: errors.New("single sign-on failed")})
		return
	}

	// The token only proves who the subject is; the profile row decides
	// whether they exist in this club and with which role.
	profile, err := h.Profiles.FetchUserBySubject(r.Context(), ssoIdentity.Subject)
	if err != nil {
		if errors.Is(err, domainauth.ErrProfileNotFound) {
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "profile_not_found",
				Err:     errors.New("no club profile is linked to this account"),
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "sso profile lookup failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "temporarily_unavailable", Err: errors.New("sign-in is temporarily unavailable")})
		return
	}

	user, err := h.Core.LoginWithIdentity(r.Context(), domainauth.Identity{
		Key:       profile.ID,
		Email:     ssoIdentity.Email,
		ExpiresAt: ssoIdentity.ExpiresAt,
	})
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	session, err := h.Sessions.Create(r.Context(), *user)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_failed", Err: err})
		return
	}

	h.setSessionCookie(w, r, session)
	h.clearCookie(w, r, "sso_state")
	h.clearCookie(w, r, "sso_nonce")

	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusFound)
}

// ssoCookieParams groups the values stashed in cookies across the SSO redirect.
type ssoCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

func (h *AuthHandlers) setSSOCookies(w http.ResponseWriter, r *http.Request, p ssoCookieParams) {
	isSecure := requestIsSecure(r)
	const ssoCookieTTL = 600 // 10 minutes

	for name, value := range map[string]string{
		"sso_state":           p.State,
		"sso_nonce":           p.Nonce,
		"post_login_redirect": p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   ssoCookieTTL,
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies so browsers actually delete it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// postLoginRedirect returns the stashed post-login destination and clears it.
func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if cookie, err := r.Cookie("post_login_redirect"); err == nil {
		if unescaped, unescapeErr := url.QueryUnescape(cookie.Value); unescapeErr == nil {
			redirectURI = safeRedirectPath(unescaped)
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/guard"
)

// SessionResolver validates a session cookie value into a session record.
type SessionResolver interface {
	Get(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// SessionCookieName is the browser cookie carrying the web session ID.
const SessionCookieName = "session_id"

// sessionFromRequest retrieves and validates a session from the request.
// Anonymous, expired, and unreadable sessions all come back nil.
func sessionFromRequest(r *http.Request, sessions SessionResolver) *domainauth.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	session, err := sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// snapshotForRequest builds the guard's view of a request. Server-side a
// request is never mid-resolution: the session either validated or it did
// not, so Loading is always false here.
func snapshotForRequest(session *domainauth.Session) domainauth.Snapshot {
	if session == nil {
		return domainauth.Snapshot{}
	}
	user := session.User()
	return domainauth.Snapshot{CurrentUser: &user}
}

// Authenticate resolves the session cookie into request context without
// gating anything. Handlers that serve both anonymous and signed-in
// visitors sit behind this.
func Authenticate(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := sessionFromRequest(r, sessions); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAccess gates a handler behind the guard decision for the given
// requirement. API requests (/api/*) get JSON 401/403; browser requests get
// redirected to the login page with the destination preserved, or to the
// unauthorized page on a role mismatch.
func RequireAccess(sessions SessionResolver, req guard.AccessRequest) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, sessions)
			outcome := guard.Decide(snapshotForRequest(session), req, r.URL.RequestURI())

			switch outcome.Kind {
			case guard.Render:
				ctx := SetSessionInContext(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
			case guard.RedirectToLogin:
				if isAPIRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: "authentication_required",
						Err:     errors.New("authentication required"),
					})
					return
				}
				redirectToLogin(w, r, outcome.ReturnPath)
			case guard.RedirectToUnauthorized:
				if isAPIRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusForbidden,
						ErrCode: "insufficient_permissions",
						Err:     errors.New("insufficient permissions"),
					})
					return
				}
				http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
			case guard.Pending:
				// Server-side snapshots are never loading; treat as transient.
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			}
		})
	}
}

// RequireAuth gates a handler behind any authenticated user.
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return RequireAccess(sessions, guard.AccessRequest{})
}

// RequireRoles gates a handler behind the given role set.
func RequireRoles(sessions SessionResolver, roles ...domainauth.Role) func(http.Handler) http.Handler {
	return RequireAccess(sessions, guard.AccessRequest{RequiredRoles: roles})
}

// isAPIRequest reports whether the request wants a JSON error instead of a
// browser redirect.
func isAPIRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return accept != "" && !strings.Contains(accept, "text/html")
}

// redirectToLogin sends the browser to the login page, preserving the
// originally requested destination for post-login resume.
func redirectToLogin(w http.ResponseWriter, r *http.Request, returnPath string) {
	returnPath = safeRedirectPath(returnPath)
	loginURL := "/login?redirect_uri=" + url.QueryEscape(returnPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}

package guard

// Package guard holds the routing decision function that gates every
// protected destination. It is pure: no side effects, no clock, no I/O, and
// calling it twice with the same inputs yields the same outcome.

import (
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// OutcomeKind enumerates the possible guarding decisions.
type OutcomeKind int

const (
	// Pending means the session is still resolving; the caller must render a
	// neutral state and must not redirect yet. Redirecting on a loading
	// snapshot causes a flash-redirect to login on every page refresh.
	Pending OutcomeKind = iota
	// Render means the destination may be shown.
	Render
	// RedirectToLogin means the visitor must sign in first; ReturnPath
	// preserves the originally requested destination for post-login resume.
	RedirectToLogin
	// RedirectToUnauthorized means the user is signed in but lacks the role.
	RedirectToUnauthorized
)

// String returns the kind name for logs and test output.
func (k OutcomeKind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Render:
		return "render"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToUnauthorized:
		return "redirect_to_unauthorized"
	default:
		return "unknown"
	}
}

// Outcome is the guarding decision. ReturnPath is set only for
// RedirectToLogin.
type Outcome struct {
	Kind       OutcomeKind
	ReturnPath string
}

// AccessRequest carries a destination's role requirement metadata.
// A nil or empty RequiredRoles set means any authenticated user may enter.
type AccessRequest struct {
	RequiredRoles []domainauth.Role
}

// Decide gates a navigation to currentPath under the given session snapshot.
//
// Order matters: a loading snapshot is always Pending, an anonymous snapshot
// always redirects to login with the return path preserved, and only then is
// the role set consulted. The function never fails; any snapshot it cannot
// prove authenticated falls through to RedirectToLogin.
func Decide(snap domainauth.Snapshot, req AccessRequest, currentPath string) Outcome {
	if snap.Loading {
		return Outcome{Kind: Pending}
	}

	user := snap.CurrentUser
	if user == nil {
		return Outcome{Kind: RedirectToLogin, ReturnPath: currentPath}
	}

	if len(req.RequiredRoles) > 0 && !user.Role.In(req.RequiredRoles) {
		return Outcome{Kind: RedirectToUnauthorized}
	}

	return Outcome{Kind: Render}
}

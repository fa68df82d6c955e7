package auth

// Package auth contains domain-level types for identity, sessions, and the
// observable session state machine. It is pure and free of framework/adapter
// concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleMember     Role = "member"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the known application roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// In reports whether the role is contained in the given set.
// An empty set never matches.
func (r Role) In(set []Role) bool {
	for _, candidate := range set {
		if r == candidate {
			return true
		}
	}
	return false
}

// Identity represents the authenticated principal returned by the identity
// provider. Key is the provider's stable identifier; its internal structure
// is never inspected here, only used to resolve the domain user.
type Identity struct {
	Key       string
	Email     string
	ExpiresAt time.Time // absolute expiry granted by the provider
}

// User is this system's own profile record associated with an Identity.
// The Key of the Identity that owns the account equals User.ID.
// Role is the discriminant; role-specific data hangs off the aggregates in
// internal/domain/model and is never reached by unchecked casting.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Role      Role   `json:"role"`
}

// FullName returns the display name for headers and member listings.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Session is the server-side record persisted for an authenticated browser.
// ID is an opaque session identifier (random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its absolute expiry.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// User reconstructs the profile snapshot carried by the session.
func (s Session) User() User {
	return User{
		ID:        s.UserID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Role:      s.Role,
	}
}

// NewSession builds a session record for a resolved user.
func NewSession(id string, u User, expiresAt time.Time) Session {
	return Session{
		ID:        id,
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: expiresAt,
	}
}

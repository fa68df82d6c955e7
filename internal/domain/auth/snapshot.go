package auth

// Phase is the single state a snapshot occupies. Exactly one phase holds at
// any time; readers never observe a half-updated combination.
type Phase string

const (
	// PhaseLoading covers the initial resolution window and in-flight logins.
	PhaseLoading Phase = "loading"
	// PhaseAuthenticated means a domain user is resolved.
	PhaseAuthenticated Phase = "authenticated"
	// PhaseAnonymous means resolution finished without a user.
	PhaseAnonymous Phase = "anonymous"
	// PhaseErrored means the last boundary call failed.
	PhaseErrored Phase = "errored"
)

// Snapshot is an immutable view of session state handed to observers and to
// the access guard. The zero value is an anonymous, settled snapshot.
type Snapshot struct {
	CurrentUser *User
	Loading     bool
	LastError   ErrorKind
}

// IsAuthenticated reports whether a resolved domain user is present.
func (s Snapshot) IsAuthenticated() bool { return s.CurrentUser != nil }

// Phase derives the exclusive state this snapshot occupies.
func (s Snapshot) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.LastError != ErrorKindNone:
		return PhaseErrored
	case s.CurrentUser != nil:
		return PhaseAuthenticated
	default:
		return PhaseAnonymous
	}
}

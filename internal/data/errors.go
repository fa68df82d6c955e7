package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrUserNotFound is returned when no user row matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when a create/update collides with an
	// existing email address.
	ErrEmailExists = errors.New("email already registered")

	// ErrCredentialNotFound is returned when no credential row matches.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrMembershipNotFound is returned when a user has no membership row.
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrSessionNotFound is returned when no workout session matches.
	ErrSessionNotFound = errors.New("workout session not found")
	// ErrSessionFull is returned when a reservation would exceed capacity.
	ErrSessionFull = errors.New("workout session is full")
	// ErrAlreadyReserved is returned when the member already holds an active
	// reservation for the session.
	ErrAlreadyReserved = errors.New("reservation already exists for this session")
	// ErrReservationNotFound is returned when no reservation row matches.
	ErrReservationNotFound = errors.New("reservation not found")
)

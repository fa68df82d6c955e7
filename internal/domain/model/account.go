package model

import (
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// Account is the role-discriminated view of a user together with the data
// that only exists for that role. Dashboards switch on the concrete variant
// instead of casting a shared shape, so a member can never be read as an
// instructor by accident.
type Account interface {
	// User returns the role-independent profile fields.
	User() domainauth.User
	isAccount()
}

// MemberAccount carries a member profile plus membership and bookings.
type MemberAccount struct {
	Profile      domainauth.User
	Membership   *Membership
	Reservations []Reservation
}

func (a MemberAccount) User() domainauth.User { return a.Profile }
func (MemberAccount) isAccount()              {}

// InstructorAccount carries an instructor profile plus the classes they teach.
type InstructorAccount struct {
	Profile     domainauth.User
	Specialties []string
	Classes     []Workout
}

func (a InstructorAccount) User() domainauth.User { return a.Profile }
func (InstructorAccount) isAccount()              {}

// AdminAccount has no role-specific payload beyond the profile.
type AdminAccount struct {
	Profile domainauth.User
}

func (a AdminAccount) User() domainauth.User { return a.Profile }
func (AdminAccount) isAccount()              {}

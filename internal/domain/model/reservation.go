package model

import "time"

// ReservationStatus tracks the lifecycle of a class booking.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPending   ReservationStatus = "pending"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is a member's booking of a workout session.
type Reservation struct {
	ID               string            `db:"id"                 json:"id"`
	MemberID         string            `db:"member_id"          json:"member_id"`
	WorkoutSessionID string            `db:"workout_session_id" json:"workout_session_id"`
	Status           ReservationStatus `db:"status"             json:"status"`
	CreatedAt        time.Time         `db:"created_at"         json:"created_at"`
}

// Cancellable reports whether the reservation may still be cancelled.
func (r Reservation) Cancellable() bool {
	return r.Status == ReservationConfirmed || r.Status == ReservationPending
}

package model

// Package model contains the club's domain entities: memberships, workouts,
// scheduled class sessions, and reservations.

import (
	"errors"
	"fmt"
	"time"
)

// PlanType enumerates the membership plans a member can hold.
type PlanType string

const (
	PlanNone      PlanType = "none"
	PlanMonthly   PlanType = "monthly"
	PlanQuarterly PlanType = "quarterly"
	PlanAnnual    PlanType = "annual"
)

// Valid reports whether the plan type is known.
func (p PlanType) Valid() bool {
	switch p {
	case PlanNone, PlanMonthly, PlanQuarterly, PlanAnnual:
		return true
	default:
		return false
	}
}

// Duration returns the period a paid plan covers. PlanNone covers nothing.
func (p PlanType) Duration() time.Duration {
	const day = 24 * time.Hour
	switch p {
	case PlanMonthly:
		return 30 * day
	case PlanQuarterly:
		return 90 * day
	case PlanAnnual:
		return 365 * day
	default:
		return 0
	}
}

// PaymentStatus tracks whether a membership period is paid up.
// Payment collection itself is out of scope; only the status is recorded.
type PaymentStatus string

const (
	PaymentActive  PaymentStatus = "active"
	PaymentPending PaymentStatus = "pending"
	PaymentExpired PaymentStatus = "expired"
)

// Membership is a member's current plan and coverage window.
type Membership struct {
	ID            string        `db:"id"            json:"id"`
	UserID        string        `db:"user_id"       json:"user_id"`
	Type          PlanType      `db:"type"          json:"type"`
	StartDate     time.Time     `db:"start_date"    json:"start_date"`
	EndDate       time.Time     `db:"end_date"      json:"end_date"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"    json:"created_at"`
	UpdatedAt     *time.Time    `db:"updated_at"    json:"updated_at,omitempty"`
}

// Active reports whether the membership currently covers now.
func (m Membership) Active(now time.Time) bool {
	return m.Type != PlanNone &&
		m.PaymentStatus == PaymentActive &&
		!now.Before(m.StartDate) && now.Before(m.EndDate)
}

// ErrUnknownPlan is returned when a plan change names a plan that does not exist.
var ErrUnknownPlan = errors.New("unknown membership plan")

// RenewFrom returns the coverage window for switching to plan at the given time.
func RenewFrom(plan PlanType, now time.Time) (start, end time.Time, err error) {
	if !plan.Valid() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	start = now.UTC()
	end = start.Add(plan.Duration())
	return start, end, nil
}

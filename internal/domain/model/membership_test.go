package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTypeValid(t *testing.T) {
	for _, plan := range []PlanType{PlanNone, PlanMonthly, PlanQuarterly, PlanAnnual} {
		assert.True(t, plan.Valid(), "%s should be valid", plan)
	}
	assert.False(t, PlanType("platinum").Valid())
	assert.False(t, PlanType("").Valid())
}

func TestPlanTypeDuration(t *testing.T) {
	const day = 24 * time.Hour
	assert.Equal(t, 30*day, PlanMonthly.Duration())
	assert.Equal(t, 90*day, PlanQuarterly.Duration())
	assert.Equal(t, 365*day, PlanAnnual.Duration())
	assert.Zero(t, PlanNone.Duration())
}

func TestRenewFrom(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	start, end, err := RenewFrom(PlanQuarterly, now)
	require.NoError(t, err)
	assert.Equal(t, now, start)
	assert.Equal(t, now.Add(PlanQuarterly.Duration()), end)

	_, _, err = RenewFrom(PlanType("platinum"), now)
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestMembershipActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := Membership{
		Type:          PlanMonthly,
		StartDate:     now.Add(-24 * time.Hour),
		EndDate:       now.Add(24 * time.Hour),
		PaymentStatus: PaymentActive,
	}

	tests := []struct {
		name   string
		mutate func(*Membership)
		want   bool
	}{
		{name: "covering window and paid", mutate: func(*Membership) {}, want: true},
		{name: "no plan", mutate: func(m *Membership) { m.Type = PlanNone }, want: false},
		{name: "payment pending", mutate: func(m *Membership) { m.PaymentStatus = PaymentPending }, want: false},
		{name: "payment expired", mutate: func(m *Membership) { m.PaymentStatus = PaymentExpired }, want: false},
		{name: "not started yet", mutate: func(m *Membership) { m.StartDate = now.Add(time.Hour) }, want: false},
		{name: "already ended", mutate: func(m *Membership) { m.EndDate = now.Add(-time.Hour) }, want: false},
		{name: "ends exactly now", mutate: func(m *Membership) { m.EndDate = now }, want: false},
		{name: "starts exactly now", mutate: func(m *Membership) { m.StartDate = now }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			assert.Equal(t, tt.want, m.Active(now))
		})
	}
}

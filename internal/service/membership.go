package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// ErrNotMember is returned when a non-member tries to manage a membership.
var ErrNotMember = errors.New("only members hold memberships")

// Plan is a purchasable membership tier shown on the plans page.
type Plan struct {
	Type         model.PlanType `json:"type"`
	Name         string         `json:"name"`
	PriceCents   int            `json:"price_cents"`
	PeriodMonths int            `json:"period_months"`
	Perks        []string       `json:"perks"`
}

// catalog is the fixed plan lineup. Prices are display data, not billing.
var catalog = []Plan{
	{
		Type: model.PlanMonthly, Name: "Monthly", PriceCents: 4900, PeriodMonths: 1,
		Perks: []string{"Unlimited classes", "Gym floor access", "Cancel anytime"},
	},
	{
		Type: model.PlanQuarterly, Name: "Quarterly", PriceCents: 12900, PeriodMonths: 3,
		Perks: []string{"Unlimited classes", "Gym floor access", "One guest pass per month"},
	},
	{
		Type: model.PlanAnnual, Name: "Annual", PriceCents: 44900, PeriodMonths: 12,
		Perks: []string{"Unlimited classes", "Gym floor access", "Two guest passes per month", "Free locker"},
	},
}

// MembershipStore is the slice of data.MembershipRepo the service needs.
type MembershipStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Membership, error)
	UpdatePlan(ctx context.Context, userID string, plan model.PlanType) (*model.Membership, error)
}

// MembershipService reads and changes a member's plan.
type MembershipService struct {
	memberships MembershipStore
	logger      *slog.Logger
}

// NewMembershipService builds the service.
func NewMembershipService(memberships MembershipStore, logger *slog.Logger) (*MembershipService, error) {
	if memberships == nil {
		return nil, errors.New("membership store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MembershipService{memberships: memberships, logger: logger}, nil
}

// Plans returns the purchasable plan catalog.
func (s *MembershipService) Plans() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// Current returns the caller's membership.
func (s *MembershipService) Current(ctx context.Context, user domainauth.User) (*model.Membership, error) {
	if user.Role != domainauth.RoleMember {
		return nil, ErrNotMember
	}
	return s.memberships.GetByUserID(ctx, user.ID)
}

// ChoosePlan switches the caller's membership to the given plan. Only the
// member themselves can change their plan through this path.
func (s *MembershipService) ChoosePlan(ctx context.Context, user domainauth.User, plan model.PlanType) (*model.Membership, error) {
	if user.Role != domainauth.RoleMember {
		return nil, ErrNotMember
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownPlan, plan)
	}

	m, err := s.memberships.UpdatePlan(ctx, user.ID, plan)
	if err != nil {
		if errors.Is(err, data.ErrMembershipNotFound) {
			return nil, data.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("choose plan: %w", err)
	}

	s.logger.Info("membership plan changed", "user_id", user.ID, "plan", plan)
	return m, nil
}

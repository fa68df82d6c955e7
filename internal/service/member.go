package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// ProfileRepo is the slice of data.UserRepo the member service needs.
type ProfileRepo interface {
	UpdateProfile(ctx context.Context, userID string, in data.UpdateProfileInput) (domainauth.User, error)
	ListByRoles(ctx context.Context, roles []domainauth.Role, limit, offset int) ([]domainauth.User, error)
}

// MemberService assembles role-shaped account views and manages profile data
// shared by every role.
type MemberService struct {
	users        ProfileRepo
	memberships  MembershipStore
	reservations ReservationStore
	workouts     WorkoutStore
	logger       *slog.Logger
}

// MemberConfig holds dependencies for NewMemberService.
type MemberConfig struct {
	Users        ProfileRepo
	Memberships  MembershipStore
	Reservations ReservationStore
	Workouts     WorkoutStore
	Logger       *slog.Logger
}

// NewMemberService validates dependencies and builds the service.
func NewMemberService(cfg MemberConfig) (*MemberService, error) {
	if cfg.Users == nil {
		return nil, errors.New("user repo is required")
	}
	if cfg.Memberships == nil || cfg.Reservations == nil || cfg.Workouts == nil {
		return nil, errors.New("membership, reservation, and workout stores are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MemberService{
		users:        cfg.Users,
		memberships:  cfg.Memberships,
		reservations: cfg.Reservations,
		workouts:     cfg.Workouts,
		logger:       logger,
	}, nil
}

// Account builds the role-shaped view for the given user. Each role variant
// carries only the data that exists for that role.
func (s *MemberService) Account(ctx context.Context, user domainauth.User) (model.Account, error) {
	switch user.Role {
	case domainauth.RoleMember:
		return s.memberAccount(ctx, user)
	case domainauth.RoleInstructor:
		classes, err := s.workouts.ListByInstructor(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("load instructor classes: %w", err)
		}
		return model.InstructorAccount{Profile: user, Classes: classes}, nil
	case domainauth.RoleAdmin:
		return model.AdminAccount{Profile: user}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", user.Role)
	}
}

func (s *MemberService) memberAccount(ctx context.Context, user domainauth.User) (model.Account, error) {
	acct := model.MemberAccount{Profile: user}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.memberships.GetByUserID(gctx, user.ID)
		if err != nil {
			// A missing membership row is a seed-data gap, not a dead account.
			if errors.Is(err, data.ErrMembershipNotFound) {
				return nil
			}
			return fmt.Errorf("load membership: %w", err)
		}
		acct.Membership = m
		return nil
	})
	g.Go(func() error {
		res, err := s.reservations.ListByMember(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("load reservations: %w", err)
		}
		acct.Reservations = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return acct, nil
}

// UpdateProfile updates the caller's editable profile fields and returns the
// fresh row.
func (s *MemberService) UpdateProfile(ctx context.Context, userID string, in data.UpdateProfileInput) (domainauth.User, error) {
	if userID == "" {
		return domainauth.User{}, errors.New("user ID is required")
	}
	u, err := s.users.UpdateProfile(ctx, userID, in)
	if err != nil {
		return domainauth.User{}, err
	}
	s.logger.Info("profile updated", "user_id", userID)
	return u, nil
}

// ListMembers returns users filtered by role for the staff roster pages. An
// empty role set lists everyone.
func (s *MemberService) ListMembers(ctx context.Context, roles []domainauth.Role, limit, offset int) ([]domainauth.User, error) {
	for _, role := range roles {
		if !role.Valid() {
			return nil, fmt.Errorf("unknown role %q", role)
		}
	}
	return s.users.ListByRoles(ctx, roles, limit, offset)
}

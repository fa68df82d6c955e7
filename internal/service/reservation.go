package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// ErrNotBookable is returned when a non-member tries to book a class.
var ErrNotBookable = errors.New("only members can book classes")

// ReservationStore is the slice of data.ReservationRepo the service needs.
type ReservationStore interface {
	Create(ctx context.Context, memberID, sessionID string) (*model.Reservation, error)
	ListByMember(ctx context.Context, memberID string) ([]model.Reservation, error)
	Cancel(ctx context.Context, memberID, reservationID string) error
}

// ReservationService books and cancels class spots for members. Capacity
// enforcement lives in the store; the service adds role and input checks.
type ReservationService struct {
	reservations ReservationStore
	logger       *slog.Logger
}

// NewReservationService builds the service.
func NewReservationService(reservations ReservationStore, logger *slog.Logger) (*ReservationService, error) {
	if reservations == nil {
		return nil, errors.New("reservation store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationService{reservations: reservations, logger: logger}, nil
}

// Book reserves a spot in a workout session for the calling member.
func (s *ReservationService) Book(ctx context.Context, user domainauth.User, sessionID string) (*model.Reservation, error) {
	if user.Role != domainauth.RoleMember {
		return nil, ErrNotBookable
	}
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	res, err := s.reservations.Create(ctx, user.ID, sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("class booked", "user_id", user.ID, "session_id", sessionID)
	return res, nil
}

// List returns the calling member's bookings, newest first.
func (s *ReservationService) List(ctx context.Context, user domainauth.User) ([]model.Reservation, error) {
	if user.Role != domainauth.RoleMember {
		return nil, ErrNotBookable
	}
	out, err := s.reservations.ListByMember(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// Cancel releases the member's booking. The store scopes the update to the
// calling member, so a foreign reservation ID reads as not found.
func (s *ReservationService) Cancel(ctx context.Context, user domainauth.User, reservationID string) error {
	if user.Role != domainauth.RoleMember {
		return ErrNotBookable
	}
	if reservationID == "" {
		return errors.New("reservation ID is required")
	}

	if err := s.reservations.Cancel(ctx, user.ID, reservationID); err != nil {
		return err
	}
	s.logger.Info("booking cancelled", "user_id", user.ID, "reservation_id", reservationID)
	return nil
}

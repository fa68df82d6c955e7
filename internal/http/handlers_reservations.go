package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
	"github.com/fitnova/fitnova-ui-api/internal/service"
)

// ReservationBooker is the reservation service surface the handlers consume.
type ReservationBooker interface {
	Book(ctx context.Context, user domainauth.User, sessionID string) (*model.Reservation, error)
	List(ctx context.Context, user domainauth.User) ([]model.Reservation, error)
	Cancel(ctx context.Context, user domainauth.User, reservationID string) error
}

// ReservationHandlers serves class booking for members.
type ReservationHandlers struct {
	Svc    ReservationBooker
	Logger *slog.Logger
}

func (h *ReservationHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Book reserves a spot in a session for the calling member.
// POST /api/reservations {"session_id": ...}.
func (h *ReservationHandlers) Book(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	var in struct {
		SessionID string `json:"session_id"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}

	res, err := h.Svc.Book(r.Context(), user, in.SessionID)
	if err != nil {
		h.writeReservationError(w, r, err, user.ID)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"reservation": res})
}

// List returns the calling member's bookings.
// GET /api/reservations.
func (h *ReservationHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	reservations, err := h.Svc.List(r.Context(), user)
	if err != nil {
		h.writeReservationError(w, r, err, user.ID)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

// Cancel releases the member's booking.
// DELETE /api/reservations/{id}.
func (h *ReservationHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	if err := h.Svc.Cancel(r.Context(), user, r.PathValue("id")); err != nil {
		h.writeReservationError(w, r, err, user.ID)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *ReservationHandlers) writeReservationError(w http.ResponseWriter, r *http.Request, err error, userID string) {
	switch {
	case errors.Is(err, service.ErrNotBookable):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "members_only", Err: err})
	case errors.Is(err, data.ErrSessionNotFound), errors.Is(err, data.ErrReservationNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case errors.Is(err, data.ErrSessionFull):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "session_full", Err: err})
	case errors.Is(err, data.ErrAlreadyReserved):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "already_reserved", Err: err})
	default:
		h.logger().ErrorContext(r.Context(), "reservation operation failed", "error", err, "user_id", userID)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "reservation_failed", Err: errors.New("reservation operation failed")})
	}
}

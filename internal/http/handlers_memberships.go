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

// MembershipManager is the membership service surface the handlers consume.
type MembershipManager interface {
	Plans() []service.Plan
	Current(ctx context.Context, user domainauth.User) (*model.Membership, error)
	ChoosePlan(ctx context.Context, user domainauth.User, plan model.PlanType) (*model.Membership, error)
}

// MembershipHandlers serves the plan catalog and the caller's membership.
type MembershipHandlers struct {
	Svc    MembershipManager
	Logger *slog.Logger
}

func (h *MembershipHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Plans returns the purchasable plan catalog. Public.
// GET /api/memberships/plans.
func (h *MembershipHandlers) Plans(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"plans": h.Svc.Plans()})
}

// Current returns the caller's membership.
// GET /api/membership.
func (h *MembershipHandlers) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	m, err := h.Svc.Current(r.Context(), user)
	if err != nil {
		h.writeMembershipError(w, r, err, user.ID)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"membership": m})
}

// ChoosePlan switches the caller's plan, recomputing the coverage window.
// PUT /api/membership {"plan": "monthly"|"quarterly"|"annual"}.
func (h *MembershipHandlers) ChoosePlan(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	var in struct {
		Plan string `json:"plan"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}

	m, err := h.Svc.ChoosePlan(r.Context(), user, model.PlanType(in.Plan))
	if err != nil {
		if errors.Is(err, model.ErrUnknownPlan) {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_plan", Err: err})
			return
		}
		h.writeMembershipError(w, r, err, user.ID)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"membership": m})
}

func (h *MembershipHandlers) writeMembershipError(w http.ResponseWriter, r *http.Request, err error, userID string) {
	switch {
	case errors.Is(err, service.ErrNotMember):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "members_only", Err: err})
	case errors.Is(err, data.ErrMembershipNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	default:
		h.logger().ErrorContext(r.Context(), "membership operation failed", "error", err, "user_id", userID)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "membership_failed", Err: errors.New("membership operation failed")})
	}
}

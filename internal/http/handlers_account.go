package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// AccountService assembles role-shaped dashboards and edits profiles.
type AccountService interface {
	Account(ctx context.Context, user domainauth.User) (model.Account, error)
	UpdateProfile(ctx context.Context, userID string, in data.UpdateProfileInput) (domainauth.User, error)
	ListMembers(ctx context.Context, roles []domainauth.Role, limit, offset int) ([]domainauth.User, error)
}

// ProfileReader fetches the full profile row for the signed-in user.
type ProfileReader interface {
	FetchUserByKey(ctx context.Context, identityKey string) (domainauth.User, error)
}

// AccountHandlers serves the dashboard aggregate and profile endpoints.
type AccountHandlers struct {
	Svc      AccountService
	Profiles ProfileReader
	Logger   *slog.Logger
}

func (h *AccountHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Account returns the role-shaped dashboard payload for the caller. The
// response carries a discriminant plus only the fields that exist for that
// role; a member response never has instructor fields and vice versa.
// GET /api/account.
func (h *AccountHandlers) Account(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	acct, err := h.Svc.Account(r.Context(), user)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "account load failed", "error", err, "user_id", user.ID)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "account_failed", Err: errors.New("could not load account")})
		return
	}

	WriteJSON(w, http.StatusOK, accountPayload(acct))
}

func accountPayload(acct model.Account) map[string]any {
	out := map[string]any{"user": toUserPayload(acct.User())}
	switch a := acct.(type) {
	case model.MemberAccount:
		out["role"] = domainauth.RoleMember
		out["membership"] = a.Membership
		out["reservations"] = a.Reservations
	case model.InstructorAccount:
		out["role"] = domainauth.RoleInstructor
		out["classes"] = a.Classes
		out["specialties"] = a.Specialties
	case model.AdminAccount:
		out["role"] = domainauth.RoleAdmin
	}
	return out
}

// Profile returns the caller's full profile row.
// GET /api/profile.
func (h *AccountHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	profile, err := h.Profiles.FetchUserByKey(r.Context(), user.ID)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "profile load failed", "error", err, "user_id", user.ID)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "profile_failed", Err: errors.New("could not load profile")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"profile": profilePayload(profile)})
}

type profileBody struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Role      string `json:"role"`
}

func profilePayload(u domainauth.User) profileBody {
	return profileBody{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      string(u.Role),
	}
}

// UpdateProfile changes the caller's editable fields. Email and role are not
// editable over this endpoint.
// PUT /api/profile.
func (h *AccountHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: errors.New("authentication required")})
		return
	}

	var in struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	if in.FirstName == "" || in.LastName == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_input", Err: errors.New("first and last name are required")})
		return
	}

	updated, err := h.Svc.UpdateProfile(r.Context(), user.ID, data.UpdateProfileInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Address:   in.Address,
	})
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		h.logger().ErrorContext(r.Context(), "profile update failed", "error", err, "user_id", user.ID)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "profile_failed", Err: errors.New("could not update profile")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"profile": profilePayload(updated)})
}

// Members lists users by role for the staff roster pages.
// GET /api/members?role=member&role=instructor&limit=50&offset=0.
func (h *AccountHandlers) Members(w http.ResponseWriter, r *http.Request) {
	var roles []domainauth.Role
	for _, raw := range r.URL.Query()["role"] {
		role := domainauth.Role(raw)
		if !role.Valid() {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_role", Err: errors.New("unknown role filter")})
			return
		}
		roles = append(roles, role)
	}

	limit, offset := ParseLimitOffset(r, 50, 200)
	users, err := h.Svc.ListMembers(r.Context(), roles, limit, offset)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "member listing failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "listing_failed", Err: errors.New("could not list members")})
		return
	}

	payload := make([]profileBody, 0, len(users))
	for _, u := range users {
		payload = append(payload, profilePayload(u))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"members": payload, "limit": limit, "offset": offset})
}

package httpx

// Package httpx wires the HTTP surface of the club application: JSON API
// endpoints under /api, the SSO browser flow under /auth, and the guarded
// page shell everywhere else.

import (
	"log/slog"
	"net/http"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Core         SessionCore
	WebSessions  WebSessions
	Registration Registrar
	Accounts     AccountService
	Memberships  MembershipManager
	Workouts     WorkoutCatalog
	Reservations ReservationBooker
	Profiles     ports.ProfileStore
	SSO          ports.SSOProvider // nil disables the SSO routes

	CookieDomain     string
	Metrics          *Metrics // nil disables /metrics
	Compression      bool
	CompressionLevel int
	Logger           *slog.Logger
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter creates and configures the application's HTTP handler.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()
	var sessions SessionResolver = services.WebSessions

	authHandlers := &AuthHandlers{
		Core:         services.Core,
		Sessions:     services.WebSessions,
		Registration: services.Registration,
		SSO:          services.SSO,
		Profiles:     services.Profiles,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	accountHandlers := &AccountHandlers{Svc: services.Accounts, Profiles: services.Profiles, Logger: services.Logger}
	membershipHandlers := &MembershipHandlers{Svc: services.Memberships, Logger: services.Logger}
	workoutHandlers := &WorkoutHandlers{Svc: services.Workouts, Logger: services.Logger}
	reservationHandlers := &ReservationHandlers{Svc: services.Reservations, Logger: services.Logger}

	// Auth endpoints. Login, register, and session probing are anonymous by
	// nature; logout only needs the cookie.
	mux.HandleFunc("POST /api/auth/login", authHandlers.Login)
	mux.HandleFunc("POST /api/auth/register", authHandlers.Register)
	mux.HandleFunc("POST /api/auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/auth/session", authHandlers.Session)
	if services.SSO != nil {
		mux.HandleFunc("GET /auth/sso/login", authHandlers.SSOLogin)
		mux.HandleFunc("GET /auth/sso/callback", authHandlers.SSOCallback)
	}

	requireAuth := RequireAuth(sessions)
	staffOnly := RequireRoles(sessions, domainauth.RoleAdmin, domainauth.RoleInstructor)
	membersOnly := RequireRoles(sessions, domainauth.RoleMember)
	adminOnly := RequireRoles(sessions, domainauth.RoleAdmin)

	// Account and profile.
	mux.Handle("GET /api/account", requireAuth(http.HandlerFunc(accountHandlers.Account)))
	mux.Handle("GET /api/profile", requireAuth(http.HandlerFunc(accountHandlers.Profile)))
	mux.Handle("PUT /api/profile", requireAuth(http.HandlerFunc(accountHandlers.UpdateProfile)))

	// Staff roster.
	mux.Handle("GET /api/members", staffOnly(http.HandlerFunc(accountHandlers.Members)))
	mux.Handle("GET /api/admin/members", adminOnly(http.HandlerFunc(accountHandlers.Members)))

	// Memberships. The plan catalog is public so the marketing page renders
	// without a session; managing a membership is members-only.
	mux.HandleFunc("GET /api/memberships/plans", membershipHandlers.Plans)
	mux.Handle("GET /api/membership", membersOnly(http.HandlerFunc(membershipHandlers.Current)))
	mux.Handle("PUT /api/membership", membersOnly(http.HandlerFunc(membershipHandlers.ChoosePlan)))

	// Classes are browsable by any signed-in user.
	mux.Handle("GET /api/workouts", requireAuth(http.HandlerFunc(workoutHandlers.Catalog)))
	mux.Handle("GET /api/classes", requireAuth(http.HandlerFunc(workoutHandlers.Schedule)))
	mux.Handle("GET /api/classes/{id}", requireAuth(http.HandlerFunc(workoutHandlers.Session)))

	// Booking is members-only.
	mux.Handle("POST /api/reservations", membersOnly(http.HandlerFunc(reservationHandlers.Book)))
	mux.Handle("GET /api/reservations", membersOnly(http.HandlerFunc(reservationHandlers.List)))
	mux.Handle("DELETE /api/reservations/{id}", membersOnly(http.HandlerFunc(reservationHandlers.Cancel)))

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	registerStaticRoutes(mux)
	registerPageRoutes(mux, sessions)

	var handler http.Handler = mux
	if services.Compression {
		handler = Compression(services.CompressionLevel)(handler)
	}
	if services.Metrics != nil {
		handler = services.Metrics.Middleware(mux)(handler)
	}
	handler = Logging(services.logger())(handler)
	handler = Recover(services.logger())(handler)
	return handler
}

package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
	mockauth "github.com/fitnova/fitnova-ui-api/internal/mocks/auth"
	"github.com/fitnova/fitnova-ui-api/internal/service"
)

// fakeAccountService is a hand-written AccountService double.
type fakeAccountService struct{}

func (fakeAccountService) Account(_ context.Context, user domainauth.User) (model.Account, error) {
	return model.AdminAccount{Profile: user}, nil
}

func (fakeAccountService) UpdateProfile(_ context.Context, userID string, in data.UpdateProfileInput) (domainauth.User, error) {
	return domainauth.User{ID: userID, FirstName: in.FirstName, LastName: in.LastName}, nil
}

func (fakeAccountService) ListMembers(context.Context, []domainauth.Role, int, int) ([]domainauth.User, error) {
	return []domainauth.User{{ID: "u-1", Role: domainauth.RoleMember}}, nil
}

// fakeMembershipManager is a hand-written MembershipManager double.
type fakeMembershipManager struct{}

func (fakeMembershipManager) Plans() []service.Plan {
	return []service.Plan{{Type: model.PlanMonthly, Name: "Monthly"}}
}

func (fakeMembershipManager) Current(_ context.Context, user domainauth.User) (*model.Membership, error) {
	return &model.Membership{ID: "m-1", UserID: user.ID, Type: model.PlanMonthly}, nil
}

func (fakeMembershipManager) ChoosePlan(_ context.Context, user domainauth.User, plan model.PlanType) (*model.Membership, error) {
	return &model.Membership{ID: "m-1", UserID: user.ID, Type: plan}, nil
}

// fakeWorkoutCatalog is a hand-written WorkoutCatalog double.
type fakeWorkoutCatalog struct{}

func (fakeWorkoutCatalog) Catalog(context.Context) ([]model.Workout, error) {
	return []model.Workout{{ID: "w-1", Name: "Morning Yoga"}}, nil
}

func (fakeWorkoutCatalog) Schedule(context.Context, int) ([]model.WorkoutSession, error) {
	return []model.WorkoutSession{{ID: "ws-1", Name: "Morning Yoga"}}, nil
}

func (fakeWorkoutCatalog) Session(_ context.Context, sessionID string) (*model.WorkoutSession, error) {
	return &model.WorkoutSession{ID: sessionID, Name: "Morning Yoga"}, nil
}

// fakeReservationBooker is a hand-written ReservationBooker double.
type fakeReservationBooker struct{}

func (fakeReservationBooker) Book(_ context.Context, user domainauth.User, sessionID string) (*model.Reservation, error) {
	return &model.Reservation{ID: "r-1", MemberID: user.ID, WorkoutSessionID: sessionID, Status: model.ReservationConfirmed}, nil
}

func (fakeReservationBooker) List(_ context.Context, user domainauth.User) ([]model.Reservation, error) {
	return []model.Reservation{{ID: "r-1", MemberID: user.ID}}, nil
}

func (fakeReservationBooker) Cancel(context.Context, domainauth.User, string) error {
	return nil
}

type routerFixture struct {
	handler  http.Handler
	sessions *service.WebSessionService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	user := testUser()
	sessions := service.NewWebSessionService(service.WebSessionServiceOptions{
		Store: mockauth.NewMemorySessionStore(),
	})
	handler := NewRouter(RouterServices{
		Core:         &fakeSessionCore{user: &user},
		WebSessions:  sessions,
		Registration: &fakeRegistrar{user: user},
		Accounts:     fakeAccountService{},
		Memberships:  fakeMembershipManager{},
		Workouts:     fakeWorkoutCatalog{},
		Reservations: fakeReservationBooker{},
		Profiles:     mockauth.NewMemoryProfileStore(),
	})
	return &routerFixture{handler: handler, sessions: sessions}
}

func (f *routerFixture) signIn(t *testing.T, role domainauth.Role) *http.Cookie {
	t.Helper()
	user := testUser()
	user.Role = role
	sess, err := f.sessions.Create(context.Background(), user)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: sess.ID}
}

func (f *routerFixture) do(t *testing.T, method, target string, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthz(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRouterPublicPlans(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/memberships/plans", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Monthly")
}

func TestRouterProtectedAPIRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)

	for _, target := range []string{
		"/api/account",
		"/api/profile",
		"/api/workouts",
		"/api/classes",
		"/api/reservations",
		"/api/membership",
	} {
		rec := f.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "GET %s without a session", target)
	}
}

func TestRouterMemberFlow(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.signIn(t, domainauth.RoleMember)

	rec := f.do(t, http.MethodGet, "/api/account", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/membership", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "monthly")

	rec = f.do(t, http.MethodPut, "/api/membership", `{"plan": "annual"}`, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "annual")

	rec = f.do(t, http.MethodPost, "/api/reservations", `{"session_id": "ws-1"}`, cookie)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/reservations/r-1", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRoleEnforcement(t *testing.T) {
	f := newRouterFixture(t)
	member := f.signIn(t, domainauth.RoleMember)
	instructor := f.signIn(t, domainauth.RoleInstructor)
	admin := f.signIn(t, domainauth.RoleAdmin)

	// The staff roster rejects members.
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/members", "", member).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/members", "", instructor).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/members", "", admin).Code)

	// The admin roster rejects instructors too.
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/admin/members", "", instructor).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/admin/members", "", admin).Code)

	// Membership management rejects staff.
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/membership", "", admin).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/api/reservations", `{"session_id": "ws-1"}`, instructor).Code)
}

func TestRouterSSORoutesAbsentWhenDisabled(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/auth/sso/login", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterPageShell(t *testing.T) {
	f := newRouterFixture(t)

	// Public pages render the shell without a session.
	for _, target := range []string{"/", "/login", "/register", "/plans", "/unauthorized"} {
		rec := f.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", target)
		assert.Contains(t, rec.Body.String(), "<div id=\"app\">", "GET %s", target)
	}

	// The shell's assets are served without a session.
	rec := f.do(t, http.MethodGet, "/static/app.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Protected pages redirect anonymous browsers to login.
	rec = f.do(t, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fdashboard", rec.Header().Get("Location"))

	// And render for signed-in users.
	cookie := f.signIn(t, domainauth.RoleMember)
	rec = f.do(t, http.MethodGet, "/dashboard", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Role-gated pages redirect to the unauthorized page.
	rec = f.do(t, http.MethodGet, "/admin/", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))
}

func TestRouterMetricsEndpoint(t *testing.T) {
	user := testUser()
	handler := NewRouter(RouterServices{
		Core:         &fakeSessionCore{user: &user},
		WebSessions:  service.NewWebSessionService(service.WebSessionServiceOptions{Store: mockauth.NewMemorySessionStore()}),
		Registration: &fakeRegistrar{user: user},
		Accounts:     fakeAccountService{},
		Memberships:  fakeMembershipManager{},
		Workouts:     fakeWorkoutCatalog{},
		Reservations: fakeReservationBooker{},
		Profiles:     mockauth.NewMemoryProfileStore(),
		Metrics:      NewMetrics(),
	})

	// Drive one request through the middleware so a sample exists.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fitnova_http_requests_total")
}

func TestRouterLoginLogoutRoundTrip(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/login", `{"email": "ana@example.com", "password": "supersecret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)

	rec = f.do(t, http.MethodGet, "/api/account", "", sessionCookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/logout", "", sessionCookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/account", "", sessionCookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

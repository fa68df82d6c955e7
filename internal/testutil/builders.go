package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// UserBuilder provides a fluent interface for building users for testing.
type UserBuilder struct {
	user domainauth.User
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		user: domainauth.User{
			ID:        uuid.NewString(),
			FirstName: "Test",
			LastName:  "User",
			Email:     "test.user@example.com",
			Role:      domainauth.RoleMember,
		},
	}
}

// WithID sets the user ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.user.ID = id
	return b
}

// WithName sets the first and last name.
func (b *UserBuilder) WithName(first, last string) *UserBuilder {
	b.user.FirstName = first
	b.user.LastName = last
	return b
}

// WithEmail sets the email address.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithRole sets the role.
func (b *UserBuilder) WithRole(role domainauth.Role) *UserBuilder {
	b.user.Role = role
	return b
}

// Build returns the constructed user.
func (b *UserBuilder) Build() domainauth.User { return b.user }

// MembershipBuilder provides a fluent interface for building memberships.
type MembershipBuilder struct {
	membership model.Membership
}

// NewMembership creates a MembershipBuilder covering the month around TestTime.
func NewMembership(userID string) *MembershipBuilder {
	start := TestTime().Add(-24 * time.Hour)
	return &MembershipBuilder{
		membership: model.Membership{
			ID:            uuid.NewString(),
			UserID:        userID,
			Type:          model.PlanMonthly,
			StartDate:     start,
			EndDate:       start.Add(model.PlanMonthly.Duration()),
			PaymentStatus: model.PaymentActive,
		},
	}
}

// WithPlan sets the plan type and recomputes the coverage window from the
// current start date.
func (b *MembershipBuilder) WithPlan(plan model.PlanType) *MembershipBuilder {
	b.membership.Type = plan
	b.membership.EndDate = b.membership.StartDate.Add(plan.Duration())
	return b
}

// WithPaymentStatus sets the payment status.
func (b *MembershipBuilder) WithPaymentStatus(status model.PaymentStatus) *MembershipBuilder {
	b.membership.PaymentStatus = status
	return b
}

// WithWindow sets the coverage window explicitly.
func (b *MembershipBuilder) WithWindow(start, end time.Time) *MembershipBuilder {
	b.membership.StartDate = start
	b.membership.EndDate = end
	return b
}

// Build returns the constructed membership.
func (b *MembershipBuilder) Build() model.Membership { return b.membership }

// WorkoutBuilder provides a fluent interface for building workouts.
type WorkoutBuilder struct {
	workout model.Workout
}

// NewWorkout creates a WorkoutBuilder with sensible defaults.
func NewWorkout(instructorID string) *WorkoutBuilder {
	return &WorkoutBuilder{
		workout: model.Workout{
			ID:           uuid.NewString(),
			Name:         "Test Class",
			Description:  "A class for tests",
			Capacity:     10,
			DurationMins: 60,
			InstructorID: instructorID,
			Location:     "Studio 1",
		},
	}
}

// WithName sets the class name.
func (b *WorkoutBuilder) WithName(name string) *WorkoutBuilder {
	b.workout.Name = name
	return b
}

// WithCapacity sets the class capacity.
func (b *WorkoutBuilder) WithCapacity(capacity int) *WorkoutBuilder {
	b.workout.Capacity = capacity
	return b
}

// Build returns the constructed workout.
func (b *WorkoutBuilder) Build() model.Workout { return b.workout }

// InsertUser writes a user row and returns its ID.
func InsertUser(t TestingTB, db *sql.DB, u domainauth.User) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, phone, address, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.FirstName, u.LastName, u.Email, nullIfEmpty(u.Phone), nullIfEmpty(u.Address), string(u.Role))
	if err != nil {
		t.Fatalf("Failed to insert user %s: %v", u.Email, err)
	}
	return u.ID
}

// InsertMembership writes a membership row and returns its ID.
func InsertMembership(t TestingTB, db *sql.DB, m model.Membership) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		INSERT INTO memberships (id, user_id, type, start_date, end_date, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.UserID, string(m.Type), m.StartDate, m.EndDate, string(m.PaymentStatus))
	if err != nil {
		t.Fatalf("Failed to insert membership for user %s: %v", m.UserID, err)
	}
	return m.ID
}

// InsertWorkout writes a workout row and returns its ID.
func InsertWorkout(t TestingTB, db *sql.DB, w model.Workout) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		INSERT INTO workouts (id, name, description, capacity, duration_mins, instructor_id, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.Name, w.Description, w.Capacity, w.DurationMins, w.InstructorID, w.Location)
	if err != nil {
		t.Fatalf("Failed to insert workout %s: %v", w.Name, err)
	}
	return w.ID
}

// InsertWorkoutSession schedules a session of a workout and returns its ID.
func InsertWorkoutSession(t TestingTB, db *sql.DB, workoutID string, startsAt time.Time) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO workout_sessions (id, workout_id, starts_at)
		VALUES ($1, $2, $3)`,
		id, workoutID, startsAt)
	if err != nil {
		t.Fatalf("Failed to insert workout session for %s: %v", workoutID, err)
	}
	return id
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

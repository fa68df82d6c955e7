package devseed

// Package devseed inserts demo accounts and a sample class schedule for
// local development. Seeding is idempotent: accounts are matched by email
// and workouts by name, so repeated startups do not duplicate rows.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fitnova/fitnova-ui-api/internal/adapters/localauth"
	"github.com/fitnova/fitnova-ui-api/internal/data/pgxutil"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// DemoPassword is the shared password for every demo account.
const DemoPassword = "password123"

type demoAccount struct {
	FirstName string
	LastName  string
	Email     string
	Role      domainauth.Role
	Plan      model.PlanType
}

var demoAccounts = []demoAccount{
	{FirstName: "Alex", LastName: "Admin", Email: "admin@fitnes.com", Role: domainauth.RoleAdmin},
	{FirstName: "Jane", LastName: "Doe", Email: "jane.doe@fitnes.com", Role: domainauth.RoleInstructor},
	{FirstName: "Marko", LastName: "Horvat", Email: "marko@fitnes.com", Role: domainauth.RoleMember, Plan: model.PlanMonthly},
	{FirstName: "Ivana", LastName: "Novak", Email: "ivana@fitnes.com", Role: domainauth.RoleMember, Plan: model.PlanAnnual},
}

type demoWorkout struct {
	Name         string
	Description  string
	Capacity     int
	DurationMins int
	Location     string
}

var demoWorkouts = []demoWorkout{
	{Name: "Morning Yoga", Description: "Gentle flow to start the day", Capacity: 15, DurationMins: 60, Location: "Studio A"},
	{Name: "HIIT Blast", Description: "High intensity interval training", Capacity: 12, DurationMins: 45, Location: "Main Floor"},
	{Name: "Spin Class", Description: "Endurance ride with intervals", Capacity: 20, DurationMins: 50, Location: "Cycle Room"},
	{Name: "Strength Basics", Description: "Barbell fundamentals", Capacity: 10, DurationMins: 60, Location: "Weight Room"},
}

// Seed inserts the demo data set.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	hash, err := localauth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	var instructorID string
	for _, acct := range demoAccounts {
		id, seedErr := seedAccount(ctx, db, acct, hash)
		if seedErr != nil {
			return fmt.Errorf("seed account %s: %w", acct.Email, seedErr)
		}
		if acct.Role == domainauth.RoleInstructor && instructorID == "" {
			instructorID = id
		}
	}

	if err = seedSchedule(ctx, db, instructorID); err != nil {
		return fmt.Errorf("seed schedule: %w", err)
	}

	logger.InfoContext(ctx, "demo data seeded",
		"accounts", len(demoAccounts),
		"workouts", len(demoWorkouts))
	return nil
}

// seedAccount creates credential, profile, and membership rows for one demo
// account, returning the user ID. Existing accounts are left untouched.
func seedAccount(ctx context.Context, db *sql.DB, acct demoAccount, hash []byte) (string, error) {
	var id string
	err := pgxutil.WithPgxTx(ctx, db, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		lookupErr := tx.QueryRow(ctx,
			`SELECT id FROM credentials WHERE lower(email) = lower($1)`, acct.Email,
		).Scan(&id)
		if lookupErr == nil {
			return nil
		}
		if !errors.Is(lookupErr, pgx.ErrNoRows) {
			return fmt.Errorf("lookup credential: %w", lookupErr)
		}

		if insertErr := tx.QueryRow(ctx,
			`INSERT INTO credentials (email, password_hash) VALUES ($1, $2) RETURNING id`,
			acct.Email, hash,
		).Scan(&id); insertErr != nil {
			return fmt.Errorf("insert credential: %w", insertErr)
		}

		now := time.Now().UTC()
		if _, insertErr := tx.Exec(ctx, `
			INSERT INTO users (id, first_name, last_name, email, role, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, acct.FirstName, acct.LastName, acct.Email, acct.Role, now,
		); insertErr != nil {
			return fmt.Errorf("insert user: %w", insertErr)
		}

		if acct.Role != domainauth.RoleMember {
			return nil
		}

		plan := acct.Plan
		status := model.PaymentActive
		if plan == "" || plan == model.PlanNone {
			plan = model.PlanNone
			status = model.PaymentPending
		}
		start, end := now, now
		if plan != model.PlanNone {
			var planErr error
			start, end, planErr = model.RenewFrom(plan, now)
			if planErr != nil {
				return planErr
			}
		}
		if _, insertErr := tx.Exec(ctx, `
			INSERT INTO memberships (user_id, type, start_date, end_date, payment_status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, plan, start, end, status, now,
		); insertErr != nil {
			return fmt.Errorf("insert membership: %w", insertErr)
		}
		return nil
	}})
	if err != nil {
		return "", err
	}
	return id, nil
}

// seedSchedule inserts the demo workouts and a week of upcoming sessions.
func seedSchedule(ctx context.Context, db *sql.DB, instructorID string) error {
	if instructorID == "" {
		return errors.New("no instructor account to attach workouts to")
	}

	return pgxutil.WithPgxTx(ctx, db, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		for i, w := range demoWorkouts {
			var workoutID string
			lookupErr := tx.QueryRow(ctx,
				`SELECT id FROM workouts WHERE name = $1`, w.Name,
			).Scan(&workoutID)
			if lookupErr == nil {
				continue
			}
			if !errors.Is(lookupErr, pgx.ErrNoRows) {
				return fmt.Errorf("lookup workout: %w", lookupErr)
			}

			if insertErr := tx.QueryRow(ctx, `
				INSERT INTO workouts (name, description, capacity, duration_mins, instructor_id, location)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				w.Name, w.Description, w.Capacity, w.DurationMins, instructorID, w.Location,
			).Scan(&workoutID); insertErr != nil {
				return fmt.Errorf("insert workout: %w", insertErr)
			}

			// One session per day for the next week, staggered by workout.
			base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
			for day := 0; day < 7; day++ {
				startsAt := base.AddDate(0, 0, day).Add(time.Duration(8+2*i) * time.Hour)
				if _, insertErr := tx.Exec(ctx, `
					INSERT INTO workout_sessions (workout_id, starts_at)
					VALUES ($1, $2)`,
					workoutID, startsAt,
				); insertErr != nil {
					return fmt.Errorf("insert workout session: %w", insertErr)
				}
			}
		}
		return nil
	}})
}

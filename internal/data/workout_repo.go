package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fitnova/fitnova-ui-api/internal/data/pgxutil"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// WorkoutRepo provides database operations for workouts and their scheduled
// sessions.
type WorkoutRepo struct {
	DB *sql.DB
}

// NewWorkoutRepo creates a WorkoutRepo.
func NewWorkoutRepo(db *sql.DB) *WorkoutRepo {
	return &WorkoutRepo{DB: db}
}

// List retrieves all offered workouts ordered by name.
func (r *WorkoutRepo) List(ctx context.Context) ([]model.Workout, error) {
	var out []model.Workout
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT id, name, description, capacity, duration_mins, instructor_id, location
			FROM workouts
			ORDER BY name`)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Workout])
		return collectErr
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return out, nil
}

// ListByInstructor retrieves the workouts taught by one instructor.
func (r *WorkoutRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Workout, error) {
	var out []model.Workout
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT id, name, description, capacity, duration_mins, instructor_id, location
			FROM workouts
			WHERE instructor_id = $1
			ORDER BY name`, instructorID)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Workout])
		return collectErr
	})
	if err != nil {
		return nil, fmt.Errorf("list instructor workouts: %w", err)
	}
	return out, nil
}

const sessionSelect = `
	SELECT ws.id, ws.workout_id, ws.starts_at,
	       w.name, w.capacity, w.duration_mins, w.instructor_id, w.location,
	       (SELECT count(*) FROM reservations res
	        WHERE res.workout_session_id = ws.id AND res.status = 'confirmed') AS enrolled_count
	FROM workout_sessions ws
	JOIN workouts w ON w.id = ws.workout_id`

// ListUpcomingSessions retrieves sessions starting at or after the given
// time, soonest first, with live enrollment counts.
func (r *WorkoutRepo) ListUpcomingSessions(ctx context.Context, from sql.NullTime, limit int) ([]model.WorkoutSession, error) {
	if limit <= 0 {
		limit = 100
	}

	var out []model.WorkoutSession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, sessionSelect+`
			WHERE ($1::timestamptz IS NULL OR ws.starts_at >= $1)
			ORDER BY ws.starts_at
			LIMIT $2`, from, limit)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.WorkoutSession])
		return collectErr
	})
	if err != nil {
		return nil, fmt.Errorf("list workout sessions: %w", err)
	}
	return out, nil
}

// GetSession retrieves a single scheduled session with its enrollment count.
func (r *WorkoutRepo) GetSession(ctx context.Context, sessionID string) (*model.WorkoutSession, error) {
	var out model.WorkoutSession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, sessionSelect+` WHERE ws.id = $1`, sessionID)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WorkoutSession])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("query workout session: %w", err)
	}
	return &out, nil
}

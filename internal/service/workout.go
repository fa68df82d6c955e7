package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// WorkoutStore is the slice of data.WorkoutRepo the service needs.
type WorkoutStore interface {
	List(ctx context.Context) ([]model.Workout, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.Workout, error)
	ListUpcomingSessions(ctx context.Context, from sql.NullTime, limit int) ([]model.WorkoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*model.WorkoutSession, error)
}

// WorkoutService exposes the class catalog and schedule.
type WorkoutService struct {
	workouts WorkoutStore
	now      func() time.Time
}

// NewWorkoutService builds the service.
func NewWorkoutService(workouts WorkoutStore) (*WorkoutService, error) {
	if workouts == nil {
		return nil, errors.New("workout store is required")
	}
	return &WorkoutService{workouts: workouts, now: time.Now}, nil
}

// Catalog returns all offered workouts.
func (s *WorkoutService) Catalog(ctx context.Context) ([]model.Workout, error) {
	return s.workouts.List(ctx)
}

// Schedule returns upcoming scheduled sessions with enrollment counts.
// limit <= 0 uses the store default.
func (s *WorkoutService) Schedule(ctx context.Context, limit int) ([]model.WorkoutSession, error) {
	from := sql.NullTime{Time: s.now().UTC(), Valid: true}
	out, err := s.workouts.ListUpcomingSessions(ctx, from, limit)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return out, nil
}

// Session returns a single scheduled session.
func (s *WorkoutService) Session(ctx context.Context, sessionID string) (*model.WorkoutSession, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}
	return s.workouts.GetSession(ctx, sessionID)
}

// TaughtBy returns the classes an instructor teaches.
func (s *WorkoutService) TaughtBy(ctx context.Context, instructorID string) ([]model.Workout, error) {
	if instructorID == "" {
		return nil, errors.New("instructor ID is required")
	}
	return s.workouts.ListByInstructor(ctx, instructorID)
}

package model

import (
	"errors"
	"strings"
	"time"
)

// Workout is a class offered by the club, taught by an instructor.
type Workout struct {
	ID           string `db:"id"            json:"id"`
	Name         string `db:"name"          json:"name"`
	Description  string `db:"description"   json:"description"`
	Capacity     int    `db:"capacity"      json:"capacity"`
	DurationMins int    `db:"duration_mins" json:"duration_mins"`
	InstructorID string `db:"instructor_id" json:"instructor_id"`
	Location     string `db:"location"      json:"location"`
}

// Validate checks the fields required to offer a class.
func (w *Workout) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return errors.New("workout name is required")
	}
	if w.Capacity <= 0 {
		return errors.New("workout capacity must be positive")
	}
	if w.DurationMins <= 0 {
		return errors.New("workout duration must be positive")
	}
	if w.InstructorID == "" {
		return errors.New("workout instructor is required")
	}
	return nil
}

// WorkoutSession is a scheduled occurrence of a workout at a point in time.
// EnrolledCount is derived from confirmed reservations, never stored.
type WorkoutSession struct {
	ID            string    `db:"id"             json:"id"`
	WorkoutID     string    `db:"workout_id"     json:"workout_id"`
	StartsAt      time.Time `db:"starts_at"      json:"starts_at"`
	Name          string    `db:"name"           json:"name"`
	Capacity      int       `db:"capacity"       json:"capacity"`
	DurationMins  int       `db:"duration_mins"  json:"duration_mins"`
	InstructorID  string    `db:"instructor_id"  json:"instructor_id"`
	Location      string    `db:"location"       json:"location"`
	EnrolledCount int       `db:"enrolled_count" json:"enrolled_count"`
}

// SpotsLeft returns the remaining capacity, never negative.
func (s WorkoutSession) SpotsLeft() int {
	left := s.Capacity - s.EnrolledCount
	if left < 0 {
		return 0
	}
	return left
}

// Full reports whether the session is at capacity.
func (s WorkoutSession) Full() bool { return s.SpotsLeft() == 0 }

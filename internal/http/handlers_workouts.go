package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// WorkoutCatalog is the workout service surface the handlers consume.
type WorkoutCatalog interface {
	Catalog(ctx context.Context) ([]model.Workout, error)
	Schedule(ctx context.Context, limit int) ([]model.WorkoutSession, error)
	Session(ctx context.Context, sessionID string) (*model.WorkoutSession, error)
}

// WorkoutHandlers serves the class catalog and schedule.
type WorkoutHandlers struct {
	Svc    WorkoutCatalog
	Logger *slog.Logger
}

func (h *WorkoutHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Catalog lists all offered workouts.
// GET /api/workouts.
func (h *WorkoutHandlers) Catalog(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.Svc.Catalog(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "workout catalog failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "catalog_failed", Err: errors.New("could not load workouts")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"workouts": workouts})
}

// Schedule lists upcoming scheduled sessions with enrollment counts.
// GET /api/classes?limit=50.
func (h *WorkoutHandlers) Schedule(w http.ResponseWriter, r *http.Request) {
	limit, _ := ParseLimitOffset(r, 50, 200)
	sessions, err := h.Svc.Schedule(r.Context(), limit)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "schedule load failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "schedule_failed", Err: errors.New("could not load schedule")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// Session returns one scheduled session.
// GET /api/classes/{id}.
func (h *WorkoutHandlers) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Svc.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrSessionNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		h.logger().ErrorContext(r.Context(), "session load failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_failed", Err: errors.New("could not load session")})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"session": sess})
}

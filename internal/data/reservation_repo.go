package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitnova/fitnova-ui-api/internal/data/pgxutil"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
)

// ReservationRepo provides database operations for class bookings.
type ReservationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewReservationRepo creates a ReservationRepo with the real clock.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{DB: db, timeProvider: RealTimeProvider{}}
}

const reservationColumns = `id, member_id, workout_session_id, status, created_at`

// Create books a session for a member. The capacity check and the insert run
// in one transaction with the session row locked, so two concurrent bookings
// can never both take the last spot.
func (r *ReservationRepo) Create(ctx context.Context, memberID, sessionID string) (*model.Reservation, error) {
	var out model.Reservation
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		var capacity int
		err := tx.QueryRow(ctx, `
			SELECT w.capacity
			FROM workout_sessions ws
			JOIN workouts w ON w.id = ws.workout_id
			WHERE ws.id = $1
			FOR UPDATE OF ws`, sessionID,
		).Scan(&capacity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("lock session: %w", err)
		}

		var confirmed int
		if err = tx.QueryRow(ctx, `
			SELECT count(*) FROM reservations
			WHERE workout_session_id = $1 AND status = 'confirmed'`, sessionID,
		).Scan(&confirmed); err != nil {
			return fmt.Errorf("count reservations: %w", err)
		}
		if confirmed >= capacity {
			return ErrSessionFull
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO reservations (member_id, workout_session_id, status, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+reservationColumns,
			memberID, sessionID, model.ReservationConfirmed, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
		return err
	}})
	if err != nil {
		return nil, mapReservationWriteErr(err)
	}
	return &out, nil
}

// ListByMember retrieves a member's bookings, newest first.
func (r *ReservationRepo) ListByMember(ctx context.Context, memberID string) ([]model.Reservation, error) {
	var out []model.Reservation
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT `+reservationColumns+`
			FROM reservations
			WHERE member_id = $1
			ORDER BY created_at DESC`, memberID)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Reservation])
		return collectErr
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

// Cancel marks a member's reservation cancelled. The member scope is part of
// the predicate so one member can never cancel another's booking.
func (r *ReservationRepo) Cancel(ctx context.Context, memberID, reservationID string) error {
	var tag pgconn.CommandTag
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var execErr error
		tag, execErr = conn.Exec(ctx, `
			UPDATE reservations
			SET status = $3
			WHERE id = $1 AND member_id = $2 AND status <> $3`,
			reservationID, memberID, model.ReservationCancelled)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func mapReservationWriteErr(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionFull):
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAlreadyReserved
	}
	return fmt.Errorf("create reservation: %w", err)
}

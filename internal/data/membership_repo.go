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

// MembershipRepo provides database operations for memberships.
type MembershipRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMembershipRepo creates a MembershipRepo with the real clock.
func NewMembershipRepo(db *sql.DB) *MembershipRepo {
	return &MembershipRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewMembershipRepoWithTimeProvider creates a MembershipRepo with a custom
// clock, useful for tests.
func NewMembershipRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MembershipRepo {
	return &MembershipRepo{DB: db, timeProvider: tp}
}

const membershipColumns = `id, user_id, type, start_date, end_date, payment_status, created_at, updated_at`

// GetByUserID retrieves the membership row for a user.
func (r *MembershipRepo) GetByUserID(ctx context.Context, userID string) (*model.Membership, error) {
	var out model.Membership
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx,
			`SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1`, userID)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Membership])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("query membership: %w", err)
	}
	return &out, nil
}

// CreateDefaultTx inserts the "no plan yet" membership row inside an
// existing transaction, pairing it atomically with the profile insert during
// registration.
func (r *MembershipRepo) CreateDefaultTx(ctx context.Context, tx pgx.Tx, userID string) error {
	now := r.timeProvider.Now().UTC()
	_, err := tx.Exec(ctx, `
		INSERT INTO memberships (user_id, type, start_date, end_date, payment_status, created_at)
		VALUES ($1, $2, $3, $3, $4, $3)`,
		userID, model.PlanNone, now, model.PaymentPending,
	)
	if err != nil {
		return fmt.Errorf("insert default membership: %w", err)
	}
	return nil
}

// UpdatePlan switches a user's membership to the given plan with a coverage
// window starting now. The whole change is one statement, so readers never
// observe a plan without its recomputed window.
func (r *MembershipRepo) UpdatePlan(ctx context.Context, userID string, plan model.PlanType) (*model.Membership, error) {
	start, end, err := model.RenewFrom(plan, r.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	status := model.PaymentActive
	if plan == model.PlanNone {
		status = model.PaymentPending
	}

	var out model.Membership
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			UPDATE memberships
			SET type = $2, start_date = $3, end_date = $4, payment_status = $5, updated_at = $3
			WHERE user_id = $1
			RETURNING `+membershipColumns,
			userID, plan, start, end, status,
		)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		var collectErr error
		out, collectErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Membership])
		return collectErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("update membership: %w", err)
	}
	return &out, nil
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitnova/fitnova-ui-api/internal/data/pgxutil"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// UserRepo provides database operations for domain user profiles.
// It implements ports.ProfileStore for the session core.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a UserRepo with the real clock.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

const userColumns = `id, first_name, last_name, email, COALESCE(phone, ''), COALESCE(address, ''), role`

// FetchUserByKey returns the user whose ID equals the identity key.
// A missing row is domainauth.ErrProfileNotFound, never an infrastructure
// error; the session core depends on that distinction.
func (r *UserRepo) FetchUserByKey(ctx context.Context, identityKey string) (domainauth.User, error) {
	return r.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, identityKey)
}

// FetchUserBySubject returns the user linked to an SSO subject claim.
func (r *UserRepo) FetchUserBySubject(ctx context.Context, subject string) (domainauth.User, error) {
	return r.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE sso_subject = $1`, subject)
}

// GetByEmail retrieves a user by email address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domainauth.User, error) {
	user, err := r.fetchOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if errors.Is(err, domainauth.ErrProfileNotFound) {
		return domainauth.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepo) fetchOne(ctx context.Context, query, arg string) (domainauth.User, error) {
	var u domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, arg).Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Address, &u.Role)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.User{}, domainauth.ErrProfileNotFound
		}
		return domainauth.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// Create inserts a profile row. The ID must equal the identity key issued by
// the credential store.
func (r *UserRepo) Create(ctx context.Context, u domainauth.User) error {
	if u.ID == "" {
		return errors.New("user ID is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role %q", u.Role)
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO users (id, first_name, last_name, email, phone, address, role, created_at)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
			u.ID, strings.TrimSpace(u.FirstName), strings.TrimSpace(u.LastName),
			strings.TrimSpace(u.Email), u.Phone, u.Address, u.Role,
			r.timeProvider.Now().UTC(),
		)
		return execErr
	})
	if err != nil {
		return mapUserWriteErr(err)
	}
	return nil
}

// CreateTx inserts a profile row inside an existing transaction. Used by
// registration together with CredentialRepo.CreateTx.
func (r *UserRepo) CreateTx(ctx context.Context, tx pgx.Tx, u domainauth.User) error {
	if u.ID == "" {
		return errors.New("user ID is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role %q", u.Role)
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, phone, address, role, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
		u.ID, strings.TrimSpace(u.FirstName), strings.TrimSpace(u.LastName),
		strings.TrimSpace(u.Email), u.Phone, u.Address, u.Role,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return mapUserWriteErr(err)
	}
	return nil
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// UpdateProfile updates the editable profile fields for a user. Role and
// email are not editable through this path.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (domainauth.User, error) {
	var u domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			UPDATE users
			SET first_name = $2, last_name = $3,
			    phone = NULLIF($4, ''), address = NULLIF($5, ''),
			    updated_at = $6
			WHERE id = $1
			RETURNING `+userColumns,
			userID, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName),
			in.Phone, in.Address, r.timeProvider.Now().UTC(),
		).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Address, &u.Role)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.User{}, ErrUserNotFound
		}
		return domainauth.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ListByRoles retrieves users having any of the given roles, ordered by last
// name. An empty role set lists everyone.
func (r *UserRepo) ListByRoles(ctx context.Context, roles []domainauth.Role, limit, offset int) ([]domainauth.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	roleStrings := make([]string, len(roles))
	for i, role := range roles {
		roleStrings[i] = string(role)
	}

	var out []domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT `+userColumns+`
			FROM users
			WHERE cardinality($1::text[]) = 0 OR role = ANY($1::text[])
			ORDER BY last_name, first_name
			LIMIT $2 OFFSET $3`,
			roleStrings, limit, offset,
		)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			var u domainauth.User
			if scanErr := rows.Scan(
				&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Address, &u.Role,
			); scanErr != nil {
				return scanErr
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func mapUserWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailExists
	}
	return fmt.Errorf("write user: %w", err)
}

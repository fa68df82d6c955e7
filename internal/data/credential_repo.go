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
)

// Credential is a stored login secret. The password hash never leaves the
// localauth adapter.
type Credential struct {
	ID           string
	Email        string
	PasswordHash []byte
}

// CredentialRepo provides database operations for login credentials.
type CredentialRepo struct {
	DB *sql.DB
}

// NewCredentialRepo creates a CredentialRepo.
func NewCredentialRepo(db *sql.DB) *CredentialRepo {
	return &CredentialRepo{DB: db}
}

// GetByEmail retrieves a credential by email, case-insensitively.
func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (Credential, error) {
	var c Credential
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT id, email, password_hash FROM credentials WHERE lower(email) = lower($1)`,
			email,
		).Scan(&c.ID, &c.Email, &c.PasswordHash)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, ErrCredentialNotFound
		}
		return Credential{}, fmt.Errorf("query credential: %w", err)
	}
	return c, nil
}

// CreateTx inserts a credential inside an existing transaction and returns
// the generated identity key. Used by registration so the credential and the
// profile row commit or roll back together.
func (r *CredentialRepo) CreateTx(ctx context.Context, tx pgx.Tx, email string, passwordHash []byte) (string, error) {
	var id string
	err := tx.QueryRow(ctx,
		`INSERT INTO credentials (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("insert credential: %w", err)
	}
	return id, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	"github.com/fitnova/fitnova-ui-api/internal/data/pgxutil"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
)

// Registration input validation failures.
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrNameRequired     = errors.New("first and last name are required")
)

// MinPasswordLength is the minimum accepted password length for signup.
const MinPasswordLength = 8

// RegistrationService creates new member accounts. The credential, the
// profile row, and the starter membership commit in one transaction so a
// failure partway leaves no orphaned signup.
type RegistrationService struct {
	db           *sql.DB
	credentials  *data.CredentialRepo
	users        *data.UserRepo
	memberships  *data.MembershipRepo
	hashPassword func(string) ([]byte, error)
	logger       *slog.Logger
}

// RegistrationConfig holds dependencies for NewRegistrationService.
type RegistrationConfig struct {
	DB           *sql.DB
	Credentials  *data.CredentialRepo
	Users        *data.UserRepo
	Memberships  *data.MembershipRepo
	HashPassword func(string) ([]byte, error)
	Logger       *slog.Logger
}

// NewRegistrationService validates dependencies and builds the service.
func NewRegistrationService(cfg RegistrationConfig) (*RegistrationService, error) {
	if cfg.DB == nil {
		return nil, errors.New("DB is required")
	}
	if cfg.Credentials == nil || cfg.Users == nil || cfg.Memberships == nil {
		return nil, errors.New("credential, user, and membership repos are required")
	}
	if cfg.HashPassword == nil {
		return nil, errors.New("password hash function is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{
		db:           cfg.DB,
		credentials:  cfg.Credentials,
		users:        cfg.Users,
		memberships:  cfg.Memberships,
		hashPassword: cfg.HashPassword,
		logger:       logger,
	}, nil
}

// RegisterInput carries the signup form fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   string
}

func (in *RegisterInput) validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FirstName == "" || in.LastName == "" {
		return ErrNameRequired
	}
	if in.Email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(in.Email, "@")
	if at < 1 || at == len(in.Email)-1 {
		return ErrEmailInvalid
	}
	if len(in.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Register creates a member account: credential, profile, and a starter
// membership without a plan. Returns data.ErrEmailExists when the email is
// already registered.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domainauth.User, error) {
	if err := in.validate(); err != nil {
		return domainauth.User{}, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("hash password: %w", err)
	}

	var user domainauth.User
	err = pgxutil.WithPgxTx(ctx, s.db, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			id, createErr := s.credentials.CreateTx(ctx, tx, in.Email, hash)
			if createErr != nil {
				return createErr
			}

			user = domainauth.User{
				ID:        id,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
				Phone:     in.Phone,
				Address:   in.Address,
				Role:      domainauth.RoleMember,
			}
			if userErr := s.users.CreateTx(ctx, tx, user); userErr != nil {
				return userErr
			}
			return s.memberships.CreateDefaultTx(ctx, tx, id)
		},
	})
	if err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			return domainauth.User{}, data.ErrEmailExists
		}
		return domainauth.User{}, fmt.Errorf("register account: %w", err)
	}

	s.logger.Info("member registered", "user_id", user.ID)
	return user, nil
}

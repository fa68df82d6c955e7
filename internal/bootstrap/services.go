package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fitnova/fitnova-ui-api/config"
	"github.com/fitnova/fitnova-ui-api/internal/adapters/localauth"
	redisadapter "github.com/fitnova/fitnova-ui-api/internal/adapters/redis"
	"github.com/fitnova/fitnova-ui-api/internal/data"
	"github.com/fitnova/fitnova-ui-api/internal/service"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds the constructed services and repositories shared by
// the HTTP layer and the entrypoint.
type ServiceContainer struct {
	Users        *data.UserRepo
	Credentials  *data.CredentialRepo
	Memberships  *data.MembershipRepo
	Workouts     *data.WorkoutRepo
	Reservations *data.ReservationRepo

	Sessions     *service.SessionService
	WebSessions  *service.WebSessionService
	Registration *service.RegistrationService
	Members      *service.MemberService
	Membership   *service.MembershipService
	Reservation  *service.ReservationService
	Workout      *service.WorkoutService
}

// ServicesConfig contains dependencies for BuildServices.
type ServicesConfig struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires repositories, adapters, and services together.
func BuildServices(cfg ServicesConfig) (*ServiceContainer, error) {
	c := &ServiceContainer{
		Users:        data.NewUserRepo(cfg.DB),
		Credentials:  data.NewCredentialRepo(cfg.DB),
		Memberships:  data.NewMembershipRepo(cfg.DB),
		Workouts:     data.NewWorkoutRepo(cfg.DB),
		Reservations: data.NewReservationRepo(cfg.DB),
	}

	provider, err := BuildIdentityProvider(AuthDeps{
		Auth:        cfg.Config.Auth,
		Credentials: c.Credentials,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	c.Sessions = service.NewSessionService(service.SessionServiceOptions{
		Provider: provider,
		Profiles: c.Users,
		Logger:   cfg.Logger,
	})

	sessionStore := redisadapter.NewSessionStore(cfg.RedisClient)
	c.WebSessions = service.NewWebSessionService(service.WebSessionServiceOptions{
		Store: sessionStore,
		TTL:   cfg.Config.Auth.SessionTTL,
	})

	c.Registration, err = service.NewRegistrationService(service.RegistrationConfig{
		DB:           cfg.DB,
		Credentials:  c.Credentials,
		Users:        c.Users,
		Memberships:  c.Memberships,
		HashPassword: localauth.HashPassword,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build registration service: %w", err)
	}

	c.Membership, err = service.NewMembershipService(c.Memberships, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("build membership service: %w", err)
	}

	c.Reservation, err = service.NewReservationService(c.Reservations, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("build reservation service: %w", err)
	}

	c.Workout, err = service.NewWorkoutService(c.Workouts)
	if err != nil {
		return nil, fmt.Errorf("build workout service: %w", err)
	}

	c.Members, err = service.NewMemberService(service.MemberConfig{
		Users:        c.Users,
		Memberships:  c.Memberships,
		Reservations: c.Reservations,
		Workouts:     c.Workouts,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build member service: %w", err)
	}

	return c, nil
}

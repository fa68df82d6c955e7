package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/fitnova/fitnova-ui-api/config"
	"github.com/fitnova/fitnova-ui-api/internal/adapters/devauth"
	"github.com/fitnova/fitnova-ui-api/internal/adapters/localauth"
	"github.com/fitnova/fitnova-ui-api/internal/adapters/oidc"
	"github.com/fitnova/fitnova-ui-api/internal/data"
	"github.com/fitnova/fitnova-ui-api/internal/ports"
)

// AuthDeps contains dependencies for building the identity providers.
type AuthDeps struct {
	Auth        config.AuthConfig
	Credentials *data.CredentialRepo
	Logger      *slog.Logger
}

// BuildIdentityProvider creates the password identity provider for the
// configured auth mode.
//
//nolint:ireturn // callers program against the port, not a concrete provider.
func BuildIdentityProvider(deps AuthDeps) (ports.IdentityProvider, error) {
	switch deps.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          deps.Auth.DevAuth.UserID,
			Email:           deps.Auth.DevAuth.Email,
			SessionDuration: deps.Auth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		if deps.Logger != nil {
			deps.Logger.Warn("mock authentication enabled; any credentials sign in", "user_id", deps.Auth.DevAuth.UserID)
		}
		return prov, nil

	case config.AuthModeLocal:
		prov, err := localauth.NewProvider(localauth.Config{
			Credentials:     deps.Credentials,
			SessionDuration: deps.Auth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("build local auth provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", deps.Auth.Mode)
	}
}

// BuildSSOProvider creates the staff SSO provider when enabled, nil otherwise.
//
//nolint:ireturn // callers program against the port, not a concrete provider.
func BuildSSOProvider(cfg config.SSOConfig, logger *slog.Logger) (ports.SSOProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.ClientSecret == "" {
		if logger != nil {
			logger.Warn("SSO enabled but client secret missing; SSO disabled")
		}
		return nil, nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build oidc provider: %w", err)
	}
	if logger != nil {
		logger.Info("staff SSO enabled", "client_id", cfg.ClientID)
	}
	return prov, nil
}

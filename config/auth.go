package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the primary authentication mode for the application.
type AuthMode string

const (
	// AuthModeLocal checks passwords against the club's own credential table.
	AuthModeLocal AuthMode = "local"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "local", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: local, mock)", v)
	}
}

// SSOConfig contains OIDC configuration for the staff single sign-on flow.
// SSO runs alongside the primary mode when a discovery URL is set.
type SSOConfig struct {
	Enabled      bool   `env:"ENABLED"       envDefault:"false"`
	ClientID     string `env:"CLIENT_ID"     envDefault:"fitnova"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing. The user ID must be
// a UUID because it doubles as the profile row's primary key.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"00000000-0000-0000-0000-000000000001"`
	Email  string `env:"EMAIL"   envDefault:"dev@example.com"`
	Role   string `env:"ROLE"    envDefault:"admin"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which password authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"local"`

	// SessionTTL is the lifetime of a web session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// SSO configuration for the staff browser login flow.
	SSO SSOConfig `envPrefix:"SSO_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
	if a.SSO.Enabled && a.SSO.DiscoveryURL == "" {
		a.SSO.Enabled = false
	}
}

package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOIDC verifies bearer tokens against an OIDC provider.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock accepts development tokens (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oidc, mock)", v)
	}
}

// OIDCConfig contains bearer token verification settings.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"fleet-alerts"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// UserInfo fills missing email/group claims from the userinfo endpoint.
	UserInfo bool `env:"USERINFO" envDefault:"false"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Token  string   `env:"TOKEN"   envDefault:"dev-token"`
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"fleet-admins" envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which token verifier to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oidc"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"AUTH_OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the IdP group whose members bypass ownership checks.
	AdminGroup string `env:"AUTH_ADMIN_GROUP,required"`

	// UserGroup is the IdP group for regular device owners.
	UserGroup string `env:"AUTH_USER_GROUP,required"`

	// SessionTTL bounds sessions minted by the admin CLI.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"8h"`
}

package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
)

// TokenVerifier checks a bearer token and returns the identity it asserts.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenVerifier = (*StaticVerifier)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.RoleMapper    = (*StaticRoleMapper)(nil)
)

// ErrInvalidToken is returned by StaticVerifier for unknown tokens.
var ErrInvalidToken = errors.New("invalid token")

// StaticVerifier maps fixed bearer tokens to identities.
type StaticVerifier struct {
	Tokens     map[string]domainauth.Identity
	VerifyFunc func(ctx context.Context, raw string) (domainauth.Identity, error)
}

// NewStaticVerifier creates a StaticVerifier with no tokens.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{Tokens: make(map[string]domainauth.Identity)}
}

// Add registers token for a user with the given groups and a one hour expiry.
func (v *StaticVerifier) Add(token, userID string, groups ...string) *StaticVerifier {
	v.Tokens[token] = domainauth.Identity{
		UserID:    userID,
		Email:     userID + "@example.com",
		Groups:    groups,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return v
}

func (v *StaticVerifier) Verify(ctx context.Context, raw string) (domainauth.Identity, error) {
	if v.VerifyFunc != nil {
		return v.VerifyFunc(ctx, raw)
	}
	id, ok := v.Tokens[raw]
	if !ok {
		return domainauth.Identity{}, ErrInvalidToken
	}
	return id, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StaticRoleMapper maps groups by simple string membership rules.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return domainauth.RoleUser
		}
	}
	return domainauth.RoleGuest
}

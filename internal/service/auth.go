package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/ports"
)

// DefaultSessionTTL bounds sessions issued without an explicit TTL.
const DefaultSessionTTL = 8 * time.Hour

// ErrUnauthenticated is returned when a request carries no usable credential.
var ErrUnauthenticated = errors.New("unauthenticated")

var errSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Verifier ports.TokenVerifier // Optional: bearer authentication is disabled when nil
	Sessions ports.SessionStore  // Optional: cookie sessions are disabled when nil
	Roles    ports.RoleMapper    // Required: maps identity groups to roles
}

// AuthService turns request credentials into an authenticated session.
type AuthService struct {
	verifier ports.TokenVerifier
	sessions ports.SessionStore
	roles    ports.RoleMapper
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Roles == nil {
		panic("RoleMapper is required") //nolint:forbidigo // wiring error
	}
	return &AuthService{
		verifier: opts.Verifier,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		now:      time.Now,
	}
}

// Credentials are the raw credentials extracted from a request.
type Credentials struct {
	BearerToken string
	SessionID   string
}

// Authenticate resolves credentials to a session. A bearer token takes precedence
// over a session cookie. Every failure wraps ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (*domainauth.Session, error) {
	switch {
	case creds.BearerToken != "":
		if s.verifier == nil {
			return nil, fmt.Errorf("%w: bearer tokens are not accepted", ErrUnauthenticated)
		}
		identity, err := s.verifier.Verify(ctx, creds.BearerToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return &domainauth.Session{
			UserID:    identity.UserID,
			Email:     identity.Email,
			Role:      s.roles.Map(identity.Groups),
			ExpiresAt: identity.ExpiresAt,
		}, nil

	case creds.SessionID != "":
		sess, err := s.GetSession(ctx, creds.SessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return sess, nil

	default:
		return nil, ErrUnauthenticated
	}
}

// IssueSessionInput describes a session minted outside an IdP flow (admin tooling).
type IssueSessionInput struct {
	UserID string
	Email  string
	Role   domainauth.Role
	TTL    time.Duration
}

// IssueSession creates and persists a session for a known user.
func (s *AuthService) IssueSession(ctx context.Context, in IssueSessionInput) (*domainauth.Session, error) {
	if s.sessions == nil {
		return nil, errors.New("session store is not configured")
	}
	if in.UserID == "" {
		return nil, errors.New("user ID is required")
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	sess := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    in.UserID,
		Email:     in.Email,
		Role:      in.Role,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// GetSession retrieves a session by ID, deleting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if s.sessions == nil {
		return nil, errors.New("session store is not configured")
	}
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" || s.sessions == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID creates a random session ID.
func generateSessionID() string {
	return uuid.New().String()
}

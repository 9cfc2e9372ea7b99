package redis

// Package redis provides Redis-backed adapters: sessions and lifecycle event pub/sub.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
)

// DefaultSessionPrefix namespaces session keys.
const DefaultSessionPrefix = "fleet-alerts:session:"

// ErrNotFound is returned when a session is missing or expired.
var ErrNotFound = errors.New("session not found")

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	Prefix string           // Optional: defaults to DefaultSessionPrefix
	Now    func() time.Time // Optional: defaults to time.Now
}

// SessionStore keeps sessions as JSON values whose Redis TTL tracks ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	s := &SessionStore{client: client, prefix: opts.Prefix, now: opts.Now}
	if s.prefix == "" {
		s.prefix = DefaultSessionPrefix
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// sessionRecord is the stored representation; Actor fields are flattened for other readers.
type sessionRecord struct {
	UserID    string          `json:"user_id"`
	Email     string          `json:"email,omitempty"`
	Role      domainauth.Role `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save stores the session until its expiry. Expired sessions are rejected.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if !sess.Role.Valid() {
		return fmt.Errorf("invalid session role %q", sess.Role)
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sessionRecord{
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		ExpiresAt: sess.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get loads a session. Missing and expired sessions both return ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domainauth.Session{}, ErrNotFound
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if !s.now().Before(rec.ExpiresAt) {
		if delErr := s.Delete(ctx, id); delErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", delErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return domainauth.Session{
		ID:        id,
		UserID:    rec.UserID,
		Email:     rec.Email,
		Role:      rec.Role,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Delete removes a session; deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

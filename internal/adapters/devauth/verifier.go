package devauth

// Package devauth provides a config-driven TokenVerifier for local development.

import (
	"context"
	"errors"
	"strings"
	"time"

	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
)

// TokenPrefix marks ad-hoc dev tokens of the form "dev:<user>[:<group>,<group>]".
const TokenPrefix = "dev:"

// ErrInvalidToken is returned for tokens the dev verifier does not recognize.
var ErrInvalidToken = errors.New("dev auth: invalid token")

// Config controls the dev verifier behavior.
// Token and UserID are required; Groups may be empty.
type Config struct {
	Token           string
	UserID          string
	Email           string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
}

// Verifier accepts the configured static token, plus "dev:" tokens naming any user.
// It must never be wired outside AUTH_MODE=mock.
type Verifier struct {
	token    string
	identity domainauth.Identity
	ttl      time.Duration
}

// NewVerifier constructs a dev verifier from Config.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Token == "" {
		return nil, errors.New("dev auth: Token is required")
	}
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	ttl := cfg.SessionDuration
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	return &Verifier{
		token: cfg.Token,
		identity: domainauth.Identity{
			UserID: cfg.UserID,
			Email:  cfg.Email,
			Groups: append([]string(nil), cfg.Groups...),
		},
		ttl: ttl,
	}, nil
}

// Verify returns the configured identity for the static token, or parses a "dev:" token.
func (v *Verifier) Verify(_ context.Context, rawToken string) (domainauth.Identity, error) {
	if rawToken == v.token {
		id := v.identity
		id.ExpiresAt = time.Now().Add(v.ttl)
		return id, nil
	}

	rest, ok := strings.CutPrefix(rawToken, TokenPrefix)
	if !ok {
		return domainauth.Identity{}, ErrInvalidToken
	}
	user, groups, _ := strings.Cut(rest, ":")
	user = strings.TrimSpace(user)
	if user == "" {
		return domainauth.Identity{}, ErrInvalidToken
	}

	id := domainauth.Identity{
		UserID:    user,
		Email:     user + "@dev.local",
		ExpiresAt: time.Now().Add(v.ttl),
	}
	for _, g := range strings.Split(groups, ",") {
		if g = strings.TrimSpace(g); g != "" {
			id.Groups = append(id.Groups, g)
		}
	}
	return id, nil
}

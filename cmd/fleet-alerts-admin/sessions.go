package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/fleet-alerts/internal/adapters/authroles"
	redisadapter "github.com/target/fleet-alerts/internal/adapters/redis"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	httpx "github.com/target/fleet-alerts/internal/http"
	"github.com/target/fleet-alerts/internal/service"
)

type sessionIssueOptions struct {
	UserID  string
	Email   string
	Role    domainauth.Role
	TTL     time.Duration
	Timeout time.Duration
}

func runSessionIssue(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionIssueFlags(args, cmdCtx.Config.Auth.SessionTTL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	client, err := maybeConnectRedis(ctx, cmdCtx)
	if err != nil {
		return err
	}
	if client == nil {
		return errors.New("session-issue requires redis configuration")
	}
	defer closeRedis(cmdCtx, client)

	sess, err := newSessionAuthService(cmdCtx, client).IssueSession(ctx, service.IssueSessionInput{
		UserID: opts.UserID,
		Email:  opts.Email,
		Role:   opts.Role,
		TTL:    opts.TTL,
	})
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}

	if err := writef(cmdCtx.Out, "Session for %s (%s) expires %s\n", sess.UserID, sess.Role, sess.ExpiresAt.Format(time.RFC3339)); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "Cookie: %s=%s\n", httpx.SessionCookieName, sess.ID)
}

func parseSessionIssueFlags(args []string, defaultTTL time.Duration) (sessionIssueOptions, error) {
	fs := flag.NewFlagSet("session-issue", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if defaultTTL <= 0 {
		defaultTTL = service.DefaultSessionTTL
	}
	opts := sessionIssueOptions{TTL: defaultTTL, Timeout: defaultCommandTimeout}
	role := string(domainauth.RoleUser)

	fs.StringVar(&opts.UserID, "user", "", "User ID the session belongs to")
	fs.StringVar(&opts.Email, "email", "", "Optional email recorded on the session")
	fs.StringVar(&role, "role", role, "Role: admin, user or guest")
	fs.DurationVar(&opts.TTL, "ttl", defaultTTL, "Session lifetime")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Timeout for redis operations")

	if err := fs.Parse(args); err != nil {
		return sessionIssueOptions{}, err
	}

	opts.UserID = strings.TrimSpace(opts.UserID)
	opts.Email = strings.TrimSpace(opts.Email)
	opts.Role = domainauth.Role(strings.ToLower(strings.TrimSpace(role)))

	if opts.UserID == "" {
		return sessionIssueOptions{}, errors.New("--user is required")
	}
	if !opts.Role.Valid() {
		return sessionIssueOptions{}, fmt.Errorf("invalid role %q", role)
	}
	if opts.TTL <= 0 {
		return sessionIssueOptions{}, errors.New("--ttl must be greater than zero")
	}
	if err := positiveTimeout(opts.Timeout); err != nil {
		return sessionIssueOptions{}, err
	}
	return opts, nil
}

func newSessionAuthService(cmdCtx *commandContext, client redis.UniversalClient) *service.AuthService {
	return service.NewAuthService(service.AuthServiceOptions{
		Sessions: redisadapter.NewSessionStore(client, redisadapter.SessionStoreOptions{
			Prefix: cmdCtx.Config.Redis.SessionPrefix,
		}),
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cmdCtx.Config.Auth.AdminGroup,
			UserGroup:  cmdCtx.Config.Auth.UserGroup,
		},
	})
}

type sessionRevokeOptions struct {
	SessionID string
	Timeout   time.Duration
}

// runSessionRevoke deletes a session so its cookie stops authenticating.
func runSessionRevoke(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionRevokeFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	client, err := maybeConnectRedis(ctx, cmdCtx)
	if err != nil {
		return err
	}
	if client == nil {
		return errors.New("session-revoke requires redis configuration")
	}
	defer closeRedis(cmdCtx, client)

	if err := newSessionAuthService(cmdCtx, client).Logout(ctx, opts.SessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return writef(cmdCtx.Out, "Session %s revoked\n", opts.SessionID)
}

func parseSessionRevokeFlags(args []string) (sessionRevokeOptions, error) {
	fs := flag.NewFlagSet("session-revoke", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := sessionRevokeOptions{Timeout: defaultCommandTimeout}
	fs.StringVar(&opts.SessionID, "id", "", "Session ID (the session_id cookie value)")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Timeout for redis operations")

	if err := fs.Parse(args); err != nil {
		return sessionRevokeOptions{}, err
	}

	opts.SessionID = strings.TrimSpace(opts.SessionID)
	if opts.SessionID == "" {
		return sessionRevokeOptions{}, errors.New("--id is required")
	}
	if err := positiveTimeout(opts.Timeout); err != nil {
		return sessionRevokeOptions{}, err
	}
	return opts, nil
}

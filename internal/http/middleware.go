package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	apperrors "github.com/target/fleet-alerts/internal/errors"
	"github.com/target/fleet-alerts/internal/service"
)

// SessionCookieName is the cookie carrying an opaque session id.
const SessionCookieName = "session_id"

// Authenticator resolves request credentials to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, creds service.Credentials) (*domainauth.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus, ctx: r.Context()}
			next.ServeHTTP(ww, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			}
			if actor, ok := ActorFromContext(ww.ctx); ok {
				attrs = append(attrs, slog.String("actor_id", actor.ID))
			}
			logger.Info("http", attrs...)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
	// ctx is the request context as seen by the innermost handler that set it.
	ctx context.Context
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, ErrorParams{
						Code:    http.StatusInternalServerError,
						ErrCode: string(apperrors.ErrCodeStore),
						Err:     errors.New("internal server error"),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireActor returns a middleware that requires an authenticated, non-guest caller.
// Missing or invalid credentials get 401; guest sessions get 403.
func RequireActor(authSvc Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authSvc.Authenticate(r.Context(), credentialsFromRequest(r))
			if err != nil || session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: string(apperrors.ErrCodeUnauthorized),
					Err:     errors.New("authentication required"),
				})
				return
			}

			if session.IsGuest() {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: string(apperrors.ErrCodeForbidden),
					Err:     errors.New("insufficient permissions"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			if ww, ok := w.(*respWriter); ok {
				ww.ctx = ctx
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// credentialsFromRequest extracts a bearer token and the session cookie.
func credentialsFromRequest(r *http.Request) service.Credentials {
	var creds service.Credentials
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			creds.BearerToken = strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		creds.SessionID = c.Value
	}
	return creds
}

package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	authmocks "github.com/target/fleet-alerts/internal/mocks/auth"
	"github.com/target/fleet-alerts/internal/service"
)

func newTestAuth(t *testing.T) (*service.AuthService, *authmocks.MemorySessionStore) {
	t.Helper()
	verifier := authmocks.NewStaticVerifier().
		Add("owner-token", "u1", "fleet-users").
		Add("other-token", "u2", "fleet-users").
		Add("admin-token", "root", "fleet-admins").
		Add("guest-token", "visitor")
	sessions := authmocks.NewMemorySessionStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Verifier: verifier,
		Sessions: sessions,
		Roles:    authmocks.StaticRoleMapper{AdminGroup: "fleet-admins", UserGroup: "fleet-users"},
	})
	return svc, sessions
}

func TestRequireActor(t *testing.T) {
	authSvc, _ := newTestAuth(t)

	var seen domainauth.Actor
	h := RequireActor(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{name: "no credentials", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "unknown token", headers: Bearer("nope"), wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "wrong scheme", headers: map[string]string{"Authorization": "Basic owner-token"}, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "guest", headers: Bearer("guest-token"), wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "user", headers: Bearer("owner-token"), wantStatus: http.StatusNoContent},
		{name: "scheme is case-insensitive", headers: map[string]string{"Authorization": "bearer admin-token"}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := DoJSON(t, h, http.MethodGet, "/alerts", nil, tt.headers)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				body := DecodeBody[ErrorBody](t, rec)
				assert.Equal(t, tt.wantCode, body.Error)
			}
		})
	}

	rec := DoJSON(t, h, http.MethodGet, "/alerts", nil, Bearer("owner-token"))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domainauth.Actor{ID: "u1", Role: domainauth.RoleUser}, seen)
}

func TestRequireActor_SessionCookie(t *testing.T) {
	authSvc, _ := newTestAuth(t)
	sess, err := authSvc.IssueSession(context.Background(), service.IssueSessionInput{
		UserID: "u1",
		Role:   domainauth.RoleUser,
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	h := RequireActor(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "u1", actor.ID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/alerts", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "missing"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := DoJSON(t, h, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := DecodeBody[ErrorBody](t, rec)
	assert.Equal(t, "store_error", body.Error)
	assert.NotContains(t, rec.Body.String(), "boom")
}

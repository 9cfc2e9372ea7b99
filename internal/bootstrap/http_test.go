package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/fleet-alerts/config"
	httpx "github.com/target/fleet-alerts/internal/http"
)

func TestServe_HealthAndGracefulShutdown(t *testing.T) {
	logger := discardLogger()
	httpCfg := config.HTTPConfig{
		Addr:              "127.0.0.1:0",
		MaxConns:          4,
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := Listen(ctx, httpCfg.Addr, httpCfg.MaxConns)
	require.NoError(t, err)

	server := NewHTTPServer(&HTTPServerConfig{
		HTTP:   httpCfg,
		Router: httpx.RouterServices{Logger: logger},
		Logger: logger,
	})
	assert.Equal(t, time.Second, server.ReadHeaderTimeout)

	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, ln, httpCfg, logger) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewHTTPServer_DefaultAddr(t *testing.T) {
	server := NewHTTPServer(&HTTPServerConfig{})
	assert.Equal(t, ":8080", server.Addr)
}

func TestRunHTTPServer_NilConfig(t *testing.T) {
	require.Error(t, RunHTTPServer(context.Background(), nil))
}

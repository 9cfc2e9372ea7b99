package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/target/fleet-alerts/config"
	httpx "github.com/target/fleet-alerts/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	HTTP   config.HTTPConfig
	Router httpx.RouterServices
	Logger *slog.Logger
}

// NewHTTPServer builds the server with the configured timeouts.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	addr := cfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           httpx.NewRouter(cfg.Router),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
}

// Listen opens the TCP listener, capping concurrent connections when MaxConns > 0.
func Listen(ctx context.Context, addr string, maxConns int) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}
	return ln, nil
}

// RunHTTPServer serves the API until ctx is cancelled, then shuts down
// gracefully within HTTP.ShutdownTimeout.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	if cfg == nil {
		return errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := NewHTTPServer(cfg)
	ln, err := Listen(ctx, server.Addr, cfg.HTTP.MaxConns)
	if err != nil {
		return err
	}
	return serve(ctx, server, ln, cfg.HTTP, logger)
}

func serve(ctx context.Context, server *http.Server, ln net.Listener, cfg config.HTTPConfig, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", ln.Addr().String(), "max_conns", cfg.MaxConns)
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	return ShutdownHTTPServer(ShutdownConfig{
		Server:  server,
		Timeout: cfg.ShutdownTimeout,
		Logger:  logger,
	})
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server  *http.Server
	Timeout time.Duration // defaults to 10s when zero
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// The parent context is already cancelled; shutdown gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}

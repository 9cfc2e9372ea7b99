package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const healthResponse = `{"status":"ok"}`

// readyTimeout bounds the dependency check behind /readyz.
const readyTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// readyHandler returns 200 when every pinger answers and 503 otherwise.
func readyHandler(logger *slog.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := make(map[string]string, len(pingers))
		status := http.StatusOK
		for name, p := range pingers {
			if err := p.PingContext(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "unavailable"
		}
		WriteJSON(w, status, map[string]any{"status": state, "checks": checks})
	}
}

package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Alerts AlertsService
	Auth   Authenticator
	// Ready lists dependencies checked by /readyz, keyed by name.
	Ready  map[string]Pinger
	Logger *slog.Logger // Logger for request and error logs (optional)
}

// NewRouter creates and configures the HTTP router with logging and panic recovery.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(logger, services.Ready))

	alertHandlers := &AlertHandlers{Svc: services.Alerts, Logger: logger}
	registerAlertRoutes(mux, alertHandlers, services.Auth)

	return Logging(logger)(Recover(logger)(mux))
}

// registerAlertRoutes wires the alert API behind RequireActor.
func registerAlertRoutes(mux *http.ServeMux, h *AlertHandlers, authSvc Authenticator) {
	protect := RequireActor(authSvc)

	mux.Handle("GET /alerts", protect(http.HandlerFunc(h.List)))
	mux.Handle("POST /alerts", protect(http.HandlerFunc(h.Create)))
	mux.Handle("POST /alerts/bulk-acknowledge", protect(http.HandlerFunc(h.BulkAcknowledge)))
	mux.Handle("GET /alerts/{id}", protect(http.HandlerFunc(h.Get)))
	mux.Handle("POST /alerts/{id}/acknowledge", protect(http.HandlerFunc(h.Acknowledge)))
	mux.Handle("POST /alerts/{id}/resolve", protect(http.HandlerFunc(h.Resolve)))
}

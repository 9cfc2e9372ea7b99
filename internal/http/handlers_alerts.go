// Package httpx provides the JSON API for the fleet alert engine.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/domain/model"
	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// AlertsService is the alert lifecycle as seen by the HTTP layer.
type AlertsService interface {
	List(ctx context.Context, actor domainauth.Actor, params model.AlertListParams) (*model.AlertListResult, error)
	Get(ctx context.Context, actor domainauth.Actor, id string) (*model.Alert, error)
	Create(ctx context.Context, actor domainauth.Actor, req model.CreateAlertRequest) (*model.Alert, error)
	Acknowledge(ctx context.Context, actor domainauth.Actor, id string) (*model.Alert, error)
	Resolve(ctx context.Context, actor domainauth.Actor, id string, req model.ResolveAlertRequest) (*model.Alert, error)
	BulkAcknowledge(ctx context.Context, actor domainauth.Actor, req model.BulkAcknowledgeRequest) (*model.BulkAcknowledgeResult, error)
}

// AlertHandlers provides HTTP handlers for alert operations.
type AlertHandlers struct {
	Svc    AlertsService
	Logger *slog.Logger
}

// List handles GET /alerts.
func (h *AlertHandlers) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	params, err := model.ParseAlertListQuery(alertListQueryFromRequest(r))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	res, err := h.Svc.List(r.Context(), actor, params)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// Get handles GET /alerts/{id}.
func (h *AlertHandlers) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	alert, err := h.Svc.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, alert)
}

// Create handles POST /alerts.
func (h *AlertHandlers) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.CreateAlertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	alert, err := h.Svc.Create(r.Context(), actor, req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, alert)
}

// Acknowledge handles POST /alerts/{id}/acknowledge.
func (h *AlertHandlers) Acknowledge(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	alert, err := h.Svc.Acknowledge(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, alert)
}

// Resolve handles POST /alerts/{id}/resolve. The body is optional.
func (h *AlertHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.ResolveAlertRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}

	alert, err := h.Svc.Resolve(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, alert)
}

// BulkAcknowledge handles POST /alerts/bulk-acknowledge.
func (h *AlertHandlers) BulkAcknowledge(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req model.BulkAcknowledgeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.Svc.BulkAcknowledge(r.Context(), actor, req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// actor returns the caller set by RequireActor.
func (h *AlertHandlers) actor(w http.ResponseWriter, r *http.Request) (domainauth.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: string(apperrors.ErrCodeUnauthorized),
			Err:     errors.New("authentication required"),
		})
		return domainauth.Actor{}, false
	}
	return actor, true
}

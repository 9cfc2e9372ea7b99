package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/fleet-alerts/internal/core"
	"github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/domain/model"
	apperrors "github.com/target/fleet-alerts/internal/errors"
	"github.com/target/fleet-alerts/internal/observability/metrics"
	"github.com/target/fleet-alerts/internal/observability/statsd"
)

// Messages returned to callers for authorization and bulk failures.
const (
	msgAlertForbidden  = "You do not have permission to access this alert"
	msgDeviceForbidden = "You do not have permission to create alerts for this device"
	msgBulkMismatch    = "Some alerts were not found, are not owned by you, or are not active"
)

const eventPublishTimeout = 5 * time.Second

// AlertServiceOptions groups dependencies for AlertService.
type AlertServiceOptions struct {
	Alerts  core.AlertRepository     // Required: alert repository
	Devices core.DeviceRepository    // Required: device owner lookups
	Events  core.AlertEventPublisher // Optional: lifecycle fan-out
	Metrics statsd.Sink              // Optional: metrics sink (StatsD-compatible)
	Clock   core.TimeProvider        // Optional: defaults to core.RealTimeProvider
	Logger  *slog.Logger             // Optional: structured logger
}

// AlertService runs the alert lifecycle: validation, existence lookup,
// authorization and the ACTIVE → ACKNOWLEDGED → RESOLVED state machine.
//
// Every operation checks existence before authorization, so a caller learns an
// alert is missing (not_found) before learning it belongs to someone else (forbidden).
// Lifecycle events are published only after the store has committed the change.
type AlertService struct {
	alerts  core.AlertRepository
	devices core.DeviceRepository
	events  core.AlertEventPublisher
	metrics statsd.Sink
	clock   core.TimeProvider
	logger  *slog.Logger
}

// NewAlertService constructs a new AlertService.
func NewAlertService(opts AlertServiceOptions) (*AlertService, error) {
	if opts.Alerts == nil {
		return nil, errors.New("AlertRepository is required")
	}
	if opts.Devices == nil {
		return nil, errors.New("DeviceRepository is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	events := opts.Events
	if events == nil {
		events = core.NoopPublisher{}
	}

	logger.Info("AlertService initialized",
		"has_metrics", opts.Metrics != nil,
		"has_events", opts.Events != nil)

	return &AlertService{
		alerts:  opts.Alerts,
		devices: opts.Devices,
		events:  events,
		metrics: opts.Metrics,
		clock:   clock,
		logger:  logger.With("component", "alert_service"),
	}, nil
}

// MustNewAlertService constructs a new AlertService and panics on error.
func MustNewAlertService(opts AlertServiceOptions) *AlertService {
	svc, err := NewAlertService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// List returns one page of alerts visible to actor. Non-admins only see alerts they own.
// The total count and the page are fetched concurrently.
func (s *AlertService) List(ctx context.Context, actor auth.Actor, params model.AlertListParams) (*model.AlertListResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	filter := core.AlertListFilter{
		Status:   params.Status,
		Severity: params.Severity,
		DeviceID: params.DeviceID,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	}
	if !actor.IsAdmin() {
		owner := actor.ID
		filter.UserID = &owner
	}

	var (
		total  int
		alerts []*model.Alert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.alerts.Count(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		page, err := s.alerts.List(gctx, filter)
		alerts = page
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	if alerts == nil {
		alerts = []*model.Alert{}
	}
	s.emitList(actor, params, total)

	return &model.AlertListResult{
		Alerts:     alerts,
		Pagination: model.NewPagination(total, params.Page, params.Limit),
	}, nil
}

// Get returns a single alert with its device projection.
func (s *AlertService) Get(ctx context.Context, actor auth.Actor, id string) (*model.Alert, error) {
	alert, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// Create raises a new ACTIVE alert against a device owned by actor (or any device for admins).
// An ACTIVE or ACKNOWLEDGED alert with the same device and title is reported as a duplicate.
func (s *AlertService) Create(ctx context.Context, actor auth.Actor, req model.CreateAlertRequest) (*model.Alert, error) {
	start := s.clock.Now()
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.emit(metrics.TransitionCreate, string(req.Severity), start, err)
		return nil, err
	}

	alert, err := s.create(ctx, actor, req)
	s.emit(metrics.TransitionCreate, string(req.Severity), start, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "alert created",
		"alert_id", alert.ID,
		"device_id", alert.DeviceID,
		"severity", alert.Severity,
		"actor_id", actor.ID)
	s.publish(ctx, model.NewAlertEvent(model.AlertEventCreated, alert, actor.ID))
	return alert, nil
}

func (s *AlertService) create(ctx context.Context, actor auth.Actor, req model.CreateAlertRequest) (*model.Alert, error) {
	device, err := s.devices.GetByID(ctx, req.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}
	if !auth.Authorize(actor, device.UserID) {
		return nil, apperrors.Forbidden(msgDeviceForbidden)
	}

	existing, err := s.alerts.FindOpenDuplicate(ctx, req.DeviceID, req.Title)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Duplicate("An open alert with this title already exists for the device.")
	}

	alert, err := s.alerts.Create(ctx, core.CreateAlertParams{
		Request: req,
		UserID:  device.UserID,
		At:      s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	if alert.Device == nil {
		alert.Device = device.Summary()
	}
	return alert, nil
}

// Acknowledge moves an ACTIVE alert to ACKNOWLEDGED.
func (s *AlertService) Acknowledge(ctx context.Context, actor auth.Actor, id string) (*model.Alert, error) {
	start := s.clock.Now()
	alert, err := s.acknowledge(ctx, actor, id)
	s.emit(metrics.TransitionAcknowledge, severityOf(alert), start, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "alert acknowledged", "alert_id", alert.ID, "actor_id", actor.ID)
	s.publish(ctx, model.NewAlertEvent(model.AlertEventAcknowledged, alert, actor.ID))
	return alert, nil
}

func (s *AlertService) acknowledge(ctx context.Context, actor auth.Actor, id string) (*model.Alert, error) {
	current, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanAcknowledge() {
		return nil, apperrors.StateConflict(current.Status.AcknowledgeConflict())
	}

	res, err := s.alerts.TryAcknowledge(ctx, current.ID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}
	if !res.Applied {
		// Another caller moved the alert between the read and the conditional update.
		return nil, apperrors.StateConflict(res.Current.AcknowledgeConflict())
	}
	return res.Alert, nil
}

// Resolve moves an ACTIVE or ACKNOWLEDGED alert to RESOLVED, attaching optional notes.
func (s *AlertService) Resolve(ctx context.Context, actor auth.Actor, id string, req model.ResolveAlertRequest) (*model.Alert, error) {
	start := s.clock.Now()
	alert, err := s.resolve(ctx, actor, id, req)
	s.emit(metrics.TransitionResolve, severityOf(alert), start, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "alert resolved",
		"alert_id", alert.ID,
		"actor_id", actor.ID,
		"has_notes", alert.ResolutionNotes != nil)
	s.publish(ctx, model.NewAlertEvent(model.AlertEventResolved, alert, actor.ID))
	return alert, nil
}

func (s *AlertService) resolve(ctx context.Context, actor auth.Actor, id string, req model.ResolveAlertRequest) (*model.Alert, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanResolve() {
		return nil, apperrors.StateConflict(current.Status.ResolveConflict())
	}

	res, err := s.alerts.TryResolve(ctx, core.ResolveParams{
		ID:    current.ID,
		Notes: req.ResolutionNotes,
		At:    s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	if !res.Applied {
		return nil, apperrors.StateConflict(res.Current.ResolveConflict())
	}
	return res.Alert, nil
}

// BulkAcknowledge acknowledges every listed alert or none of them. Non-admin actors
// may only include alerts they own; any missing, foreign or non-ACTIVE id fails the
// whole batch with a single state_conflict.
func (s *AlertService) BulkAcknowledge(ctx context.Context, actor auth.Actor, req model.BulkAcknowledgeRequest) (*model.BulkAcknowledgeResult, error) {
	start := s.clock.Now()
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.emit(metrics.TransitionBulkAcknowledge, "", start, err)
		return nil, err
	}

	params := core.BulkAcknowledgeParams{IDs: req.AlertIDs, At: s.clock.Now()}
	if !actor.IsAdmin() {
		owner := actor.ID
		params.OwnerID = &owner
	}

	updated, err := s.alerts.BulkAcknowledge(ctx, params)
	if errors.Is(err, core.ErrBulkPreconditionFailed) {
		s.logger.InfoContext(ctx, "bulk acknowledge rejected",
			"actor_id", actor.ID,
			"requested", len(req.AlertIDs),
			"reason", err.Error())
		err = apperrors.StateConflict(msgBulkMismatch)
	} else if err != nil {
		err = fmt.Errorf("bulk acknowledge: %w", err)
	}
	s.emit(metrics.TransitionBulkAcknowledge, "", start, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "alerts bulk acknowledged", "actor_id", actor.ID, "count", len(updated))
	for _, a := range updated {
		s.publish(ctx, model.NewAlertEvent(model.AlertEventAcknowledged, a, actor.ID))
	}

	return &model.BulkAcknowledgeResult{
		Message:           fmt.Sprintf("%d alerts acknowledged", len(updated)),
		AcknowledgedCount: len(updated),
	}, nil
}

// loadAuthorized validates the id, loads the alert and applies the guard, in that order.
func (s *AlertService) loadAuthorized(ctx context.Context, actor auth.Actor, id string) (*model.Alert, error) {
	if !model.ValidIdentifier(id) {
		return nil, apperrors.ValidationField("id", "id must be a valid identifier")
	}
	alert, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load alert: %w", err)
	}
	if !auth.Authorize(actor, alert.UserID) {
		return nil, apperrors.Forbidden(msgAlertForbidden)
	}
	return alert, nil
}

// publish hands an event to the fan-out. The mutation is already committed, so
// the send outlives a cancelled request (bounded by eventPublishTimeout) and
// failures are logged and never returned.
func (s *AlertService) publish(ctx context.Context, event model.AlertEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := s.events.Publish(pubCtx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish alert event",
			"type", event.Type,
			"alert_id", event.AlertID,
			"error", err)
	}
}

func (s *AlertService) emit(transition, severity string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitAlertTransition(s.metrics, metrics.AlertMetric{
		Transition: transition,
		Result:     result,
		Severity:   severity,
		Duration:   s.clock.Now().Sub(start),
		Err:        err,
	})
}

func (s *AlertService) emitList(actor auth.Actor, params model.AlertListParams, total int) {
	if s.metrics == nil {
		return
	}
	in := metrics.AlertListMetric{Scope: metrics.ScopeOwner, Total: total}
	if actor.IsAdmin() {
		in.Scope = metrics.ScopeAll
	}
	if params.Status != nil {
		in.Status = string(*params.Status)
	}
	metrics.EmitAlertList(s.metrics, in)
}

func severityOf(a *model.Alert) string {
	if a == nil {
		return ""
	}
	return string(a.Severity)
}

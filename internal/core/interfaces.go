package core

import (
	"context"
	"errors"
	"time"

	"github.com/target/fleet-alerts/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Implementations translate store failures into internal/errors codes before returning.

// ErrBulkPreconditionFailed is returned by BulkAcknowledge when fewer alerts
// qualify than were requested. No alert is changed when it is returned.
var ErrBulkPreconditionFailed = errors.New("bulk acknowledge precondition failed")

// CreateAlertParams groups the inputs for AlertRepository.Create.
type CreateAlertParams struct {
	Request model.CreateAlertRequest
	// UserID is the owner copied from the device.
	UserID string
	At     time.Time
}

// AlertListFilter narrows a list or count query. Nil fields do not filter.
type AlertListFilter struct {
	UserID   *string
	Status   *model.AlertStatus
	Severity *model.AlertSeverity
	DeviceID *string
	Limit    int
	Offset   int
}

// TransitionResult reports the outcome of a conditional transition.
// When Applied is false, Alert holds the unchanged row and Current its status.
type TransitionResult struct {
	Alert   *model.Alert
	Applied bool
	Current model.AlertStatus
}

// ResolveParams groups the inputs for AlertRepository.TryResolve.
type ResolveParams struct {
	ID    string
	Notes *string
	At    time.Time
}

// BulkAcknowledgeParams groups the inputs for AlertRepository.BulkAcknowledge.
type BulkAcknowledgeParams struct {
	IDs []string
	// OwnerID restricts the batch to one owner; nil means any owner (admin).
	OwnerID *string
	At      time.Time
}

// AlertRepository defines the interface for alert data operations.
// Every transition is a single conditional operation so that concurrent callers
// cannot both observe and act on the same prior status.
type AlertRepository interface {
	GetByID(ctx context.Context, id string) (*model.Alert, error)
	// FindOpenDuplicate returns the ACTIVE or ACKNOWLEDGED alert for the pair, or nil.
	FindOpenDuplicate(ctx context.Context, deviceID, title string) (*model.Alert, error)
	Create(ctx context.Context, params CreateAlertParams) (*model.Alert, error)
	List(ctx context.Context, filter AlertListFilter) ([]*model.Alert, error)
	Count(ctx context.Context, filter AlertListFilter) (int, error)
	// TryAcknowledge moves ACTIVE → ACKNOWLEDGED only if the alert is still ACTIVE.
	TryAcknowledge(ctx context.Context, id string, at time.Time) (TransitionResult, error)
	// TryResolve moves ACTIVE|ACKNOWLEDGED → RESOLVED only if the alert is not RESOLVED yet.
	TryResolve(ctx context.Context, params ResolveParams) (TransitionResult, error)
	// BulkAcknowledge acknowledges every id atomically or none of them.
	BulkAcknowledge(ctx context.Context, params BulkAcknowledgeParams) ([]*model.Alert, error)
}

// DeviceRepository reads the externally owned device references.
type DeviceRepository interface {
	GetByID(ctx context.Context, id string) (*model.Device, error)
	Upsert(ctx context.Context, req model.UpsertDeviceRequest) (*model.Device, error)
}

// AlertEventPublisher hands committed lifecycle events to the real-time fan-out.
type AlertEventPublisher interface {
	Publish(ctx context.Context, event model.AlertEvent) error
}

//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strconv"
	"strings"
	"time"
)

// Field limits for alert content.
const (
	MaxAlertTitleLength   = 255
	MaxAlertMessageLength = 1000
	MaxResolutionNotes    = 1000
)

// Alert represents an abnormal condition raised against a device.
type Alert struct {
	ID              string        `json:"id"                        db:"id"`
	DeviceID        string        `json:"deviceId"                  db:"device_id"`
	UserID          string        `json:"userId"                    db:"user_id"`
	Title           string        `json:"title"                     db:"title"`
	Message         string        `json:"message"                   db:"message"`
	Severity        AlertSeverity `json:"severity"                  db:"severity"`
	Status          AlertStatus   `json:"status"                    db:"status"`
	CreatedAt       time.Time     `json:"createdAt"                 db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt"                 db:"updated_at"`
	AcknowledgedAt  *time.Time    `json:"acknowledgedAt,omitempty"  db:"acknowledged_at"`
	ResolvedAt      *time.Time    `json:"resolvedAt,omitempty"      db:"resolved_at"`
	ResolutionNotes *string       `json:"resolutionNotes,omitempty" db:"resolution_notes"`

	// Device is the owning device projection attached on reads.
	Device *DeviceSummary `json:"device,omitempty" db:"-"`
}

// IsOpen reports whether the alert still counts toward duplicate suppression.
func (a *Alert) IsOpen() bool {
	return a.Status == AlertStatusActive || a.Status == AlertStatusAcknowledged
}

// AlertStatus drives the alert state machine.
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "ACTIVE"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// AlertStatuses lists every status in lifecycle order.
func AlertStatuses() []AlertStatus {
	return []AlertStatus{AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved}
}

// Valid returns true if the status is one of the lifecycle states.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert status.
func (s AlertStatus) String() string {
	return string(s)
}

// CanAcknowledge reports whether acknowledge is a legal transition from s.
func (s AlertStatus) CanAcknowledge() bool {
	return s == AlertStatusActive
}

// CanResolve reports whether resolve is a legal transition from s.
// Both ACTIVE and ACKNOWLEDGED may be resolved directly.
func (s AlertStatus) CanResolve() bool {
	return s == AlertStatusActive || s == AlertStatusAcknowledged
}

// AcknowledgeConflict returns the reason acknowledge is refused from s.
func (s AlertStatus) AcknowledgeConflict() string {
	switch s {
	case AlertStatusAcknowledged:
		return "Alert is already acknowledged"
	case AlertStatusResolved:
		return "Cannot acknowledge a resolved alert"
	default:
		return "Alert cannot be acknowledged in status " + string(s)
	}
}

// ResolveConflict returns the reason resolve is refused from s.
func (s AlertStatus) ResolveConflict() string {
	if s == AlertStatusResolved {
		return "Alert is already resolved"
	}
	return "Alert cannot be resolved in status " + string(s)
}

// ParseAlertStatus parses a status case-insensitively.
func ParseAlertStatus(v string) (AlertStatus, bool) {
	s := AlertStatus(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}

// AlertSeverity represents the severity level of an alert.
type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "LOW"
	AlertSeverityMedium   AlertSeverity = "MEDIUM"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

// AlertSeverities lists every severity from lowest to highest.
func AlertSeverities() []AlertSeverity {
	return []AlertSeverity{AlertSeverityLow, AlertSeverityMedium, AlertSeverityHigh, AlertSeverityCritical}
}

// Valid returns true if the alert severity is valid.
func (s AlertSeverity) Valid() bool {
	switch s {
	case AlertSeverityLow, AlertSeverityMedium, AlertSeverityHigh, AlertSeverityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert severity.
func (s AlertSeverity) String() string {
	return string(s)
}

// ParseAlertSeverity parses a severity case-insensitively.
func ParseAlertSeverity(v string) (AlertSeverity, bool) {
	s := AlertSeverity(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}

// CreateAlertRequest represents a request to raise a new alert against a device.
type CreateAlertRequest struct {
	DeviceID string        `json:"deviceId"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Severity AlertSeverity `json:"severity"`
}

// Normalize trims text fields and upper-cases the severity.
func (r *CreateAlertRequest) Normalize() {
	r.DeviceID = strings.TrimSpace(r.DeviceID)
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	r.Severity = AlertSeverity(strings.ToUpper(strings.TrimSpace(string(r.Severity))))
}

// Validate reports every invalid field of the request.
func (r *CreateAlertRequest) Validate() error {
	var fe fieldErrors
	fe.identifier("deviceId", r.DeviceID)
	fe.requiredText("title", r.Title, MaxAlertTitleLength)
	fe.requiredText("message", r.Message, MaxAlertMessageLength)
	switch {
	case r.Severity == "":
		fe.add("severity", "severity is required")
	case !r.Severity.Valid():
		fe.add("severity", "%s", oneOfMessage("severity", AlertSeverities()))
	}
	return fe.err()
}

// ResolveAlertRequest carries optional notes attached when an alert is resolved.
type ResolveAlertRequest struct {
	ResolutionNotes *string `json:"resolutionNotes,omitempty"`
}

// Normalize trims notes and drops them when blank.
func (r *ResolveAlertRequest) Normalize() {
	if r.ResolutionNotes == nil {
		return
	}
	v := strings.TrimSpace(*r.ResolutionNotes)
	if v == "" {
		r.ResolutionNotes = nil
		return
	}
	r.ResolutionNotes = &v
}

// Validate checks the notes length.
func (r *ResolveAlertRequest) Validate() error {
	var fe fieldErrors
	fe.optionalText("resolutionNotes", r.ResolutionNotes, MaxResolutionNotes)
	return fe.err()
}

// BulkAcknowledge limits.
const (
	MinBulkAlertIDs = 1
	MaxBulkAlertIDs = 50
)

// BulkAcknowledgeRequest names the alerts to acknowledge as one unit.
type BulkAcknowledgeRequest struct {
	AlertIDs []string `json:"alertIds"`
}

// Normalize trims every id into a fresh slice so the caller's ids stay untouched.
func (r *BulkAcknowledgeRequest) Normalize() {
	if r.AlertIDs == nil {
		return
	}
	ids := make([]string, len(r.AlertIDs))
	for i, id := range r.AlertIDs {
		ids[i] = strings.TrimSpace(id)
	}
	r.AlertIDs = ids
}

// Validate checks the batch size, id shape and uniqueness.
func (r *BulkAcknowledgeRequest) Validate() error {
	var fe fieldErrors
	if n := len(r.AlertIDs); n < MinBulkAlertIDs || n > MaxBulkAlertIDs {
		fe.add("alertIds", "alertIds must contain between %d and %d ids", MinBulkAlertIDs, MaxBulkAlertIDs)
	}

	seen := make(map[string]int, len(r.AlertIDs))
	for i, id := range r.AlertIDs {
		field := "alertIds[" + strconv.Itoa(i) + "]"
		if !ValidIdentifier(id) {
			fe.add(field, "%s must be a valid identifier", field)
			continue
		}
		if first, dup := seen[id]; dup {
			fe.add(field, "%s duplicates alertIds[%d]", field, first)
			continue
		}
		seen[id] = i
	}
	return fe.err()
}

// BulkAcknowledgeResult is returned when every requested alert was acknowledged.
type BulkAcknowledgeResult struct {
	Message           string `json:"message"`
	AcknowledgedCount int    `json:"acknowledgedCount"`
}

// AlertEventType names a lifecycle transition published to fan-out consumers.
type AlertEventType string

const (
	AlertEventCreated      AlertEventType = "alert.created"
	AlertEventAcknowledged AlertEventType = "alert.acknowledged"
	AlertEventResolved     AlertEventType = "alert.resolved"
)

// AlertEvent describes a committed lifecycle transition.
type AlertEvent struct {
	Type     AlertEventType `json:"type"`
	AlertID  string         `json:"alertId"`
	DeviceID string         `json:"deviceId"`
	UserID   string         `json:"userId"`
	Title    string         `json:"title"`
	Severity AlertSeverity  `json:"severity"`
	Status   AlertStatus    `json:"status"`
	ActorID  string         `json:"actorId"`
	At       time.Time      `json:"at"`
}

// NewAlertEvent builds an event from the post-transition alert.
func NewAlertEvent(t AlertEventType, a *Alert, actorID string) AlertEvent {
	return AlertEvent{
		Type:     t,
		AlertID:  a.ID,
		DeviceID: a.DeviceID,
		UserID:   a.UserID,
		Title:    a.Title,
		Severity: a.Severity,
		Status:   a.Status,
		ActorID:  actorID,
		At:       a.UpdatedAt,
	}
}

// Package testutil provides testing utilities and helpers for the alert engine.
package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/target/fleet-alerts/internal/domain/model"
)

// AlertRequestBuilder provides a fluent interface for building CreateAlertRequest objects for testing.
type AlertRequestBuilder struct {
	req model.CreateAlertRequest
}

// NewAlertRequest creates a new AlertRequestBuilder with sensible defaults.
func NewAlertRequest(deviceID string) *AlertRequestBuilder {
	return &AlertRequestBuilder{
		req: model.CreateAlertRequest{
			DeviceID: deviceID,
			Title:    "Low Battery",
			Message:  "Battery below 10%",
			Severity: model.AlertSeverityHigh,
		},
	}
}

// WithTitle sets the alert title.
func (b *AlertRequestBuilder) WithTitle(title string) *AlertRequestBuilder {
	b.req.Title = title
	return b
}

// WithMessage sets the alert message.
func (b *AlertRequestBuilder) WithMessage(msg string) *AlertRequestBuilder {
	b.req.Message = msg
	return b
}

// WithSeverity sets the alert severity.
func (b *AlertRequestBuilder) WithSeverity(sev model.AlertSeverity) *AlertRequestBuilder {
	b.req.Severity = sev
	return b
}

// Build returns the built request.
func (b *AlertRequestBuilder) Build() model.CreateAlertRequest {
	return b.req
}

// InsertDevice writes a device row directly, bypassing repositories.
func InsertDevice(t TestingTB, db *sql.DB, dev model.Device) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if dev.Type == "" {
		dev.Type = "sensor"
	}
	if dev.Name == "" {
		dev.Name = dev.ID
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO devices (id, user_id, name, type) VALUES ($1, $2, $3, $4)`,
		dev.ID, dev.UserID, dev.Name, dev.Type)
	if err != nil {
		t.Fatalf("insert device %s: %v", dev.ID, err)
	}
}

//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// Device is the externally owned device an alert is raised against.
// Only the owner and display fields are read by the alert engine.
type Device struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	Type      string    `json:"type"      db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Summary returns the projection embedded in alert responses.
func (d *Device) Summary() *DeviceSummary {
	if d == nil {
		return nil
	}
	return &DeviceSummary{ID: d.ID, Name: d.Name, Type: d.Type}
}

// DeviceSummary is the {id, name, type} device projection.
type DeviceSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UpsertDeviceRequest registers or updates a device reference (admin tooling and dev seeding only).
type UpsertDeviceRequest struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// Normalize trims all fields.
func (r *UpsertDeviceRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.UserID = strings.TrimSpace(r.UserID)
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.TrimSpace(r.Type)
}

// Validate reports every invalid field of the request.
func (r *UpsertDeviceRequest) Validate() error {
	var fe fieldErrors
	fe.identifier("id", r.ID)
	fe.identifier("userId", r.UserID)
	fe.requiredText("name", r.Name, 255)
	fe.requiredText("type", r.Type, 64)
	return fe.err()
}

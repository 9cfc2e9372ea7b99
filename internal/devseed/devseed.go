// Package devseed registers demo devices for local development.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/fleet-alerts/internal/core"
	"github.com/target/fleet-alerts/internal/domain/model"
)

// Devices returns the demo devices seeded in development. d1 and d2 belong to
// different owners so ownership checks can be exercised by hand.
func Devices() []model.UpsertDeviceRequest {
	return []model.UpsertDeviceRequest{
		{ID: "d1", UserID: "u1", Name: "Front Door Sensor", Type: "door-sensor"},
		{ID: "d2", UserID: "u2", Name: "Garage Camera", Type: "camera"},
		{ID: "d3", UserID: "u1", Name: "Living Room Thermostat", Type: "thermostat"},
	}
}

// Run upserts every demo device. It keeps going after a failure and returns
// all failures joined.
func Run(ctx context.Context, devices core.DeviceRepository, logger *slog.Logger) error {
	if devices == nil {
		return errors.New("device repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var errs []error
	seeded := 0
	for _, req := range Devices() {
		d, err := devices.Upsert(ctx, req)
		if err != nil {
			logger.WarnContext(ctx, "seed device failed", "device_id", req.ID, "error", err)
			errs = append(errs, fmt.Errorf("seed device %s: %w", req.ID, err))
			continue
		}
		seeded++
		logger.DebugContext(ctx, "seeded device", "device_id", d.ID, "user_id", d.UserID)
	}

	logger.InfoContext(ctx, "development devices seeded", "count", seeded, "failed", len(errs))
	return errors.Join(errs...)
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/target/fleet-alerts/internal/data"
	"github.com/target/fleet-alerts/internal/domain/model"
)

type deviceUpsertOptions struct {
	Request model.UpsertDeviceRequest
	Timeout time.Duration
}

func runDeviceUpsert(cmdCtx *commandContext, args []string) error {
	opts, err := parseDeviceUpsertFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		device, upsertErr := data.NewDeviceRepo(db).Upsert(ctx, opts.Request)
		if upsertErr != nil {
			return fmt.Errorf("upsert device: %w", upsertErr)
		}
		return writef(cmdCtx.Out, "Device %s (%s, %s) owned by %s\n", device.ID, device.Name, device.Type, device.UserID)
	})
}

func parseDeviceUpsertFlags(args []string) (deviceUpsertOptions, error) {
	fs := flag.NewFlagSet("device-upsert", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := deviceUpsertOptions{Timeout: defaultCommandTimeout}
	fs.StringVar(&opts.Request.ID, "id", "", "Device ID")
	fs.StringVar(&opts.Request.UserID, "user", "", "Owning user ID")
	fs.StringVar(&opts.Request.Name, "name", "", "Display name")
	fs.StringVar(&opts.Request.Type, "type", "", "Device type")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Timeout for database operations")

	if err := fs.Parse(args); err != nil {
		return deviceUpsertOptions{}, err
	}
	if err := positiveTimeout(opts.Timeout); err != nil {
		return deviceUpsertOptions{}, err
	}
	opts.Request.Normalize()
	if err := opts.Request.Validate(); err != nil {
		return deviceUpsertOptions{}, err
	}
	return opts, nil
}

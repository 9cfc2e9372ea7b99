package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/target/fleet-alerts/internal/bootstrap"
	"github.com/target/fleet-alerts/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

type migrateOptions struct {
	Timeout time.Duration
	Status  bool
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		if opts.Status {
			migrations, statusErr := migrate.Status(ctx, db)
			if statusErr != nil {
				return fmt.Errorf("migration status: %w", statusErr)
			}
			return printMigrationStatus(cmdCtx.Out, migrations)
		}

		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}
		return nil
	})
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for migrations to complete")
	fs.BoolVar(&opts.Status, "status", false, "List embedded migrations and whether each is applied")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if err := positiveTimeout(opts.Timeout); err != nil {
		return migrateOptions{}, err
	}
	return opts, nil
}

func printMigrationStatus(w io.Writer, migrations []migrate.Migration) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "VERSION\tAPPLIED\n"); err != nil {
		return err
	}
	for _, m := range migrations {
		if err := writef(tw, "%s\t%t\n", m.Version, m.Applied); err != nil {
			return err
		}
	}
	return tw.Flush()
}

package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one embedded schema file and whether it has been applied.
type Migration struct {
	Version string
	Applied bool
}

// Run applies all SQL migrations embedded in this package and returns how many were applied.
// It is safe to call multiple times.
func Run(ctx context.Context, db *sql.DB) (int, error) {
	if err := ensureTable(ctx, db); err != nil {
		return 0, err
	}

	versions, err := embeddedVersions()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, v := range versions {
		ok, applyErr := applyMigration(ctx, db, v)
		if applyErr != nil {
			return applied, applyErr
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

// Status lists every embedded migration with its applied flag, in order.
func Status(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}
	versions, err := embeddedVersions()
	if err != nil {
		return nil, err
	}

	out := make([]Migration, 0, len(versions))
	for _, v := range versions {
		exists, existsErr := migrationExists(ctx, db, v)
		if existsErr != nil {
			return nil, existsErr
		}
		out = append(out, Migration{Version: v, Applied: exists})
	}
	return out, nil
}

func ensureTable(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func embeddedVersions() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var versions []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			versions = append(versions, strings.TrimSuffix(e.Name(), ".sql"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func migrationExists(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := db.QueryRowContext(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}

func applyMigration(ctx context.Context, db *sql.DB, version string) (bool, error) {
	exists, err := migrationExists(ctx, db, version)
	if err != nil || exists {
		return false, err
	}

	sqlBytes, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return false, fmt.Errorf("read migration %s: %w", version, err)
	}

	logger := slog.Default().With("component", "migrations")
	logger.InfoContext(ctx, "applying migration", "version", version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback transaction", "err", rollbackErr, "version", version)
		}
	}()

	if _, execErr := tx.ExecContext(ctx, string(sqlBytes)); execErr != nil {
		return false, fmt.Errorf("exec migration %s: %w", version, execErr)
	}
	if _, insErr := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); insErr != nil {
		return false, fmt.Errorf("record migration %s: %w", version, insErr)
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return false, fmt.Errorf("commit migration %s: %w", version, commitErr)
	}
	return true, nil
}

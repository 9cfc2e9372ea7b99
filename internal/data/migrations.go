package data

import (
	"context"
	"database/sql"

	"github.com/target/fleet-alerts/internal/migrate"
)

// RunMigrations applies the embedded schema and returns how many migrations were new.
func RunMigrations(ctx context.Context, db *sql.DB) (int, error) {
	return migrate.Run(ctx, db)
}

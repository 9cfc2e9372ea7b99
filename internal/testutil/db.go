package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	// Register the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/target/fleet-alerts/internal/migrate"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestDBConfig locates the Postgres instance used by integration tests.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultTestDBConfig reads TEST_DB_* overrides. The default port 55432 is the
// local docker compose test profile; CI sets TEST_DB_PORT=5432.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "55432"),
		User:     envOr("TEST_DB_USER", "fleet_alerts"),
		Password: envOr("TEST_DB_PASSWORD", "fleet_alerts"),
		DBName:   envOr("TEST_DB_NAME", "fleet_alerts"),
		SSLMode:  envOr("TEST_DB_SSL_MODE", "disable"),
	}
}

// DSN renders the config as a postgres URL. A non-empty schema is placed first
// on the search_path.
func (c TestDBConfig) DSN(schema string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if schema != "" {
		q.Set("search_path", schema+",public")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SetupTestDB returns a connection scoped to a fresh, fully migrated schema. The
// schema is dropped and the connection closed when the test ends. The test is
// skipped when Postgres is unreachable unless TEST_REQUIRE_DB or TEST_REQUIRE_INFRA is set.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()
	cfg := DefaultTestDBConfig()

	admin := openPinged(t, cfg.DSN(""))
	schema := "fa_test_" + randomSuffix()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := sql.Open("pgx", cfg.DSN(schema))
	if err != nil {
		_ = admin.Close()
		t.Fatalf("open schema %s: %v", schema, err)
	}
	db.SetMaxOpenConns(10)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Close(); err != nil {
			t.Logf("close test db: %v", err)
		}
		if _, err := admin.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		if err := admin.Close(); err != nil {
			t.Logf("close admin db: %v", err)
		}
	})

	if _, err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

// openPinged opens dsn and skips (or fails, when infra is required) if it cannot be reached.
func openPinged(t TestingTB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		if required("TEST_REQUIRE_DB") {
			t.Fatal("test database not available:", err)
		}
		t.Skip("test database not available:", err)
	}
	return db
}

func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b) // never fails since Go 1.24
	return hex.EncodeToString(b)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// required reports whether key or TEST_REQUIRE_INFRA asks for a hard failure
// instead of a skip.
func required(key string) bool {
	for _, k := range []string{key, "TEST_REQUIRE_INFRA"} {
		switch strings.ToLower(os.Getenv(k)) {
		case "1", "true", "yes", "y":
			return true
		}
	}
	return false
}

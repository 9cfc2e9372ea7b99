package config

import (
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"fleet_alerts"`
	Password string `env:"PASSWORD" envDefault:"fleet_alerts"`
	Name     string `env:"NAME"     envDefault:"fleet_alerts"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`

	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Sanitize keeps pool settings positive and consistent.
func (c *DBConfig) Sanitize() {
	if c.MaxOpenConns < 1 {
		c.MaxOpenConns = 1
	}
	if c.MaxIdleConns < 0 {
		c.MaxIdleConns = 0
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime < 0 {
		c.ConnMaxLifetime = 0
	}
}

// RedisConfig contains Redis configuration for sessions and event pub/sub.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`

	// SessionPrefix namespaces session keys.
	SessionPrefix string `env:"SESSION_PREFIX" envDefault:"fleet-alerts:session:"`
	// EventsChannel is the pub/sub channel for alert lifecycle events. Empty disables publishing.
	EventsChannel string `env:"EVENTS_CHANNEL" envDefault:"fleet-alerts:events"`
}

// Sanitize trims key names.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	c.SessionPrefix = strings.TrimSpace(c.SessionPrefix)
	c.EventsChannel = strings.TrimSpace(c.EventsChannel)
}

package config

import (
	"log/slog"
	"strings"
)

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`

	// File, when set, receives a copy of every log line with size-based rotation.
	File           string `env:"FILE"`
	FileMaxSizeMB  int    `env:"FILE_MAX_SIZE_MB"  envDefault:"10"`
	FileMaxBackups int    `env:"FILE_MAX_BACKUPS"  envDefault:"3"`
	FileMaxAgeDays int    `env:"FILE_MAX_AGE_DAYS" envDefault:"7"`
	FileCompress   bool   `env:"FILE_COMPRESS"     envDefault:"true"`
}

// Sanitize normalises the level and rotation bounds.
func (c *LogConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.File = strings.TrimSpace(c.File)
	if c.FileMaxSizeMB < 1 {
		c.FileMaxSizeMB = 10
	}
	if c.FileMaxBackups < 0 {
		c.FileMaxBackups = 0
	}
	if c.FileMaxAgeDays < 0 {
		c.FileMaxAgeDays = 0
	}
}

// SlogLevel maps Level to a slog level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

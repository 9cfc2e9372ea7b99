package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/target/fleet-alerts/config"
	"github.com/target/fleet-alerts/internal/bootstrap"
	"github.com/target/fleet-alerts/internal/domain/auth"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

// adminActor is the identity used for alert operations run from this tool.
var adminActor = auth.Actor{ID: "admin-cli", Role: auth.RoleAdmin}

func main() {
	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			slog.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			slog.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			slog.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.Log)

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations (--status lists them instead)",
			run:         runMigrations,
		},
		"device-upsert": {
			name:        "device-upsert",
			description: "Register or update a device and its owner",
			run:         runDeviceUpsert,
		},
		"alerts-list": {
			name:        "alerts-list",
			description: "List alerts with filters; --query applies a JMESPath expression",
			run:         runAlertsList,
		},
		"alerts-resolve": {
			name:        "alerts-resolve",
			description: "Resolve an alert as an administrator",
			run:         runAlertsResolve,
		},
		"session-issue": {
			name:        "session-issue",
			description: "Issue a session cookie value for a user",
			run:         runSessionIssue,
		},
		"session-revoke": {
			name:        "session-revoke",
			description: "Revoke a previously issued session",
			run:         runSessionRevoke,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: fleet-alerts-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands()[name]
		if err := writef(w, "  %-16s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

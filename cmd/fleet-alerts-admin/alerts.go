package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/redis/go-redis/v9"

	redisadapter "github.com/target/fleet-alerts/internal/adapters/redis"
	"github.com/target/fleet-alerts/internal/core"
	"github.com/target/fleet-alerts/internal/data"
	"github.com/target/fleet-alerts/internal/domain/model"
	"github.com/target/fleet-alerts/internal/service"
)

type alertsListOptions struct {
	Query   model.AlertListQuery
	Expr    string
	JSON    bool
	Timeout time.Duration
}

func runAlertsList(cmdCtx *commandContext, args []string) error {
	opts, params, err := parseAlertsListFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		svc, svcErr := newAlertService(cmdCtx, db, nil)
		if svcErr != nil {
			return svcErr
		}
		page, listErr := svc.List(ctx, adminActor, params)
		if listErr != nil {
			return fmt.Errorf("list alerts: %w", listErr)
		}

		switch {
		case opts.Expr != "":
			return printQueryResult(cmdCtx.Out, page, opts.Expr)
		case opts.JSON:
			return printJSON(cmdCtx.Out, page)
		default:
			return printAlertTable(cmdCtx.Out, page)
		}
	})
}

func parseAlertsListFlags(args []string) (alertsListOptions, model.AlertListParams, error) {
	fs := flag.NewFlagSet("alerts-list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := alertsListOptions{Timeout: defaultCommandTimeout}
	fs.StringVar(&opts.Query.Status, "status", "", "Filter by status (ACTIVE|ACKNOWLEDGED|RESOLVED)")
	fs.StringVar(&opts.Query.Severity, "severity", "", "Filter by severity (LOW|MEDIUM|HIGH|CRITICAL)")
	fs.StringVar(&opts.Query.DeviceID, "device", "", "Filter by device ID")
	fs.StringVar(&opts.Query.Page, "page", "", "Page number (default 1)")
	fs.StringVar(&opts.Query.Limit, "limit", "", "Page size (default 10, max 100)")
	fs.StringVar(&opts.Expr, "query", "", "JMESPath expression applied to the JSON page, e.g. 'alerts[].id'")
	fs.BoolVar(&opts.JSON, "json", false, "Print the page as JSON")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Timeout for database operations")

	if err := fs.Parse(args); err != nil {
		return alertsListOptions{}, model.AlertListParams{}, err
	}
	if err := positiveTimeout(opts.Timeout); err != nil {
		return alertsListOptions{}, model.AlertListParams{}, err
	}
	opts.Expr = strings.TrimSpace(opts.Expr)
	if opts.Expr != "" {
		if _, err := jmespath.Compile(opts.Expr); err != nil {
			return alertsListOptions{}, model.AlertListParams{}, fmt.Errorf("invalid --query: %w", err)
		}
	}

	params, err := model.ParseAlertListQuery(opts.Query)
	if err != nil {
		return alertsListOptions{}, model.AlertListParams{}, err
	}
	return opts, params, nil
}

type alertsResolveOptions struct {
	ID      string
	Notes   string
	Timeout time.Duration
}

func runAlertsResolve(cmdCtx *commandContext, args []string) error {
	opts, err := parseAlertsResolveFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		client, redisErr := maybeConnectRedis(ctx, cmdCtx)
		if redisErr != nil {
			return redisErr
		}
		defer closeRedis(cmdCtx, client)

		svc, svcErr := newAlertService(cmdCtx, db, client)
		if svcErr != nil {
			return svcErr
		}

		req := model.ResolveAlertRequest{}
		if opts.Notes != "" {
			req.ResolutionNotes = &opts.Notes
		}
		alert, resolveErr := svc.Resolve(ctx, adminActor, opts.ID, req)
		if resolveErr != nil {
			return fmt.Errorf("resolve alert: %w", resolveErr)
		}
		return writef(cmdCtx.Out, "Alert %s is %s\n", alert.ID, alert.Status)
	})
}

func parseAlertsResolveFlags(args []string) (alertsResolveOptions, error) {
	fs := flag.NewFlagSet("alerts-resolve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := alertsResolveOptions{Timeout: defaultCommandTimeout}
	fs.StringVar(&opts.ID, "id", "", "Alert ID")
	fs.StringVar(&opts.Notes, "notes", "", "Optional resolution notes")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Timeout for database operations")

	if err := fs.Parse(args); err != nil {
		return alertsResolveOptions{}, err
	}
	opts.ID = strings.TrimSpace(opts.ID)
	if opts.ID == "" {
		return alertsResolveOptions{}, errors.New("--id is required")
	}
	if err := positiveTimeout(opts.Timeout); err != nil {
		return alertsResolveOptions{}, err
	}
	return opts, nil
}

// newAlertService builds the alert service over Postgres. Lifecycle events
// go to the Redis channel when a client is given.
func newAlertService(cmdCtx *commandContext, db *sql.DB, client redis.UniversalClient) (*service.AlertService, error) {
	var events core.AlertEventPublisher = core.NoopPublisher{}
	if client != nil && cmdCtx.Config.Redis.EventsChannel != "" {
		events = redisadapter.NewEventPublisher(client, cmdCtx.Config.Redis.EventsChannel)
	}
	svc, err := service.NewAlertService(service.AlertServiceOptions{
		Alerts:  data.NewAlertRepo(db),
		Devices: data.NewDeviceRepo(db),
		Events:  events,
		Logger:  cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create alert service: %w", err)
	}
	return svc, nil
}

// applyQuery evaluates expr against the JSON form of v.
func applyQuery(v any, expr string) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate query: %w", err)
	}
	return out, nil
}

func printQueryResult(w io.Writer, page *model.AlertListResult, expr string) error {
	out, err := applyQuery(page, expr)
	if err != nil {
		return err
	}
	return printJSON(w, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAlertTable(w io.Writer, page *model.AlertListResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "ID\tDEVICE\tSEVERITY\tSTATUS\tCREATED\tTITLE\n"); err != nil {
		return err
	}
	for _, a := range page.Alerts {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.DeviceID, a.Severity, a.Status, a.CreatedAt.Format(time.RFC3339), a.Title); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	p := page.Pagination
	return writef(w, "\nPage %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
}

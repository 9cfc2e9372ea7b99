package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/target/fleet-alerts/internal/core"
	"github.com/target/fleet-alerts/internal/data/database"
	"github.com/target/fleet-alerts/internal/data/pgxutil"
	"github.com/target/fleet-alerts/internal/domain/model"
	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// AlertRepo provides database operations for alert management.
// Reads go through the alert_views view so every alert carries its device projection.
type AlertRepo struct {
	DB *sql.DB
}

// NewAlertRepo creates a new AlertRepo instance with the given database connection.
func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{DB: db}
}

var _ core.AlertRepository = (*AlertRepo)(nil)

// alertColumnList is the alerts table column order shared by every query.
var alertColumnList = []string{
	"id", "device_id", "user_id", "title", "message", "severity", "status",
	"created_at", "updated_at", "acknowledged_at", "resolved_at", "resolution_notes",
}

// alertViewColumns selects an alert plus its device projection from alert_views.
var alertViewColumns = strings.Join(alertColumnList, ", ") + ", device_name, device_type"

// alertJoinColumns selects from a CTE aliased u joined to devices d.
var alertJoinColumns = func() string {
	cols := make([]string, 0, len(alertColumnList)+2)
	for _, c := range alertColumnList {
		cols = append(cols, "u."+c)
	}
	cols = append(cols, "d.name AS device_name", "d.type AS device_type")
	return strings.Join(cols, ", ")
}()

// withDevice wraps a data-modifying statement that ends in RETURNING * and joins the device projection.
func withDevice(stmt, orderBy string) string {
	q := "WITH u AS (" + stmt + ") SELECT " + alertJoinColumns + " FROM u LEFT JOIN devices d ON d.id = u.device_id"
	if orderBy != "" {
		q += " ORDER BY " + orderBy
	}
	return q
}

// alertRow is the scan target for alert rows joined with their device.
type alertRow struct {
	model.Alert
	DeviceName *string `db:"device_name"`
	DeviceType *string `db:"device_type"`
}

func (r alertRow) toModel() *model.Alert {
	a := r.Alert
	if r.DeviceName != nil {
		a.Device = &model.DeviceSummary{ID: a.DeviceID, Name: *r.DeviceName}
		if r.DeviceType != nil {
			a.Device.Type = *r.DeviceType
		}
	}
	return &a
}

func collectAlert(rows pgx.Rows) (*model.Alert, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[alertRow])
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func collectAlerts(rows pgx.Rows) ([]*model.Alert, error) {
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[alertRow])
	if err != nil {
		return nil, err
	}
	out := make([]*model.Alert, 0, len(list))
	for _, r := range list {
		out = append(out, r.toModel())
	}
	return out, nil
}

// GetByID retrieves an alert by its ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*model.Alert, error) {
	var alert *model.Alert
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		a, err := getAlert(ctx, conn, id)
		alert = a
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Alert not found")
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get alert by id: %w", err))
	}
	return alert, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getAlert(ctx context.Context, q queryer, id string) (*model.Alert, error) {
	rows, err := q.Query(ctx, `SELECT `+alertViewColumns+` FROM alert_views WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return collectAlert(rows)
}

// FindOpenDuplicate returns the ACTIVE or ACKNOWLEDGED alert for (deviceID, title), or nil.
func (r *AlertRepo) FindOpenDuplicate(ctx context.Context, deviceID, title string) (*model.Alert, error) {
	const query = `SELECT %s FROM alert_views
		WHERE device_id = $1 AND title = $2 AND status IN ('ACTIVE', 'ACKNOWLEDGED')
		LIMIT 1`

	var alert *model.Alert
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, fmt.Sprintf(query, alertViewColumns), deviceID, title)
		if err != nil {
			return err
		}
		alert, err = collectAlert(rows)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("find open duplicate: %w", err))
	}
	return alert, nil
}

// Create inserts a new ACTIVE alert. A concurrent insert of the same open
// (device, title) pair is rejected by the partial unique index and surfaces as Duplicate.
func (r *AlertRepo) Create(ctx context.Context, params core.CreateAlertParams) (*model.Alert, error) {
	req := params.Request
	stmt := `INSERT INTO alerts (id, device_id, user_id, title, message, severity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'ACTIVE', $7, $7)
		RETURNING *`

	var alert *model.Alert
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, withDevice(stmt, ""),
			uuid.NewString(), req.DeviceID, params.UserID, req.Title, req.Message, req.Severity, params.At.UTC())
		if err != nil {
			return err
		}
		alert, err = collectAlert(rows)
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create alert: %w", err))
	}
	return alert, nil
}

func listOptions(filter core.AlertListFilter, table string, extra ...database.ListQueryOption) *database.ListQueryOptions {
	var conds []database.Condition
	if filter.UserID != nil {
		conds = append(conds, database.WhereCond("user_id", database.Equal, *filter.UserID))
	}
	if filter.Status != nil {
		conds = append(conds, database.WhereCond("status", database.Equal, string(*filter.Status)))
	}
	if filter.Severity != nil {
		conds = append(conds, database.WhereCond("severity", database.Equal, string(*filter.Severity)))
	}
	if filter.DeviceID != nil {
		conds = append(conds, database.WhereCond("device_id", database.Equal, *filter.DeviceID))
	}
	opts := append([]database.ListQueryOption{database.WithConditions(conds...)}, extra...)
	return database.NewListQueryOptions(table, opts...)
}

// List returns one page of alerts, newest first with id as tiebreaker.
func (r *AlertRepo) List(ctx context.Context, filter core.AlertListFilter) ([]*model.Alert, error) {
	cols := append(append([]string{}, alertColumnList...), "device_name", "device_type")
	query, args := database.BuildListQuery(listOptions(filter, "alert_views",
		database.WithColumns(cols...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(filter.Limit),
		database.WithOffset(filter.Offset),
	))

	var alerts []*model.Alert
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		alerts, err = collectAlerts(rows)
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list alerts: %w", err))
	}
	return alerts, nil
}

// Count returns the number of alerts matching the filter, ignoring paging.
func (r *AlertRepo) Count(ctx context.Context, filter core.AlertListFilter) (int, error) {
	query, args := database.BuildListQuery(listOptions(filter, "alerts", database.WithCountOnly()))

	var total int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("count alerts: %w", err))
	}
	return total, nil
}

// TryAcknowledge moves an ACTIVE alert to ACKNOWLEDGED with a single conditional update.
func (r *AlertRepo) TryAcknowledge(ctx context.Context, id string, at time.Time) (core.TransitionResult, error) {
	stmt := `UPDATE alerts
		SET status = 'ACKNOWLEDGED', acknowledged_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'ACTIVE'
		RETURNING *`
	return r.transition(ctx, id, withDevice(stmt, ""), id, at.UTC())
}

// TryResolve moves an ACTIVE or ACKNOWLEDGED alert to RESOLVED with a single conditional update.
func (r *AlertRepo) TryResolve(ctx context.Context, params core.ResolveParams) (core.TransitionResult, error) {
	stmt := `UPDATE alerts
		SET status = 'RESOLVED', resolved_at = $2, updated_at = $2, resolution_notes = $3
		WHERE id = $1 AND status IN ('ACTIVE', 'ACKNOWLEDGED')
		RETURNING *`
	return r.transition(ctx, params.ID, withDevice(stmt, ""), params.ID, params.At.UTC(), params.Notes)
}

// transition runs a conditional update. When no row matched it re-reads the alert
// so the caller can report why the transition was refused.
func (r *AlertRepo) transition(ctx context.Context, id, query string, args ...any) (core.TransitionResult, error) {
	var res core.TransitionResult
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		updated, err := collectAlert(rows)
		if err == nil {
			res = core.TransitionResult{Alert: updated, Applied: true, Current: updated.Status}
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		current, err := getAlert(ctx, conn, id)
		if err != nil {
			return err
		}
		res = core.TransitionResult{Alert: current, Applied: false, Current: current.Status}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.TransitionResult{}, apperrors.NotFound("Alert not found")
		}
		return core.TransitionResult{}, apperrors.MapDBError(fmt.Errorf("transition alert %s: %w", id, err))
	}
	return res, nil
}

// BulkAcknowledge acknowledges every id or none. The candidate rows are locked first;
// if fewer than len(IDs) are ACTIVE (and owned, when OwnerID is set) the transaction
// is rolled back and core.ErrBulkPreconditionFailed is returned.
func (r *AlertRepo) BulkAcknowledge(ctx context.Context, params core.BulkAcknowledgeParams) ([]*model.Alert, error) {
	var alerts []*model.Alert
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
		Fn: func(tx pgx.Tx) error {
			if err := lockActive(ctx, tx, params); err != nil {
				return err
			}

			stmt := `UPDATE alerts
				SET status = 'ACKNOWLEDGED', acknowledged_at = $2, updated_at = $2
				WHERE id = ANY($1) AND status = 'ACTIVE'
				RETURNING *`
			rows, err := tx.Query(ctx, withDevice(stmt, "u.created_at DESC, u.id ASC"), params.IDs, params.At.UTC())
			if err != nil {
				return fmt.Errorf("acknowledge batch: %w", err)
			}
			alerts, err = collectAlerts(rows)
			if err != nil {
				return fmt.Errorf("acknowledge batch: %w", err)
			}
			if len(alerts) != len(params.IDs) {
				return fmt.Errorf("%w: updated %d of %d", core.ErrBulkPreconditionFailed, len(alerts), len(params.IDs))
			}
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, core.ErrBulkPreconditionFailed) {
			return nil, err
		}
		return nil, apperrors.MapDBError(fmt.Errorf("bulk acknowledge: %w", err))
	}
	return alerts, nil
}

func lockActive(ctx context.Context, tx pgx.Tx, params core.BulkAcknowledgeParams) error {
	query := `SELECT id FROM alerts WHERE id = ANY($1) AND status = 'ACTIVE'`
	args := []any{params.IDs}
	if params.OwnerID != nil {
		query += ` AND user_id = $2`
		args = append(args, *params.OwnerID)
	}
	query += ` ORDER BY id FOR UPDATE`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("lock batch: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("lock batch: %w", err)
	}
	if len(ids) != len(params.IDs) {
		return fmt.Errorf("%w: matched %d of %d", core.ErrBulkPreconditionFailed, len(ids), len(params.IDs))
	}
	return nil
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/fleet-alerts/internal/core"
	"github.com/target/fleet-alerts/internal/data/pgxutil"
	"github.com/target/fleet-alerts/internal/domain/model"
	apperrors "github.com/target/fleet-alerts/internal/errors"
)

const deviceColumns = `id, user_id, name, type, created_at`

// DeviceRepo reads and registers device references.
type DeviceRepo struct {
	DB *sql.DB
}

// NewDeviceRepo creates a new DeviceRepo.
func NewDeviceRepo(db *sql.DB) *DeviceRepo {
	return &DeviceRepo{DB: db}
}

var _ core.DeviceRepository = (*DeviceRepo)(nil)

// GetByID retrieves a device by its ID.
func (r *DeviceRepo) GetByID(ctx context.Context, id string) (*model.Device, error) {
	var device model.Device
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id)
		if err != nil {
			return err
		}
		device, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Device])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Device not found")
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get device by id: %w", err))
	}
	return &device, nil
}

// Upsert registers a device or updates its owner and display fields.
func (r *DeviceRepo) Upsert(ctx context.Context, req model.UpsertDeviceRequest) (*model.Device, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	const query = `INSERT INTO devices (id, user_id, name, type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET user_id = EXCLUDED.user_id, name = EXCLUDED.name, type = EXCLUDED.type
		RETURNING ` + deviceColumns

	var device model.Device
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, req.ID, req.UserID, req.Name, req.Type)
		if err != nil {
			return err
		}
		device, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Device])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("upsert device: %w", err))
	}
	return &device, nil
}

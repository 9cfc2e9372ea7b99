package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts field names from unique violation detail: "Key (device_id, title)=(...) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// reNotPresent detects a missing parent: "... is not present in table ...".
var reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)

// MapDBError translates a store failure into the closed AppError taxonomy.
// It is called once, at the repository boundary:
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Duplicate
//   - foreign key violations → NotFound (the referenced device is gone)
//   - context timeouts/cancellations and everything else → Store
//
// Errors that are already AppErrors pass through unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Store(err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return Store(err)
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return mapForeignKeyViolation(pgErr)
	default:
		return Store(pgErr)
	}
}

func mapUniqueViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName
	if field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}

	message := "A record with the same values already exists."
	if strings.Contains(pgErr.ConstraintName, "open") || strings.Contains(field, "title") {
		message = "An open alert with this title already exists for the device."
	}

	return &AppError{
		Code:    ErrCodeDuplicate,
		Message: message,
		Field:   field,
		Cause:   pgErr,
	}
}

func mapForeignKeyViolation(pgErr *pgconn.PgError) error {
	table := pgErr.TableName
	if pgErr.Detail != "" {
		if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			table = m[1]
		}
	}

	message := "The referenced resource does not exist."
	if strings.Contains(strings.ToLower(table), "device") {
		message = "Device not found"
	}

	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Cause:   pgErr,
	}
}

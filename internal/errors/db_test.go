package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_ContextErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded},
		{name: "canceled", err: context.Canceled},
		{name: "wrapped deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if !IsStore(err) {
				t.Errorf("MapDBError() code = %v, want %v", GetCode(err), ErrCodeStore)
			}
		})
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	if !IsNotFound(err) {
		t.Errorf("MapDBError(pgx.ErrNoRows) should be NotFound, got %v", GetCode(err))
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "alerts_open_device_title_key",
		Detail:         "Key (device_id, title)=(d1, Low Battery) already exists.",
	}

	err := MapDBError(pgErr)
	if !IsDuplicate(err) {
		t.Fatalf("code = %v, want duplicate", GetCode(err))
	}
	if GetField(err) != "device_id, title" {
		t.Errorf("field = %q", GetField(err))
	}
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Message != "An open alert with this title already exists for the device." {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (device_id)=(d9) is not present in table "devices".`,
	}

	err := MapDBError(pgErr)
	if !IsNotFound(err) {
		t.Fatalf("code = %v, want not_found", GetCode(err))
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "Device not found" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestMapDBError_OtherPgErrorsAreOpaque(t *testing.T) {
	for _, code := range []string{pgerrcode.CheckViolation, pgerrcode.SerializationFailure, pgerrcode.UndefinedTable} {
		t.Run(code, func(t *testing.T) {
			err := MapDBError(&pgconn.PgError{Code: code, Message: "secret detail"})
			if !IsStore(err) {
				t.Fatalf("code = %v, want store_error", GetCode(err))
			}
			var appErr *AppError
			if errors.As(err, &appErr) && appErr.PublicMessage() == "secret detail" {
				t.Error("store error leaked database detail")
			}
		})
	}
}

func TestMapDBError_PassesThroughAppErrors(t *testing.T) {
	in := StateConflict("Alert is already resolved")
	if got := MapDBError(in); got != in {
		t.Errorf("MapDBError changed an AppError: %v", got)
	}
}

func TestMapDBError_UnknownErrorsBecomeStore(t *testing.T) {
	err := MapDBError(errors.New("driver: bad connection"))
	if !IsStore(err) {
		t.Errorf("code = %v, want store_error", GetCode(err))
	}
}

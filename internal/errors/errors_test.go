package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "alert not found"},
			want: "alert not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeStore,
				Message: "store operation failed",
				Cause:   errors.New("connection reset"),
			},
			want: "store operation failed: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_PublicMessageHidesStoreCause(t *testing.T) {
	err := Store(errors.New(`relation "alerts" does not exist`))
	if got := err.PublicMessage(); got != storeMessage {
		t.Errorf("PublicMessage() = %q, want %q", got, storeMessage)
	}

	conflict := StateConflict("Alert is already acknowledged")
	if got := conflict.PublicMessage(); got != "Alert is already acknowledged" {
		t.Errorf("PublicMessage() = %q", got)
	}
}

func TestAppError_UnwrapThroughFmt(t *testing.T) {
	base := NotFound("alert not found")
	wrapped := fmt.Errorf("get alert: %w", base)

	if !IsNotFound(wrapped) {
		t.Fatalf("IsNotFound(wrapped) = false")
	}
	if GetCode(wrapped) != ErrCodeNotFound {
		t.Errorf("GetCode() = %v", GetCode(wrapped))
	}
}

func TestValidationFields(t *testing.T) {
	if ValidationFields(nil) != nil {
		t.Fatal("ValidationFields(nil) should be nil")
	}

	details := []FieldError{
		{Field: "title", Message: "title is required"},
		{Field: "severity", Message: "severity must be one of: LOW, MEDIUM, HIGH, CRITICAL"},
	}
	err := ValidationFields(details)
	if err.Code != ErrCodeValidation {
		t.Fatalf("Code = %v", err.Code)
	}
	if err.Field != "title" {
		t.Errorf("Field = %q, want title", err.Field)
	}
	if len(GetDetails(err)) != 2 {
		t.Errorf("details = %d, want 2", len(GetDetails(err)))
	}
	if err.Message != "Invalid input: title, severity" {
		t.Errorf("Message = %q", err.Message)
	}

	details[0].Field = "mutated"
	if err.Details[0].Field != "title" {
		t.Error("ValidationFields must copy its input")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"not found", NotFound("x"), IsNotFound},
		{"forbidden", Forbidden("x"), IsForbidden},
		{"duplicate", Duplicate("x"), IsDuplicate},
		{"state conflict", StateConflict("x"), IsStateConflict},
		{"validation", Validation("x"), IsValidation},
		{"validation field", ValidationField("limit", "x"), IsValidation},
		{"store", Store(errors.New("x")), IsStore},
		{"unauthorized", Unauthorized("x"), IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pred(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
			if tt.pred(errors.New("plain")) {
				t.Error("predicate matched a plain error")
			}
		})
	}
}

func TestStoreAndWrapNil(t *testing.T) {
	if Store(nil) != nil {
		t.Error("Store(nil) should be nil")
	}
	if Wrap(nil, ErrCodeStore, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeValidation:    http.StatusBadRequest,
		ErrCodeStateConflict: http.StatusBadRequest,
		ErrCodeNotFound:      http.StatusNotFound,
		ErrCodeForbidden:     http.StatusForbidden,
		ErrCodeDuplicate:     http.StatusConflict,
		ErrCodeUnauthorized:  http.StatusUnauthorized,
		ErrCodeStore:         http.StatusInternalServerError,
		ErrorCode("bogus"):   http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}

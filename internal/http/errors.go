package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// WriteAppError maps a service error onto its status code and public message.
// Store failures and unclassified errors are logged with their cause and
// reported with a generic message only.
func WriteAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Store(err)
	}

	status := apperrors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("code", string(appErr.Code)),
			slog.Any("error", err))
	}

	WriteError(w, ErrorParams{
		Code:    status,
		ErrCode: string(appErr.Code),
		Err:     errors.New(appErr.PublicMessage()),
		Details: appErr.Details,
	})
}

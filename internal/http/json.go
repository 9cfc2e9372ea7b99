package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// maxBodyBytes caps request bodies accepted by the JSON API.
const maxBodyBytes = 1 << 20

// decodeOptions tunes DecodeJSON.
type decodeOptions struct {
	allowEmpty bool
}

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSON(w, r, dst, decodeOptions{})
}

// DecodeOptionalJSON is DecodeJSON but treats an empty body as an empty object.
func DecodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSON(w, r, dst, decodeOptions{allowEmpty: true})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, opts decodeOptions) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if opts.allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: string(apperrors.ErrCodeValidation),
			Err:     errors.New("request body must be valid JSON: " + err.Error()),
		})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
	Details []apperrors.FieldError
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, ErrorBody{Error: p.ErrCode, Message: p.Err.Error(), Details: p.Details})
}

package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// Classify returns a normalized error name suitable for tagging metrics/logs.
// Application errors report their code; anything else reports the innermost
// concrete type in snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}

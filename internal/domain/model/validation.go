//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/target/fleet-alerts/internal/errors"
)

// MaxIdentifierLength bounds device, user and alert identifiers.
const MaxIdentifierLength = 64

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidIdentifier reports whether s is a well-formed opaque identifier.
func ValidIdentifier(s string) bool {
	return s != "" && len(s) <= MaxIdentifierLength && identifierPattern.MatchString(s)
}

// fieldErrors accumulates every invalid field instead of stopping at the first one.
type fieldErrors []apperrors.FieldError

func (fe *fieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, apperrors.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// requiredText checks presence and rune length of an already trimmed value.
func (fe *fieldErrors) requiredText(field, v string, maxLen int) {
	if v == "" {
		fe.add(field, "%s is required", field)
		return
	}
	if utf8.RuneCountInString(v) > maxLen {
		fe.add(field, "%s must be between 1 and %d characters", field, maxLen)
	}
}

func (fe *fieldErrors) optionalText(field string, v *string, maxLen int) {
	if v == nil {
		return
	}
	if utf8.RuneCountInString(*v) > maxLen {
		fe.add(field, "%s cannot exceed %d characters", field, maxLen)
	}
}

func (fe *fieldErrors) identifier(field, v string) {
	if v == "" {
		fe.add(field, "%s is required", field)
		return
	}
	if !ValidIdentifier(v) {
		fe.add(field, "%s must be a valid identifier", field)
	}
}

// err returns nil or a validation AppError listing every collected field.
func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return apperrors.ValidationFields(fe)
}

func oneOfMessage[T ~string](field string, options []T) string {
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = string(o)
	}
	return field + " must be one of: " + strings.Join(names, ", ")
}

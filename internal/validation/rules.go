// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/payments/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CurrencyCode validates that a value is a 3-letter ISO currency code.
// Surrounding whitespace and case are accepted here; normalization to a
// trimmed upper-case code happens in the use case.
type CurrencyCode struct{}

// Validate checks if the value is a 3-letter alphabetic code.
func (CurrencyCode) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_currency_code", "currency must be a string")
	}

	s = strings.TrimSpace(s)

	if len(s) != 3 {
		return validation.NewError(
			"validation_currency_code",
			"currency must be a 3-letter ISO code (e.g. RUB)",
		)
	}

	for _, r := range s {
		if !unicode.IsLetter(r) {
			return validation.NewError(
				"validation_currency_code",
				"currency must contain only letters",
			)
		}
	}

	return nil
}

// UUIDString validates that a value parses as a UUID. Used for idempotency
// keys, which must be globally unique identifiers.
type UUIDString struct{}

// Validate checks if the value is a well-formed UUID string.
func (UUIDString) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_uuid", "value must be a string")
	}

	parsed, err := uuid.Parse(s)
	if err != nil || parsed == uuid.Nil {
		return validation.NewError("validation_uuid", "value must be a non-nil UUID")
	}

	return nil
}

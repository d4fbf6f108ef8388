// Package validation provides request validation rules built on jellydator/validation.
package validation

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// UTF8 validates that a string holds valid UTF-8.
var UTF8 = validation.NewStringRuleWithError(
	utf8.ValidString,
	validation.NewError("validation_utf8", "must be valid UTF-8"),
)

// Base64 returns a rule accepting standard base64 that decodes to at least
// minBytes bytes. Empty values are left to Required.
func Base64(minBytes int) validation.Rule {
	return validation.By(func(value any) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_base64_type", "must be a string")
		}
		if s == "" {
			return nil
		}

		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return validation.NewError("validation_base64", "must be valid base64-encoded data")
		}
		if len(decoded) < minBytes {
			return validation.NewError(
				"validation_base64_length",
				fmt.Sprintf("must decode to at least %d bytes", minBytes),
			)
		}
		return nil
	})
}

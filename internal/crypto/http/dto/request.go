// Package dto provides data transfer objects for the field encryption endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	customValidation "github.com/allisson/fieldcrypt/internal/validation"
)

// EncryptRequest carries a plaintext field value.
// Plaintext is a pointer so that an empty string, which is a valid input, can
// be told apart from a missing field.
type EncryptRequest struct {
	Plaintext *string `json:"plaintext"`
}

// Validate checks that plaintext is present and valid UTF-8.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.NotNil,
			customValidation.UTF8,
		),
	)
}

// DecryptRequest carries a base64 envelope produced by the encrypt endpoint.
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// Validate checks that ciphertext is present and long enough to hold an IV and
// one byte of ciphertext.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64(cryptoDomain.MinEnvelopeSize),
		),
	)
}

// Package usecase implements field encryption on top of the process-wide key.
//
// CipherUseCase turns a UTF-8 string into a self-contained base64 envelope
// (IV followed by AES-256-CBC ciphertext) and back. The key is obtained lazily
// from a service.KeySource, so a missing or broken key surfaces on the first
// call rather than at construction.
package usecase

import (
	"context"
)

// CipherUseCase encrypts and decrypts individual PII fields.
type CipherUseCase interface {
	// Encrypt returns the base64 envelope for plaintext. Each call uses a fresh
	// random IV, so equal inputs produce different outputs.
	Encrypt(ctx context.Context, plaintext string) (string, error)

	// Decrypt returns the plaintext held in a base64 envelope produced by Encrypt.
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

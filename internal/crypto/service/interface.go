// Package service provides key resolution and the AES-256-CBC primitive used for
// field encryption. Key material is resolved once from an ordered list of sources
// and cached for the lifetime of the process.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// KeySource supplies the symmetric key on demand.
type KeySource interface {
	// GetKey returns the process-wide symmetric key.
	GetKey(ctx context.Context) (*cryptoDomain.SymmetricKey, error)
}

// KeyResolver is one strategy in the key resolution chain.
//
// A resolver that has nothing to offer returns an error wrapping
// cryptoDomain.ErrKeyAbsent so the chain moves on to the next resolver.
// Any other error stops the chain.
type KeyResolver interface {
	// Name identifies the resolver in logs (e.g. "env:AES_KEY_B64").
	Name() string

	// Resolve produces a key or reports why it could not.
	Resolve(ctx context.Context) (*cryptoDomain.SymmetricKey, error)
}

// SecretFetcher reads a secret document from a remote secret store.
type SecretFetcher interface {
	// Fetch issues a single fetch-by-identifier request and returns the raw body.
	Fetch(ctx context.Context, secretID string) ([]byte, error)
}

// KeyUnwrapper decrypts key material that was stored encrypted by a KMS.
type KeyUnwrapper interface {
	Unwrap(ctx context.Context, wrapped []byte) ([]byte, error)
}

// BlockCipher encrypts and decrypts with a fixed key and a fresh nonce per message.
type BlockCipher interface {
	// Encrypt pads and encrypts plaintext and returns the ciphertext with the
	// randomly generated nonce used for it.
	Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext with the given nonce and strips the padding.
	Decrypt(ciphertext, nonce []byte) ([]byte, error)
}

// CipherManager creates BlockCipher instances for a resolved key.
type CipherManager interface {
	CreateCipher(key *cryptoDomain.SymmetricKey) (BlockCipher, error)
}

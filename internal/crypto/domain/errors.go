package domain

import (
	"github.com/allisson/fieldcrypt/internal/errors"
)

// Key resolution and cipher error definitions.
//
// Each kind wraps a base error from internal/errors so the HTTP layer can map it
// to a status code. Callers attach the underlying cause with
// fmt.Errorf("%w: %w", kind, cause), keeping both reachable through errors.Is.
var (
	// ErrConfigurationMissing indicates no key source is configured, e.g. the
	// override variable is unset and no secret identifier was provided.
	//
	// HTTP Status: 503 Service Unavailable
	ErrConfigurationMissing = errors.Wrap(errors.ErrUnavailable, "key source configuration missing")

	// ErrInvalidKeyLength indicates a resolved key did not decode to exactly 32 bytes.
	//
	// HTTP Status: 503 Service Unavailable
	ErrInvalidKeyLength = errors.Wrap(errors.ErrUnavailable, "invalid key length")

	// ErrKeyUnavailable indicates the key could not be fetched, parsed or decoded.
	//
	// HTTP Status: 503 Service Unavailable
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "key unavailable")

	// ErrMalformedInput indicates undecodable base64, a truncated envelope, or
	// text that is not valid UTF-8.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedInput = errors.Wrap(errors.ErrInvalidInput, "malformed input")

	// ErrDecryptionFailed indicates the cipher rejected the ciphertext: bad block
	// alignment or invalid padding, typically a wrong key or tampered data.
	//
	// The format carries no authentication tag, so tampering that keeps the
	// padding valid is not reported by this error.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyAbsent is returned by a resolver that has nothing to offer, letting the
	// provider fall through to the next source. It never reaches callers of GetKey.
	ErrKeyAbsent = errors.New("key source absent")
)

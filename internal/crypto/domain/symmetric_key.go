package domain

import (
	"crypto/subtle"
	"fmt"
)

// SymmetricKey holds the 32 bytes of AES-256 key material.
//
// The material lives in an unexported fixed-size array so a key cannot change
// after construction. Bytes hands out copies; callers should Zero them when done.
type SymmetricKey struct {
	material [KeySize]byte
}

// NewSymmetricKey copies b into a new SymmetricKey.
// Returns ErrInvalidKeyLength if b is not exactly KeySize bytes.
func NewSymmetricKey(b []byte) (*SymmetricKey, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf(
			"%w: AES-256 key must be %d bytes; got %d",
			ErrInvalidKeyLength,
			KeySize,
			len(b),
		)
	}

	k := &SymmetricKey{}
	copy(k.material[:], b)
	return k, nil
}

// Bytes returns a copy of the key material.
func (k *SymmetricKey) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, k.material[:])
	return b
}

// Equal reports whether both keys hold the same material, in constant time.
func (k *SymmetricKey) Equal(other *SymmetricKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return subtle.ConstantTimeCompare(k.material[:], other.material[:]) == 1
}

// String never prints key material.
func (k *SymmetricKey) String() string {
	return "SymmetricKey(redacted)"
}

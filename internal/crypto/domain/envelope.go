package domain

import (
	"encoding/base64"
	"fmt"
)

// Envelope is the transport form of an encrypted value: the 16-byte nonce
// followed by the CBC ciphertext, carried as standard padded base64.
//
// There is no version prefix and no authentication tag.
type Envelope struct {
	Nonce      []byte
	Ciphertext []byte
}

// String encodes the envelope as base64(nonce || ciphertext).
func (e *Envelope) String() string {
	combined := make([]byte, 0, len(e.Nonce)+len(e.Ciphertext))
	combined = append(combined, e.Nonce...)
	combined = append(combined, e.Ciphertext...)
	return base64.StdEncoding.EncodeToString(combined)
}

// ParseEnvelope decodes an envelope string.
// Returns ErrMalformedInput when the input is not base64 or is shorter than
// MinEnvelopeSize once decoded.
func ParseEnvelope(s string) (*Envelope, error) {
	combined, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %w", ErrMalformedInput, err)
	}

	if len(combined) < MinEnvelopeSize {
		return nil, fmt.Errorf(
			"%w: ciphertext too short: %d bytes, need at least %d",
			ErrMalformedInput,
			len(combined),
			MinEnvelopeSize,
		)
	}

	return &Envelope{
		Nonce:      combined[:NonceSize],
		Ciphertext: combined[NonceSize:],
	}, nil
}

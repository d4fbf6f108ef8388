package domain

// Sizes fixed by the wire format: AES-256 key, one AES block of IV, and the
// smallest envelope that can carry a padded block.
const (
	// KeySize is the length in bytes of the symmetric key (AES-256).
	KeySize = 32

	// NonceSize is the length in bytes of the per-message initialization vector.
	NonceSize = 16

	// BlockSize is the AES block size; CBC ciphertext is always a multiple of it.
	BlockSize = 16

	// MinEnvelopeSize is the smallest decoded envelope accepted by Decrypt.
	MinEnvelopeSize = NonceSize + 1
)

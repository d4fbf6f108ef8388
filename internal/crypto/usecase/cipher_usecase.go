package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
)

// cipherUseCase implements CipherUseCase with AES-256-CBC.
type cipherUseCase struct {
	keys    cryptoService.KeySource
	manager cryptoService.CipherManager
	logger  *slog.Logger
}

// NewCipherUseCase creates a CipherUseCase that draws its key from keys.
func NewCipherUseCase(
	keys cryptoService.KeySource,
	manager cryptoService.CipherManager,
	logger *slog.Logger,
) CipherUseCase {
	return &cipherUseCase{
		keys:    keys,
		manager: manager,
		logger:  logger,
	}
}

// Encrypt encrypts plaintext into a base64 envelope.
//
// Errors:
//   - ErrMalformedInput when plaintext is not valid UTF-8
//   - key errors from the KeySource (ErrConfigurationMissing, ErrKeyUnavailable,
//     ErrInvalidKeyLength)
func (c *cipherUseCase) Encrypt(ctx context.Context, plaintext string) (string, error) {
	if !utf8.ValidString(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", cryptoDomain.ErrMalformedInput)
	}

	blockCipher, err := c.cipher(ctx)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := blockCipher.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}

	envelope := cryptoDomain.Envelope{Nonce: nonce, Ciphertext: ciphertext}
	return envelope.String(), nil
}

// Decrypt decrypts a base64 envelope.
//
// The envelope is parsed before the key is touched, so malformed input is
// rejected even when no key is configured.
//
// Errors:
//   - ErrMalformedInput when the input is not base64, is shorter than 17 bytes,
//     or decrypts to bytes that are not valid UTF-8
//   - ErrDecryptionFailed when the ciphertext is not block aligned or the
//     padding does not verify
//   - key errors from the KeySource
func (c *cipherUseCase) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	envelope, err := cryptoDomain.ParseEnvelope(ciphertext)
	if err != nil {
		return "", err
	}

	blockCipher, err := c.cipher(ctx)
	if err != nil {
		return "", err
	}

	plaintext, err := blockCipher.Decrypt(envelope.Ciphertext, envelope.Nonce)
	if err != nil {
		c.logger.Debug("field decryption failed", slog.Any("error", err))
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: decrypted value is not valid UTF-8", cryptoDomain.ErrMalformedInput)
	}

	return string(plaintext), nil
}

// cipher builds a block cipher for the current key.
func (c *cipherUseCase) cipher(ctx context.Context) (cryptoService.BlockCipher, error) {
	key, err := c.keys.GetKey(ctx)
	if err != nil {
		return nil, err
	}
	return c.manager.CreateCipher(key)
}

package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// AESCBCCipher implements BlockCipher using AES-256 in CBC mode with PKCS#7 padding.
//
// Each Encrypt call reads a fresh 16-byte IV from crypto/rand, which is safe for
// concurrent use. The cipher instance itself holds only the expanded key and is
// safe to share between goroutines.
//
// CBC with PKCS#7 gives confidentiality only. There is no MAC: a modified
// ciphertext is rejected only when the modification breaks the padding.
type AESCBCCipher struct {
	block  cipher.Block
	random io.Reader
}

// NewAESCBC creates a new AES-256-CBC cipher instance.
// The key must be exactly 32 bytes.
func NewAESCBC(key []byte) (*AESCBCCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, fmt.Errorf(
			"%w: key must be exactly %d bytes",
			cryptoDomain.ErrInvalidKeyLength,
			cryptoDomain.KeySize,
		)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &AESCBCCipher{block: block, random: rand.Reader}, nil
}

// Encrypt pads plaintext and encrypts it under a new random IV.
// The returned ciphertext length is always a positive multiple of 16.
func (a *AESCBCCipher) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, cryptoDomain.NonceSize)
	if _, err := io.ReadFull(a.random, nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	padded := pkcs7Pad(plaintext, cryptoDomain.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(a.block, nonce).CryptBlocks(ciphertext, padded)
	cryptoDomain.Zero(padded)

	return ciphertext, nonce, nil
}

// Decrypt reverses Encrypt. It fails with ErrDecryptionFailed when the
// ciphertext is not block aligned or the padding does not verify, which is what
// a wrong key or most tampering produces.
func (a *AESCBCCipher) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != cryptoDomain.NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes", cryptoDomain.ErrDecryptionFailed, cryptoDomain.NonceSize)
	}

	if len(ciphertext) == 0 || len(ciphertext)%cryptoDomain.BlockSize != 0 {
		return nil, fmt.Errorf(
			"%w: ciphertext length %d is not a multiple of the block size",
			cryptoDomain.ErrDecryptionFailed,
			len(ciphertext),
		)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(a.block, nonce).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, cryptoDomain.BlockSize)
	if err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrDecryptionFailed, err)
	}

	return unpadded, nil
}

var errInvalidPadding = errors.New("invalid padding")

// pkcs7Pad returns a new slice holding b followed by 1..blockSize padding bytes.
func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad strips PKCS#7 padding, checking every padding byte.
func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, errInvalidPadding
	}

	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, errInvalidPadding
	}

	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errInvalidPadding
		}
	}

	return b[:len(b)-n], nil
}

package commands

import (
	"context"
	"fmt"
	"strings"

	cryptoUseCase "github.com/allisson/fieldcrypt/internal/crypto/usecase"
)

// RunEncrypt encrypts one value and writes the envelope followed by a newline.
// When plaintextGiven is false the value is read from io.Reader.
func RunEncrypt(
	ctx context.Context,
	useCase cryptoUseCase.CipherUseCase,
	io IOTuple,
	plaintext string,
	plaintextGiven bool,
) error {
	input, err := readInput(plaintext, plaintextGiven, io.Reader)
	if err != nil {
		return err
	}

	ciphertext, err := useCase.Encrypt(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	_, err = fmt.Fprintln(io.Writer, ciphertext)
	return err
}

// RunDecrypt decrypts one envelope and writes the plaintext followed by a newline.
// When ciphertextGiven is false the envelope is read from io.Reader.
func RunDecrypt(
	ctx context.Context,
	useCase cryptoUseCase.CipherUseCase,
	io IOTuple,
	ciphertext string,
	ciphertextGiven bool,
) error {
	input, err := readInput(ciphertext, ciphertextGiven, io.Reader)
	if err != nil {
		return err
	}

	plaintext, err := useCase.Decrypt(ctx, strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}

	_, err = fmt.Fprintln(io.Writer, plaintext)
	return err
}

package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
)

const defaultKeyEnvVar = "AES_KEY_B64"

// RunCreateKey generates a random 32-byte AES-256 key and prints it in the two
// forms the key resolvers accept: an envVar assignment for the environment
// override and a secret document for the remote store. An empty envVar prints
// AES_KEY_B64.
//
// When kmsKeyURI is set the key is encrypted with that KMS key first, and the
// printed values must be deployed together with KMS_KEY_URI. The raw key is
// zeroed before returning.
func RunCreateKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	envVar string,
	kmsKeyURI string,
) error {
	if envVar == "" {
		envVar = defaultKeyEnvVar
	}

	key := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(key)

	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	stored := key
	if kmsKeyURI != "" {
		wrapped, err := wrapWithKMS(ctx, kmsService, kmsKeyURI, key)
		if err != nil {
			return err
		}
		stored = wrapped
	}

	encoded := base64.StdEncoding.EncodeToString(stored)
	doc, err := json.MarshalIndent(cryptoDomain.SecretDocument{Key: encoded}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode secret document: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Environment override (local and test setups)")
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "%s=%q\n", envVar, encoded)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Secret document for CRYPTO_AES_KEY_SECRET_NAME")
	_, _ = fmt.Fprintln(writer, string(doc))

	logger.Info("encryption key generated", slog.Bool("kms_wrapped", kmsKeyURI != ""))
	return nil
}

func wrapWithKMS(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	kmsKeyURI string,
	key []byte,
) (wrapped []byte, err error) {
	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close KMS keeper: %w", closeErr)
		}
	}()

	wrapped, err = keeper.Encrypt(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}
	return wrapped, nil
}

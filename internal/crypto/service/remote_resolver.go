package service

import (
	"context"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// RemoteSecretResolver loads the key from a secret document kept in a remote
// secret store. Each Resolve call is a network round trip; callers are expected
// to cache the result (see CachingKeyProvider).
type RemoteSecretResolver struct {
	secretID  string
	fetcher   SecretFetcher
	unwrapper KeyUnwrapper
}

// NewRemoteSecretResolver creates a resolver for secretID. unwrapper may be nil.
func NewRemoteSecretResolver(
	secretID string,
	fetcher SecretFetcher,
	unwrapper KeyUnwrapper,
) *RemoteSecretResolver {
	return &RemoteSecretResolver{
		secretID:  secretID,
		fetcher:   fetcher,
		unwrapper: unwrapper,
	}
}

// Name implements KeyResolver.
func (r *RemoteSecretResolver) Name() string {
	return "remote:" + r.secretID
}

// Resolve fetches the secret document, reads its "key" field and decodes it.
//
// Errors:
//   - ErrConfigurationMissing when no secret identifier is configured
//   - ErrKeyUnavailable on fetch, JSON or base64 failures (cause attached)
//   - ErrInvalidKeyLength when the key does not decode to 32 bytes
func (r *RemoteSecretResolver) Resolve(ctx context.Context) (*cryptoDomain.SymmetricKey, error) {
	if strings.TrimSpace(r.secretID) == "" {
		return nil, fmt.Errorf(
			"%w: CRYPTO_AES_KEY_SECRET_NAME is not configured",
			cryptoDomain.ErrConfigurationMissing,
		)
	}

	body, err := r.fetcher.Fetch(ctx, r.secretID)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: failed to load key from secret %q: %w",
			cryptoDomain.ErrKeyUnavailable,
			r.secretID,
			err,
		)
	}
	defer cryptoDomain.Zero(body)

	doc, err := cryptoDomain.ParseSecretDocument(body)
	if err != nil {
		return nil, err
	}

	return decodeKey(ctx, doc.Key, r.unwrapper)
}

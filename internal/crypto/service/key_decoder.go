package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// decodeKey turns a base64 key value into a SymmetricKey, unwrapping it with
// the KMS first when an unwrapper is configured. Temporary buffers are zeroed.
func decodeKey(
	ctx context.Context,
	encoded string,
	unwrapper KeyUnwrapper,
) (*cryptoDomain.SymmetricKey, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 key: %w", cryptoDomain.ErrKeyUnavailable, err)
	}

	if unwrapper != nil {
		unwrapped, err := unwrapper.Unwrap(ctx, raw)
		cryptoDomain.Zero(raw)
		if err != nil {
			cryptoDomain.Zero(unwrapped)
			return nil, fmt.Errorf("%w: failed to unwrap key: %w", cryptoDomain.ErrKeyUnavailable, err)
		}
		raw = unwrapped
	}
	defer cryptoDomain.Zero(raw)

	return cryptoDomain.NewSymmetricKey(raw)
}

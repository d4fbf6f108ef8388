package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// DefaultKeyEnvVar is the environment variable read by EnvOverrideResolver
// when no other name is configured.
const DefaultKeyEnvVar = "AES_KEY_B64"

// EnvOverrideResolver reads a base64-encoded key from an environment variable.
// It is meant for local and test setups, where it takes precedence over the
// remote secret store.
type EnvOverrideResolver struct {
	envVar    string
	unwrapper KeyUnwrapper
}

// NewEnvOverrideResolver creates a resolver for envVar. An empty name falls back
// to DefaultKeyEnvVar. unwrapper may be nil.
func NewEnvOverrideResolver(envVar string, unwrapper KeyUnwrapper) *EnvOverrideResolver {
	if envVar == "" {
		envVar = DefaultKeyEnvVar
	}
	return &EnvOverrideResolver{envVar: envVar, unwrapper: unwrapper}
}

// Name implements KeyResolver.
func (r *EnvOverrideResolver) Name() string {
	return "env:" + r.envVar
}

// TryResolve returns ok=false with no error when the variable is unset or blank.
// A present value that is not valid base64 fails with ErrKeyUnavailable; one that
// does not decode to 32 bytes fails with ErrInvalidKeyLength.
func (r *EnvOverrideResolver) TryResolve(
	ctx context.Context,
) (key *cryptoDomain.SymmetricKey, ok bool, err error) {
	value, found := os.LookupEnv(r.envVar)
	if !found || strings.TrimSpace(value) == "" {
		return nil, false, nil
	}

	key, err = decodeKey(ctx, value, r.unwrapper)
	if err != nil {
		return nil, false, fmt.Errorf("%w (check %s)", err, r.envVar)
	}
	return key, true, nil
}

// Resolve implements KeyResolver, reporting an unset variable as ErrKeyAbsent.
func (r *EnvOverrideResolver) Resolve(ctx context.Context) (*cryptoDomain.SymmetricKey, error) {
	key, ok, err := r.TryResolve(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf(
			"%w: %s is not set; set it to a base64-encoded 32-byte key",
			cryptoDomain.ErrKeyAbsent,
			r.envVar,
		)
	}
	return key, nil
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

// wrapKey encrypts key with the KMS at keyURI and returns it base64-encoded,
// the form in which a wrapped key is stored.
func wrapKey(t *testing.T, keyURI string, key []byte) string {
	t.Helper()
	ctx := context.Background()

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	wrapped, err := keeper.Encrypt(ctx, key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(wrapped)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "")
		assert.Error(t, err)
		assert.Nil(t, keeper)
	})
}

func TestKeeperUnwrapper_Unwrap(t *testing.T) {
	ctx := context.Background()
	keyURI := generateLocalSecretsURI(t)
	plainKey := []byte(encodedKeyRaw(32, 'w'))

	t.Run("Success", func(t *testing.T) {
		wrapped, err := base64.StdEncoding.DecodeString(wrapKey(t, keyURI, plainKey))
		require.NoError(t, err)

		got, err := NewKeeperUnwrapper(NewKMSService(), keyURI).Unwrap(ctx, wrapped)
		require.NoError(t, err)
		assert.Equal(t, plainKey, got)
	})

	t.Run("Error_WrongKMSKey", func(t *testing.T) {
		wrapped, err := base64.StdEncoding.DecodeString(wrapKey(t, keyURI, plainKey))
		require.NoError(t, err)

		got, err := NewKeeperUnwrapper(NewKMSService(), generateLocalSecretsURI(t)).Unwrap(ctx, wrapped)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt key with KMS")
		assert.Nil(t, got)
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		got, err := NewKeeperUnwrapper(NewKMSService(), "invalid://uri").Unwrap(ctx, []byte("x"))
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestResolvers_WithKeeperUnwrapper(t *testing.T) {
	ctx := context.Background()
	keyURI := generateLocalSecretsURI(t)
	plainKey := []byte(encodedKeyRaw(32, 'u'))
	unwrapper := NewKeeperUnwrapper(NewKMSService(), keyURI)

	t.Run("EnvOverride", func(t *testing.T) {
		t.Setenv(testKeyVar, wrapKey(t, keyURI, plainKey))

		key, err := NewEnvOverrideResolver(testKeyVar, unwrapper).Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, plainKey, key.Bytes())
	})

	t.Run("RemoteSecret", func(t *testing.T) {
		fetcher := &mockSecretFetcher{}
		fetcher.On("Fetch", ctx, "wrapped").Return(secretBody(wrapKey(t, keyURI, plainKey)), nil).Once()

		key, err := NewRemoteSecretResolver("wrapped", fetcher, unwrapper).Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, plainKey, key.Bytes())
	})

	t.Run("UnwrapFailureIsKeyUnavailable", func(t *testing.T) {
		t.Setenv(testKeyVar, base64.StdEncoding.EncodeToString(plainKey))

		_, err := NewEnvOverrideResolver(testKeyVar, unwrapper).Resolve(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
	})
}

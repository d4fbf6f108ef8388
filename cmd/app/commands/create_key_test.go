package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
)

// Manual mocks for KMS since they might not be generated in all environments
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoService.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoService.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

var envKeyLine = regexp.MustCompile(`(?m)^AES_KEY_B64="([^"]+)"$`)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseCreateKeyOutput extracts the AES_KEY_B64 value and the secret document.
func parseCreateKeyOutput(t *testing.T, out string) (string, cryptoDomain.SecretDocument) {
	t.Helper()

	match := envKeyLine.FindStringSubmatch(out)
	require.Len(t, match, 2, "output: %s", out)

	start := strings.Index(out, "{")
	require.GreaterOrEqual(t, start, 0)

	var doc cryptoDomain.SecretDocument
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &doc))
	return match[1], doc
}

func TestRunCreateKey(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("plain key", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateKey(ctx, nil, logger, &out, "", "")
		require.NoError(t, err)

		envValue, doc := parseCreateKeyOutput(t, out.String())
		assert.Equal(t, envValue, doc.Key)
		assert.NotContains(t, out.String(), "KMS_KEY_URI")

		raw, err := base64.StdEncoding.DecodeString(envValue)
		require.NoError(t, err)
		assert.Len(t, raw, cryptoDomain.KeySize)

		// The document must be accepted by the remote resolver.
		_, err = cryptoDomain.ParseSecretDocument([]byte(out.String()[strings.Index(out.String(), "{"):]))
		require.NoError(t, err)
	})

	t.Run("keys differ between runs", func(t *testing.T) {
		var first, second bytes.Buffer
		require.NoError(t, RunCreateKey(ctx, nil, logger, &first, "", ""))
		require.NoError(t, RunCreateKey(ctx, nil, logger, &second, "", ""))

		k1, _ := parseCreateKeyOutput(t, first.String())
		k2, _ := parseCreateKeyOutput(t, second.String())
		assert.NotEqual(t, k1, k2)
	})

	t.Run("kms wrapped key", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://test").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.MatchedBy(func(b []byte) bool {
			return len(b) == cryptoDomain.KeySize
		})).Return([]byte("wrapped-key"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateKey(ctx, mockService, logger, &out, "", "base64key://test")
		require.NoError(t, err)

		envValue, doc := parseCreateKeyOutput(t, out.String())
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("wrapped-key")), envValue)
		assert.Equal(t, envValue, doc.Key)
		assert.Contains(t, out.String(), `KMS_KEY_URI="base64key://test"`)

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("open keeper error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "awskms://bad").Return(nil, errors.New("boom"))

		var out bytes.Buffer
		err := RunCreateKey(ctx, mockService, logger, &out, "", "awskms://bad")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
		assert.Empty(t, out.String())

		mockService.AssertExpectations(t)
	})

	t.Run("encrypt error closes keeper", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://test").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.Anything).Return(nil, errors.New("denied"))
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateKey(ctx, mockService, logger, &out, "", "base64key://test")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encrypt key with KMS")
		assert.Empty(t, out.String())

		mockKeeper.AssertExpectations(t)
	})

	t.Run("custom env var name", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateKey(ctx, nil, logger, &out, "PII_KEY", "")
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`(?m)^PII_KEY="[^"]+"$`), out.String())
		assert.NotContains(t, out.String(), "AES_KEY_B64")
	})

	t.Run("close error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://test").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.Anything).Return([]byte("wrapped"), nil)
		mockKeeper.On("Close").Return(errors.New("close failed"))

		var out bytes.Buffer
		err := RunCreateKey(ctx, mockService, logger, &out, "", "base64key://test")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to close KMS keeper")
	})
}

package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/fieldcrypt/internal/errors"
)

func TestNewSymmetricKey(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{name: "32 bytes", input: make([]byte, 32)},
		{name: "31 bytes", input: make([]byte, 31), wantErr: ErrInvalidKeyLength},
		{name: "33 bytes", input: make([]byte, 33), wantErr: ErrInvalidKeyLength},
		{name: "16 bytes", input: make([]byte, 16), wantErr: ErrInvalidKeyLength},
		{name: "empty", input: []byte{}, wantErr: ErrInvalidKeyLength},
		{name: "nil", input: nil, wantErr: ErrInvalidKeyLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := NewSymmetricKey(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperrors.ErrUnavailable)
				assert.Nil(t, key)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key.Bytes(), KeySize)
		})
	}
}

func TestSymmetricKey_Immutable(t *testing.T) {
	raw := []byte("0123456789abcdef0123456789abcdef")
	key, err := NewSymmetricKey(raw)
	require.NoError(t, err)

	// mutating the source slice does not affect the key
	raw[0] = 'X'
	assert.Equal(t, byte('0'), key.Bytes()[0])

	// mutating a returned copy does not affect the key
	b := key.Bytes()
	b[1] = 'Y'
	assert.Equal(t, byte('1'), key.Bytes()[1])
}

func TestSymmetricKey_Equal(t *testing.T) {
	a, err := NewSymmetricKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	b, err := NewSymmetricKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	c, err := NewSymmetricKey(make([]byte, 32))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestSymmetricKey_StringRedacts(t *testing.T) {
	key, err := NewSymmetricKey([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	assert.NotContains(t, key.String(), "0123456789abcdef")
	assert.NotContains(t, fmt.Sprintf("%v", key), "0123456789abcdef")
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("zero key copy", func(t *testing.T) {
		key, err := NewSymmetricKey([]byte("0123456789abcdef0123456789abcdef"))
		assert.NoError(t, err)

		b := key.Bytes()
		Zero(b)
		assert.Equal(t, make([]byte, KeySize), b)

		// the key itself is untouched
		assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), key.Bytes())
	})

	t.Run("zero empty slice", func(t *testing.T) {
		b := []byte{}
		Zero(b)
		assert.Len(t, b, 0)
	})

	t.Run("zero nil slice", func(t *testing.T) {
		var b []byte
		assert.NotPanics(t, func() { Zero(b) })
	})
}

// Package mocks provides mock implementations of the crypto use case and its
// collaborators for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
)

// MockCipherUseCase is a mock implementation of usecase.CipherUseCase.
type MockCipherUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of CipherUseCase.
func (m *MockCipherUseCase) Encrypt(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method of CipherUseCase.
func (m *MockCipherUseCase) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	args := m.Called(ctx, ciphertext)
	return args.String(0), args.Error(1)
}

// MockKeySource is a mock implementation of service.KeySource.
type MockKeySource struct {
	mock.Mock
}

// GetKey mocks the GetKey method of KeySource.
func (m *MockKeySource) GetKey(ctx context.Context) (*cryptoDomain.SymmetricKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.SymmetricKey), args.Error(1)
}

// MockCipherManager is a mock implementation of service.CipherManager.
type MockCipherManager struct {
	mock.Mock
}

// CreateCipher mocks the CreateCipher method of CipherManager.
func (m *MockCipherManager) CreateCipher(key *cryptoDomain.SymmetricKey) (cryptoService.BlockCipher, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoService.BlockCipher), args.Error(1)
}

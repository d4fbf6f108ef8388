package service

import (
	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// CipherManagerService implements CipherManager for AES-256-CBC.
type CipherManagerService struct{}

// NewCipherManager creates a new CipherManagerService.
func NewCipherManager() *CipherManagerService {
	return &CipherManagerService{}
}

// CreateCipher creates an AES-256-CBC cipher keyed by key.
func (cm *CipherManagerService) CreateCipher(key *cryptoDomain.SymmetricKey) (BlockCipher, error) {
	if key == nil {
		return nil, cryptoDomain.ErrInvalidKeyLength
	}

	material := key.Bytes()
	defer cryptoDomain.Zero(material)

	return NewAESCBC(material)
}

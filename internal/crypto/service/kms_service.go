package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap keys.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens KMS keepers by URI.
type KMSService interface {
	// OpenKeeper opens a keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the KMS provider addressed by keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// KeeperUnwrapper implements KeyUnwrapper by decrypting wrapped keys with a
// KMS keeper. The keeper is opened per call; unwrapping happens once per
// process because the resolved key is cached.
type KeeperUnwrapper struct {
	kms    KMSService
	keyURI string
}

// NewKeeperUnwrapper creates an unwrapper for the KMS key at keyURI.
func NewKeeperUnwrapper(kms KMSService, keyURI string) *KeeperUnwrapper {
	return &KeeperUnwrapper{kms: kms, keyURI: keyURI}
}

// Unwrap decrypts wrapped with the KMS key.
func (u *KeeperUnwrapper) Unwrap(ctx context.Context, wrapped []byte) (plaintext []byte, err error) {
	keeper, err := u.kms.OpenKeeper(ctx, u.keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close KMS keeper: %w", closeErr)
		}
	}()

	plaintext, err = keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key with KMS: %w", err)
	}
	return plaintext, nil
}

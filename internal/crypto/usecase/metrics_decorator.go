package usecase

import (
	"context"
	"time"

	"github.com/allisson/fieldcrypt/internal/metrics"
)

// cipherUseCaseWithMetrics decorates CipherUseCase with metrics instrumentation.
type cipherUseCaseWithMetrics struct {
	next    CipherUseCase
	metrics metrics.BusinessMetrics
}

// NewCipherUseCaseWithMetrics wraps a CipherUseCase with metrics recording.
func NewCipherUseCaseWithMetrics(useCase CipherUseCase, m metrics.BusinessMetrics) CipherUseCase {
	return &cipherUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for field encryption.
func (c *cipherUseCaseWithMetrics) Encrypt(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	out, err := c.next.Encrypt(ctx, plaintext)
	c.record(ctx, "encrypt", start, err)
	return out, err
}

// Decrypt records metrics for field decryption.
func (c *cipherUseCaseWithMetrics) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	start := time.Now()
	out, err := c.next.Decrypt(ctx, ciphertext)
	c.record(ctx, "decrypt", start, err)
	return out, err
}

func (c *cipherUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "crypto", operation, status)
	c.metrics.RecordDuration(ctx, "crypto", operation, time.Since(start), status)
}

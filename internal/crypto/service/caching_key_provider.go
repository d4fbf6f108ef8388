package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
)

// CachingKeyProvider implements KeySource over an ordered list of resolvers and
// memoizes the first key it obtains.
//
// The resolved key is published through an atomic pointer, so once it is set
// GetKey never takes the lock. Resolution runs under a mutex with a re-check,
// which confines contention to the cold start. A failed resolution is not
// cached; the next call tries again.
type CachingKeyProvider struct {
	resolvers []KeyResolver
	logger    *slog.Logger

	key atomic.Pointer[cryptoDomain.SymmetricKey]
	mu  sync.Mutex
}

// NewCachingKeyProvider creates a provider that tries resolvers in the given order.
func NewCachingKeyProvider(logger *slog.Logger, resolvers ...KeyResolver) *CachingKeyProvider {
	return &CachingKeyProvider{
		resolvers: resolvers,
		logger:    logger,
	}
}

// GetKey returns the cached key, resolving it on first use.
//
// Resolvers are tried in order. One that reports ErrKeyAbsent hands over to the
// next; the first success wins; any other failure is returned as is. When every
// resolver is absent the result is ErrConfigurationMissing.
func (p *CachingKeyProvider) GetKey(ctx context.Context) (*cryptoDomain.SymmetricKey, error) {
	if key := p.key.Load(); key != nil {
		return key, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if key := p.key.Load(); key != nil {
		return key, nil
	}

	key, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}

	p.key.Store(key)
	return key, nil
}

// Resolved reports whether a key has been cached.
func (p *CachingKeyProvider) Resolved() bool {
	return p.key.Load() != nil
}

// resolve walks the resolver chain. Must be called with p.mu held.
func (p *CachingKeyProvider) resolve(ctx context.Context) (*cryptoDomain.SymmetricKey, error) {
	if len(p.resolvers) == 0 {
		return nil, fmt.Errorf("%w: no key sources configured", cryptoDomain.ErrConfigurationMissing)
	}

	reasons := make([]string, 0, len(p.resolvers))
	for _, resolver := range p.resolvers {
		start := time.Now()
		key, err := resolver.Resolve(ctx)
		if err == nil {
			p.logger.Info("encryption key resolved",
				slog.String("source", resolver.Name()),
				slog.Duration("duration", time.Since(start)),
			)
			return key, nil
		}

		if errors.Is(err, cryptoDomain.ErrKeyAbsent) {
			p.logger.Debug("key source absent, trying next",
				slog.String("source", resolver.Name()),
			)
			reasons = append(reasons, err.Error())
			continue
		}

		p.logger.Error("failed to resolve encryption key",
			slog.String("source", resolver.Name()),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, err
	}

	return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrConfigurationMissing, strings.Join(reasons, "; "))
}

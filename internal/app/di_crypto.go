package app

import (
	"fmt"

	"github.com/allisson/fieldcrypt/internal/config"
	cryptoHTTP "github.com/allisson/fieldcrypt/internal/crypto/http"
	cryptoService "github.com/allisson/fieldcrypt/internal/crypto/service"
	cryptoUseCase "github.com/allisson/fieldcrypt/internal/crypto/usecase"
	"github.com/allisson/fieldcrypt/internal/metrics"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// SecretFetcher returns the remote secret store client.
func (c *Container) SecretFetcher() cryptoService.SecretFetcher {
	c.secretFetcherInit.Do(func() {
		c.secretFetcher = cryptoService.NewRuntimeVarFetcher(
			c.config.SecretStoreProvider,
			c.config.AWSRegion,
			c.config.SecretFetchTimeout,
		)
	})
	return c.secretFetcher
}

// CipherManager returns the AES-256-CBC cipher factory.
func (c *Container) CipherManager() cryptoService.CipherManager {
	c.cipherManagerInit.Do(func() {
		c.cipherManager = cryptoService.NewCipherManager()
	})
	return c.cipherManager
}

// KeyProvider returns the process-wide caching key provider.
// Construction never touches a key source; resolution happens on first use.
func (c *Container) KeyProvider() (*cryptoService.CachingKeyProvider, error) {
	var err error
	c.keyProviderInit.Do(func() {
		c.keyProvider, err = c.initKeyProvider()
		if err != nil {
			c.storeInitError("keyProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("keyProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.keyProvider, nil
}

// CipherUseCase returns the field encryption use case, instrumented when
// metrics are enabled.
func (c *Container) CipherUseCase() (cryptoUseCase.CipherUseCase, error) {
	var err error
	c.cipherUseCaseInit.Do(func() {
		c.cipherUseCase, err = c.initCipherUseCase()
		if err != nil {
			c.storeInitError("cipherUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cipherUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.cipherUseCase, nil
}

// CipherHandler returns the HTTP handler for the cipher endpoints.
func (c *Container) CipherHandler() (*cryptoHTTP.CipherHandler, error) {
	var err error
	c.cipherHandlerInit.Do(func() {
		c.cipherHandler, err = c.initCipherHandler()
		if err != nil {
			c.storeInitError("cipherHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cipherHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.cipherHandler, nil
}

// keyUnwrapper returns a KMS unwrapper when KMS_KEY_URI is set, nil otherwise.
func (c *Container) keyUnwrapper() cryptoService.KeyUnwrapper {
	if c.config.KMSKeyURI == "" {
		return nil
	}
	return cryptoService.NewKeeperUnwrapper(c.KMSService(), c.config.KMSKeyURI)
}

// keyResolvers builds the resolver chain selected by KEY_SOURCE.
func (c *Container) keyResolvers() ([]cryptoService.KeyResolver, error) {
	unwrapper := c.keyUnwrapper()
	env := cryptoService.NewEnvOverrideResolver(c.config.KeyEnvVar, unwrapper)
	remote := cryptoService.NewRemoteSecretResolver(c.config.SecretName, c.SecretFetcher(), unwrapper)

	switch c.config.KeySource {
	case config.KeySourceAuto, "":
		return []cryptoService.KeyResolver{env, remote}, nil
	case config.KeySourceEnv:
		return []cryptoService.KeyResolver{env}, nil
	case config.KeySourceRemote:
		return []cryptoService.KeyResolver{remote}, nil
	default:
		return nil, fmt.Errorf("unsupported key source: %q", c.config.KeySource)
	}
}

// initKeyProvider creates the caching key provider and, when metrics are
// enabled, exports its resolution state.
func (c *Container) initKeyProvider() (*cryptoService.CachingKeyProvider, error) {
	resolvers, err := c.keyResolvers()
	if err != nil {
		return nil, err
	}

	provider := cryptoService.NewCachingKeyProvider(c.Logger(), resolvers...)

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for key provider: %w", err)
	}
	if metricsProvider != nil {
		if err := metrics.RegisterKeyStatusGauge(
			metricsProvider.MeterProvider(),
			c.config.MetricsNamespace,
			provider.Resolved,
		); err != nil {
			return nil, err
		}
	}

	return provider, nil
}

// initCipherUseCase creates the cipher use case with all its dependencies.
func (c *Container) initCipherUseCase() (cryptoUseCase.CipherUseCase, error) {
	keyProvider, err := c.KeyProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for cipher use case: %w", err)
	}

	useCase := cryptoUseCase.NewCipherUseCase(keyProvider, c.CipherManager(), c.Logger())

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for cipher use case: %w", err)
	}
	return cryptoUseCase.NewCipherUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initCipherHandler creates the cipher HTTP handler.
func (c *Container) initCipherHandler() (*cryptoHTTP.CipherHandler, error) {
	useCase, err := c.CipherUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher use case for cipher handler: %w", err)
	}
	return cryptoHTTP.NewCipherHandler(useCase, c.Logger()), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	gcaws "gocloud.dev/aws"
	"gocloud.dev/runtimevar"
	"gocloud.dev/runtimevar/awssecretsmanager"
	"gocloud.dev/runtimevar/filevar"
)

// Secret store providers accepted by NewRuntimeVarFetcher.
const (
	SecretStoreAWSSecretsManager = "awssecretsmanager"
	SecretStoreFileVar           = "filevar"

	// DefaultSecretStoreProvider is used when none is configured.
	DefaultSecretStoreProvider = SecretStoreAWSSecretsManager
)

// variableOpener opens a runtimevar variable holding the secret named secretID.
type variableOpener func(ctx context.Context, secretID string) (*runtimevar.Variable, error)

// RuntimeVarFetcher implements SecretFetcher on top of gocloud.dev/runtimevar.
//
// Every Fetch opens a variable for the secret, reads its first value and closes
// it again, so no watcher outlives the call. Variables are opened through the
// driver constructors rather than URLs, so the secret identifier is passed
// through verbatim: ARNs and names containing ':' or '@' are fine.
type RuntimeVarFetcher struct {
	provider string
	region   string
	timeout  time.Duration
	open     variableOpener
}

// NewRuntimeVarFetcher creates a fetcher for the given provider and region.
// "awssecretsmanager" reads AWS Secrets Manager in region; "filevar" reads a
// local file whose path is the secret identifier. A zero timeout leaves the
// deadline entirely to the caller's context.
func NewRuntimeVarFetcher(provider, region string, timeout time.Duration) *RuntimeVarFetcher {
	if provider == "" {
		provider = DefaultSecretStoreProvider
	}
	f := &RuntimeVarFetcher{
		provider: provider,
		region:   region,
		timeout:  timeout,
	}

	switch provider {
	case SecretStoreAWSSecretsManager:
		f.open = f.openAWSSecretsManager
	case SecretStoreFileVar:
		f.open = openFileVar
	default:
		f.open = func(context.Context, string) (*runtimevar.Variable, error) {
			return nil, fmt.Errorf("unsupported secret store provider %q", provider)
		}
	}
	return f
}

// Fetch reads the current value of secretID.
//
// runtimevar keeps waiting for a first good value, so the configured timeout
// bounds how long a missing or unreadable secret can block.
func (f *RuntimeVarFetcher) Fetch(ctx context.Context, secretID string) (body []byte, err error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	v, err := f.open(ctx, secretID)
	if err != nil {
		return nil, fmt.Errorf("failed to open secret store variable: %w", err)
	}
	defer func() {
		if closeErr := v.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close secret store variable: %w", closeErr)
		}
	}()

	snapshot, err := v.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	switch value := snapshot.Value.(type) {
	case string:
		return []byte(value), nil
	case []byte:
		return value, nil
	default:
		return nil, errors.New("unexpected secret value type")
	}
}

// openAWSSecretsManager builds an SDK client for the configured region from the
// default credential chain.
func (f *RuntimeVarFetcher) openAWSSecretsManager(
	ctx context.Context,
	secretID string,
) (*runtimevar.Variable, error) {
	params := url.Values{}
	if f.region != "" {
		params.Set("region", f.region)
	}
	cfg, err := gcaws.V2ConfigFromURLParams(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awssecretsmanager.OpenVariable(awssecretsmanager.Dial(cfg), secretID, runtimevar.StringDecoder, nil)
}

func openFileVar(_ context.Context, path string) (*runtimevar.Variable, error) {
	return filevar.OpenVariable(path, runtimevar.StringDecoder, nil)
}

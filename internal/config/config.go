// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

// Key source modes accepted by KEY_SOURCE.
const (
	// KeySourceAuto tries the environment override first, then the remote secret store.
	KeySourceAuto = "auto"
	// KeySourceEnv reads the key from the environment only.
	KeySourceEnv = "env"
	// KeySourceRemote reads the key from the remote secret store only.
	KeySourceRemote = "remote"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ServerShutdownTimeout bounds graceful shutdown of the HTTP servers.
	ServerShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RateLimitEnabled enables per-IP rate limiting of the cipher endpoints.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained request rate allowed per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size allowed per client IP.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// KeySource selects the key resolvers: "auto", "env" or "remote".
	KeySource string
	// KeyEnvVar names the environment variable holding the base64 key override.
	KeyEnvVar string
	// KeyPreload resolves the key at startup instead of on first use.
	KeyPreload bool

	// SecretStoreProvider selects the runtimevar driver of the secret store
	// ("awssecretsmanager" or "filevar").
	SecretStoreProvider string
	// SecretName identifies the secret document holding the key.
	SecretName string
	// AWSRegion is the region of the AWS Secrets Manager endpoint.
	AWSRegion string
	// SecretFetchTimeout bounds a single secret store fetch.
	SecretFetchTimeout time.Duration

	// KMSKeyURI, when set, is the KMS key that wraps the stored encryption key.
	KMSKeyURI string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server
		ServerHost:            env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:            env.GetInt("SERVER_PORT", 8080),
		ServerShutdownTimeout: env.GetDuration("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Rate limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 50.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 100),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "fieldcrypt"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Key resolution
		KeySource:  env.GetString("KEY_SOURCE", KeySourceAuto),
		KeyEnvVar:  env.GetString("KEY_ENV_VAR", "AES_KEY_B64"),
		KeyPreload: env.GetBool("KEY_PRELOAD", false),

		// Remote secret store
		SecretStoreProvider: env.GetString("SECRET_STORE_PROVIDER", "awssecretsmanager"),
		SecretName:          env.GetString("CRYPTO_AES_KEY_SECRET_NAME", ""),
		AWSRegion:           env.GetString("AWS_REGION", "us-east-1"),
		SecretFetchTimeout:  env.GetDuration("SECRET_FETCH_TIMEOUT_SECONDS", 10, time.Second),

		// KMS
		KMSKeyURI: env.GetString("KMS_KEY_URI", ""),
	}
}

// Validate checks the values that cannot be defaulted safely.
// A missing secret name is not an error here: it surfaces as a key
// configuration error on first use, like every other key problem.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.MetricsPort, validation.When(c.MetricsEnabled,
			validation.Required, validation.Min(1), validation.Max(65535))),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.KeySource, validation.Required,
			validation.In(KeySourceAuto, KeySourceEnv, KeySourceRemote)),
		validation.Field(&c.SecretStoreProvider, validation.Required,
			validation.In("awssecretsmanager", "filevar")),
		validation.Field(&c.RateLimitRequestsPerSec, validation.When(c.RateLimitEnabled,
			validation.Required, validation.Min(0.0).Exclusive())),
		validation.Field(&c.RateLimitBurst, validation.When(c.RateLimitEnabled,
			validation.Required, validation.Min(1))),
	)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file from the current directory up to the
// filesystem root and loads the first one found.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

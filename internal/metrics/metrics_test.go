package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, namespace string) *Provider {
	t.Helper()
	provider, err := NewProvider(namespace)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
	return provider
}

// scrape returns the Prometheus exposition output of provider.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// assertMetricLine matches a sample line while tolerating the otel scope labels
// the exporter adds.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	assert.Regexp(t, name+`\{[^}]*`+labels+`[^}]*\} `+value, output)
}

func TestProvider(t *testing.T) {
	provider := newTestProvider(t, "fieldcrypt_test")

	assert.Equal(t, "fieldcrypt_test", provider.Namespace())
	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.Handler())

	t.Run("ShutdownWithoutMeterProvider", func(t *testing.T) {
		assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
	})
}

func TestBusinessMetrics(t *testing.T) {
	provider := newTestProvider(t, "biz")
	bm, err := NewBusinessMetrics(provider.MeterProvider(), "biz")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "crypto", "encrypt", "success")
	bm.RecordOperation(ctx, "crypto", "encrypt", "success")
	bm.RecordOperation(ctx, "crypto", "decrypt", "error")
	bm.RecordDuration(ctx, "crypto", "encrypt", 5*time.Millisecond, "success")
	bm.RecordDuration(ctx, "crypto", "decrypt", 2*time.Millisecond, "error")

	output := scrape(t, provider)
	assertMetricLine(t, output, `biz_operations_total`,
		`domain="crypto".*operation="encrypt".*status="success"`, `2`)
	assertMetricLine(t, output, `biz_operations_total`,
		`domain="crypto".*operation="decrypt".*status="error"`, `1`)
	assertMetricLine(t, output, `biz_operation_duration_seconds_count`,
		`domain="crypto".*operation="encrypt".*status="success"`, `1`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)

	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "crypto", "encrypt", "success")
		bm.RecordDuration(context.Background(), "crypto", "decrypt", time.Millisecond, "error")
	})
}

func TestRegisterKeyStatusGauge(t *testing.T) {
	provider := newTestProvider(t, "keys")

	var resolved atomic.Bool
	require.NoError(t, RegisterKeyStatusGauge(provider.MeterProvider(), "keys", resolved.Load))

	assert.Regexp(t, `keys_key_resolved(\{[^}]*\})? 0`, scrape(t, provider))

	resolved.Store(true)
	assert.Regexp(t, `keys_key_resolved(\{[^}]*\})? 1`, scrape(t, provider))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := newTestProvider(t, "web")

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "web"))
	router.POST("/v1/encrypt", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ciphertext": "x"})
	})
	router.POST("/v1/decrypt", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_input"})
	})

	for _, path := range []string{"/v1/encrypt", "/v1/encrypt", "/v1/decrypt", "/nope"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	}

	output := scrape(t, provider)
	assertMetricLine(t, output, `web_http_requests_total`,
		`method="POST".*path="/v1/encrypt".*status_code="200"`, `2`)
	assertMetricLine(t, output, `web_http_requests_total`,
		`method="POST".*path="/v1/decrypt".*status_code="422"`, `1`)
	assertMetricLine(t, output, `web_http_requests_total`,
		`method="POST".*path="unknown".*status_code="404"`, `1`)
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "unknown", routePattern(""))
	assert.Equal(t, "/v1/encrypt", routePattern("/v1/encrypt"))
}

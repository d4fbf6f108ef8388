package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterKeyStatusGauge exports <namespace>_key_resolved, which reads 1 once
// the encryption key has been resolved and cached and 0 before that.
func RegisterKeyStatusGauge(meterProvider metric.MeterProvider, namespace string, resolved func() bool) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_key_resolved", namespace),
		metric.WithDescription("Whether the encryption key has been resolved (1) or not (0)"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			if resolved() {
				o.Observe(1)
			} else {
				o.Observe(0)
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create key status gauge: %w", err)
	}
	return nil
}

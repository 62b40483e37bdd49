package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abgdnv/inventory/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// SetupMetrics installs a global meter provider backed by a Prometheus exporter and returns
// the scrape handler. With metrics disabled the handler is nil and the global no-op provider stays.
func SetupMetrics(serviceName string, cfg config.TelemetryConfig) (http.Handler, ShutdownFunc, error) {
	if !cfg.Metrics.Enabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	mp, handler, err := NewMeterProvider(serviceName)
	if err != nil {
		return nil, nil, err
	}
	otel.SetMeterProvider(mp)
	return handler, mp.Shutdown, nil
}

// NewMeterProvider creates a meter provider whose instruments are served by the returned handler.
// Each provider gets its own registry.
func NewMeterProvider(serviceName string) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	return mp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

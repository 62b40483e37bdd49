package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abgdnv/inventory/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMetrics_Disabled(t *testing.T) {
	handler, shutdown, err := SetupMetrics("inventory", config.TelemetryConfig{})

	require.NoError(t, err)
	assert.Nil(t, handler)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewMeterProvider_ServesCounters(t *testing.T) {
	// given
	mp, handler, err := NewMeterProvider("inventory")
	require.NoError(t, err)
	defer func() { _ = mp.Shutdown(context.Background()) }()

	counter, err := mp.Meter("test").Int64Counter("requests")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	// when
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "requests_total")
	assert.Contains(t, rr.Body.String(), `service_name="inventory"`)
}

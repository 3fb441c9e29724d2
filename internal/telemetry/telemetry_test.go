package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"hostel-service/internal/logger"
)

func TestInitMeterProvider_WithoutEndpoint(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()

	provider, err := InitMeterProvider(ctx, "", "hostel-service", "test", log)
	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.NotNil(t, otel.GetMeterProvider().Meter("test"))

	require.NoError(t, Shutdown(ctx, provider, log))
}

func TestShutdown_NilProvider(t *testing.T) {
	assert.NoError(t, Shutdown(context.Background(), nil, logger.Discard()))
}

package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestInitWritesSpans(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	shutdown, err := Init(ctx, Settings{
		ServiceName:    "sensordash-test",
		ServiceVersion: "dev",
		Writer:         &buf,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry-test").Start(ctx, "Engine.Run")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), "Engine.Run")
	assert.Contains(t, buf.String(), "sensordash-test")
}

func TestInitDiscardsWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	ctx := context.Background()

	shutdown, err := Init(ctx, Settings{ServiceName: "sensordash-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))
}

func TestInitRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	shutdown, err := Init(ctx, Settings{
		ServiceName:    "sensordash-test",
		ServiceVersion: "dev",
		Writer:         &buf,
	})
	require.NoError(t, err)
	require.IsType(t, &sdkmetric.MeterProvider{}, otel.GetMeterProvider())

	counter, err := otel.Meter("telemetry-test").Int64Counter("sensordash.samples.generated")
	require.NoError(t, err)
	counter.Add(ctx, 18000)

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), "sensordash.samples.generated")
	assert.Contains(t, buf.String(), "18000")
}

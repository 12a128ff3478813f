package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevMP := otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})
}

func TestInit_DisabledBridgesMetricsOnly(t *testing.T) {
	restoreGlobals(t)
	reg := prometheus.NewRegistry()
	prevTP := otel.GetTracerProvider()

	tel, err := Init(context.Background(), Options{Registerer: reg})
	require.NoError(t, err)
	defer func() { require.NoError(t, tel.Shutdown(context.Background())) }()

	assert.Nil(t, tel.LogHandler)
	assert.Equal(t, prevTP, otel.GetTracerProvider(), "tracer provider is left alone")

	counter, err := otel.Meter("test").Int64Counter("notificator.test.dispatches", metric.WithDescription("test"))
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if strings.Contains(mf.GetName(), "dispatches") {
			found = true
		}
	}
	assert.True(t, found, "otel metric is exposed through the Prometheus registry")
}

func TestInit_EnabledWithoutEndpoint(t *testing.T) {
	restoreGlobals(t)

	tel, err := Init(context.Background(), Options{
		Enabled:      true,
		ServiceName:  "notificator-test",
		SamplingRate: 5,
		Registerer:   prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, tel.Shutdown(context.Background())) }()

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "an SDK tracer provider is installed")
	assert.Nil(t, tel.LogHandler, "logs stay local without an endpoint")

	_, span := otel.Tracer("test").Start(context.Background(), "dispatch")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()
}

// Package telemetry installs the OpenTelemetry providers used by notificator.
//
// Metrics are always bridged into the Prometheus registry served at /metrics.
// Traces and logs are only produced when telemetry is enabled, and are
// exported over OTLP/gRPC when an endpoint is configured.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const defaultServiceName = "notificator"

// Options configures the OpenTelemetry providers.
type Options struct {
	// Enabled turns on tracing and log export.
	Enabled bool

	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "otel-collector:4317".
	// When empty, spans are sampled but not exported and logs stay local.
	Endpoint string

	// Insecure disables TLS for the OTLP connection.
	Insecure bool

	// SamplingRate is the probability of sampling a trace, clamped to [0, 1].
	SamplingRate float64

	// Registerer receives the OpenTelemetry metrics. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// Logger is used for diagnostics during initialization and for
	// OpenTelemetry internal errors.
	Logger *slog.Logger
}

// Telemetry holds the installed providers.
type Telemetry struct {
	// LogHandler forwards records to the OTLP log exporter. It is nil
	// unless telemetry is enabled with an endpoint.
	LogHandler slog.Handler

	shutdowns []func(context.Context) error
}

// Shutdown flushes and stops every provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		errs = append(errs, t.shutdowns[i](ctx))
	}
	return errors.Join(errs...)
}

// Init installs the global meter provider and, when enabled, the global
// tracer provider, propagator and logger provider.
func Init(ctx context.Context, opts Options) (*Telemetry, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = defaultServiceName
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	log := opts.Logger

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("service.version", opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTel resource: %w", err)
	}

	t := &Telemetry{}
	if err := t.initMetrics(ctx, opts, res); err != nil {
		return nil, errors.Join(err, t.Shutdown(ctx))
	}

	if !opts.Enabled {
		return t, nil
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warn("OpenTelemetry internal error", "error", err)
	}))

	if err := t.initTraces(ctx, opts, res); err != nil {
		return nil, errors.Join(err, t.Shutdown(ctx))
	}
	if opts.Endpoint != "" {
		if err := t.initLogs(ctx, opts, res); err != nil {
			return nil, errors.Join(err, t.Shutdown(ctx))
		}
	}

	log.Info("OpenTelemetry initialized",
		"service_name", opts.ServiceName,
		"endpoint", opts.Endpoint,
		"sampling_rate", opts.SamplingRate,
	)
	return t, nil
}

func (t *Telemetry) initMetrics(ctx context.Context, opts Options, res *resource.Resource) error {
	promExporter, err := otelprom.New(otelprom.WithRegisterer(opts.Registerer))
	if err != nil {
		return fmt.Errorf("creating Prometheus metric bridge: %w", err)
	}
	mpOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	}

	if opts.Enabled && opts.Endpoint != "" {
		grpcOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			grpcOpts = append(grpcOpts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, grpcOpts...)
		if err != nil {
			return fmt.Errorf("creating OTLP metric exporter: %w", err)
		}
		mpOpts = append(mpOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)))
	}

	mp := sdkmetric.NewMeterProvider(mpOpts...)
	otel.SetMeterProvider(mp)
	t.shutdowns = append(t.shutdowns, mp.Shutdown)
	return nil
}

func (t *Telemetry) initTraces(ctx context.Context, opts Options, res *resource.Resource) error {
	rate := opts.SamplingRate
	if rate < 0 || rate > 1 {
		opts.Logger.Warn("OTel sampling rate out of range, using 1.0", "provided", rate)
		rate = 1
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	}
	if opts.Endpoint != "" {
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return fmt.Errorf("creating OTLP trace exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.shutdowns = append(t.shutdowns, tp.Shutdown)
	return nil
}

func (t *Telemetry) initLogs(ctx context.Context, opts Options, res *resource.Resource) error {
	grpcOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		grpcOpts = append(grpcOpts, otlploggrpc.WithInsecure())
	}
	exp, err := otlploggrpc.New(ctx, grpcOpts...)
	if err != nil {
		return fmt.Errorf("creating OTLP log exporter: %w", err)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
	)
	global.SetLoggerProvider(lp)
	t.LogHandler = otelslog.NewHandler(opts.ServiceName, otelslog.WithLoggerProvider(lp))
	t.shutdowns = append(t.shutdowns, lp.Shutdown)
	return nil
}

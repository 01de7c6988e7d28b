package tracer

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/version"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var (
	once         sync.Once
	shutdownFunc func()
	initErr      error
)

var pyroLogrus = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}()

// StdoutWriter receives spans when no OTLP endpoint is configured.
var StdoutWriter io.Writer = io.Discard

func exporter(ctx context.Context, cfg *config.Config) (trace.SpanExporter, error) {
	if cfg.RemoteTraceRpcURI == "" {
		return stdouttrace.New(stdouttrace.WithWriter(StdoutWriter))
	}
	// OTLP exporter (Tempo, etc)
	return otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.RemoteTraceRpcURI),
		otlptracegrpc.WithCompressor("gzip"),
	)
}

// Instance installs the global tracer provider and propagators once.
func Instance(globalCtx context.Context, cfg *config.Config) (func(), error) {
	once.Do(func() {
		log := logger.Instance()

		exp, err := exporter(globalCtx, cfg)
		if err != nil {
			log.Error("Failed to create span exporter", slog.String("error", err.Error()))
			initErr = err
			return
		}

		res, err := resource.New(globalCtx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(cfg.AppName),
				semconv.ServiceVersionKey.String(version.Version),
				attribute.String("storage.backend", cfg.StorageBackend),
			),
		)
		if err != nil {
			log.Error("Failed to create resource", slog.String("error", err.Error()))
			initErr = err
			return
		}

		tp := trace.NewTracerProvider(
			trace.WithBatcher(exp),
			trace.WithResource(res),
		)

		var provider oteltrace.TracerProvider = tp
		if cfg.RemoteProfilingHttpURI != "" {
			// Profiles get span ids attached through the wrapped provider
			provider = otelpyroscope.NewTracerProvider(tp)
			_, err := pyroscope.Start(pyroscope.Config{
				ApplicationName: cfg.AppName,
				ServerAddress:   cfg.RemoteProfilingHttpURI,
				Logger:          pyroLogrus,
			})
			if err != nil {
				log.Error("Pyroscope failed to start", slog.String("error", err.Error()))
			} else {
				log.Info("Pyroscope started successfully")
			}
		}
		otel.SetTracerProvider(provider)

		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

		log.Info("OpenTelemetry Tracer initialized", slog.Bool("otlp", cfg.RemoteTraceRpcURI != ""))

		shutdownFunc = func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down tracer provider", slog.String("error", err.Error()))
			}
		}
	})

	return shutdownFunc, initErr
}

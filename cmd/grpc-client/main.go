package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"

	"storefront/internal/client"
	"storefront/internal/config"
	catalogrpc "storefront/internal/handler/grpc"
	"storefront/internal/logger"
	"storefront/internal/tracer"
	"storefront/internal/version"

	"go.opentelemetry.io/otel"
)

// Probes the catalog service in a loop, logging which backend answered and
// under which trace id. Useful behind a round-robin resolver.
func main() {
	maxDelay := flag.Duration("max-delay", time.Second, "upper bound of the random pause between calls")
	flag.Parse()
	if *maxDelay <= 0 {
		*maxDelay = time.Millisecond
	}

	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.Instance()
	probeTracer := otel.Tracer("CatalogProbe")

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	shutdown, err := tracer.Instance(globalCtx, cfg)
	if err != nil {
		os.Exit(1)
	}
	defer shutdown()

	conn, err := client.DialCatalog(cfg.ExternalGRPC)
	if err != nil {
		logger.Error(globalCtx, "Failed to connect to gRPC server",
			slog.String("error", err.Error()),
			slog.String("target", cfg.ExternalGRPC),
		)
		os.Exit(1)
	}
	defer func() {
		logger.Info(context.Background(), "Closing gRPC connection")
		_ = conn.Close()
	}()

	logger.Info(globalCtx, "Catalog probe started",
		slog.String("target", cfg.ExternalGRPC),
		slog.Duration("max_delay", *maxDelay),
	)

	for {
		ctx, cancel := context.WithTimeout(globalCtx, 3*time.Second)
		ctx, span := probeTracer.Start(ctx, "CatalogProbe.List")
		var (
			trailer metadata.MD
			out     catalogrpc.ProductList
		)
		err := conn.Invoke(ctx, catalogrpc.CatalogListMethod, &emptypb.Empty{}, &out, grpc.Trailer(&trailer))
		span.End()
		cancel()

		traceID := "empty"
		if ids := trailer.Get("x-trace-id"); len(ids) > 0 {
			traceID = ids[0]
		}
		if err != nil {
			logger.Error(ctx, "Error calling List",
				slog.String("error", err.Error()),
				slog.String("trace_id", traceID),
			)
		} else {
			logger.Info(ctx, "Received products",
				slog.String("resolver", out.Resolver),
				slog.String("trace_id", traceID),
				slog.Int("count", len(out.Products)),
			)
		}

		delay := time.Duration(rand.Int63n(int64(*maxDelay)) + 1)
		select {
		case <-globalCtx.Done():
			logger.Info(context.Background(), "Shutting down catalog probe")
			return
		case <-time.After(delay):
		}
	}
}

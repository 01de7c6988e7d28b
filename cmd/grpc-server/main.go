package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"golang.org/x/sync/errgroup"

	"storefront/internal/auth"
	"storefront/internal/bootstrap"
	"storefront/internal/config"
	grpcHandler "storefront/internal/handler/grpc"
	"storefront/internal/logger"
	middleware_grpc "storefront/internal/middleware/grpc"
	"storefront/internal/tracer"
	"storefront/internal/version"
)

func main() {
	globalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Instance()
	cfg := config.Instance()

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	// Initialize telemetry (OpenTelemetry + Pyroscope)
	shutdown, err := tracer.Instance(globalCtx, cfg)
	if err != nil {
		os.Exit(1)
	}
	defer shutdown()

	catalog, err := bootstrap.OpenCatalog(globalCtx, cfg)
	if err != nil {
		logger.Error(globalCtx, "Failed to open catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer catalog.Close(context.Background())

	// Wiring
	issuer := auth.NewTokenIssuer(cfg.AdminSecret, cfg.SessionSigningKey, cfg.SessionTTL)
	interceptors := []grpc.UnaryServerInterceptor{middleware_grpc.UnaryTracingInterceptor()}
	if cfg.RequireAdminToken {
		interceptors = append(interceptors, middleware_grpc.AdminUnaryInterceptor(issuer, grpcHandler.MutatingMethods))
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	grpcHandler.RegisterCatalogServer(grpcServer, grpcHandler.NewCatalogHandler(catalog.Service, issuer))

	lis, err := net.Listen("tcp", ":"+cfg.AppPort)
	if err != nil {
		logger.Error(globalCtx, "failed to listen", slog.String("error", err.Error()))
		os.Exit(1)
	}

	g, ctx := errgroup.WithContext(globalCtx)
	g.Go(func() error {
		logger.Info(ctx, "gRPC server running", slog.String("port", cfg.AppPort))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down gRPC server")
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "failed to serve", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info(context.Background(), "gRPC server exited cleanly")
}

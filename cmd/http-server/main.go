package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/auth"
	"storefront/internal/bootstrap"
	"storefront/internal/config"
	handler "storefront/internal/handler/http"
	"storefront/internal/logger"
	middleware_http "storefront/internal/middleware/http"
	"storefront/internal/tracer"
	"storefront/internal/version"

	"golang.org/x/sync/errgroup"
)

func main() {
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	handlers := handler.Handlers{
		Products:  handler.NewProductHandler(catalog.Service),
		Session:   handler.NewSessionHandler(issuer),
		Health:    handler.NewHealthHandler(catalog.Health),
		StaticDir: cfg.StaticDir,
	}
	if cfg.RequireAdminToken {
		handlers.AdminOnly = middleware_http.AdminOnly(issuer)
	}
	mux := handler.NewRouter(handlers)

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      middleware_http.CORS(middleware_http.TraceMiddleware(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(globalCtx)
	g.Go(func() error {
		logger.Info(ctx, "HTTP server running",
			slog.String("addr", server.Addr),
			slog.Bool("adminToken", cfg.RequireAdminToken),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info(context.Background(), "HTTP server exited cleanly")
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"storefront/internal/bootstrap"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/localstore"
	"storefront/internal/logger"
	"storefront/internal/storefront"
	"storefront/internal/tracer"
	"storefront/internal/version"
	"storefront/internal/view"
)

const (
	transportHTTP  = "http"
	transportGRPC  = "grpc"
	transportLocal = "local"
)

func main() {
	transport := flag.String("transport", transportHTTP, "catalog transport: http, grpc or local")
	flag.Parse()

	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.Instance()

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("transport", *transport),
	)

	shutdown, err := tracer.Instance(globalCtx, cfg)
	if err != nil {
		os.Exit(1)
	}
	defer shutdown()

	var (
		source storefront.ProductSource
		remote view.Authenticator
	)
	switch *transport {
	case transportHTTP:
		c := client.NewProductClient(cfg.ExternalHTTP)
		source, remote = c, c
	case transportGRPC:
		conn, err := client.DialCatalog(cfg.ExternalGRPC)
		if err != nil {
			logger.Error(globalCtx, "Failed to connect to gRPC server",
				slog.String("error", err.Error()),
				slog.String("target", cfg.ExternalGRPC),
			)
			os.Exit(1)
		}
		defer conn.Close()
		c := client.NewCatalogClient(conn)
		source, remote = c, c
	case transportLocal:
		catalog, err := bootstrap.OpenCatalog(globalCtx, cfg)
		if err != nil {
			logger.Error(globalCtx, "Failed to open catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer catalog.Close(context.Background())
		source = catalog.Service
	default:
		fmt.Fprintf(os.Stderr, "unknown transport %q\n", *transport)
		os.Exit(2)
	}

	cartStorage, err := localstore.OpenBoltStorage(cfg.CartFile)
	if err != nil {
		logger.Error(globalCtx, "Failed to open cart storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cartStorage.Close()

	// Wiring
	bus := storefront.NewBus()
	products := storefront.NewProductStore(source, bus)
	products.Load(globalCtx)
	cart := storefront.NewCartStore(cartStorage, products, bus)
	session := storefront.NewSession(cfg.AdminSecret, bus)

	renderer := view.NewRenderer(os.Stdout, products, cart, session)
	renderer.RenderCatalog()
	renderer.RenderBadge()
	if err := renderer.Attach(bus); err != nil {
		logger.Error(globalCtx, "Failed to subscribe renderer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer renderer.Detach()

	commands := view.NewCommands(&view.App{
		Products: products,
		Cart:     cart,
		Session:  session,
		Renderer: renderer,
		Remote:   remote,
		Phone:    cfg.WhatsAppPhone,
	})

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-globalCtx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch strings.TrimSpace(line) {
			case "exit", "quit":
				return
			}
			if err := commands.Dispatch(globalCtx, line); err != nil {
				renderer.Notify(view.Message(err))
			}
		}
	}
}

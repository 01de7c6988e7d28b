// Package bootstrap wires the configured catalog backend for the binaries.
package bootstrap

import (
	"context"
	"log/slog"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/service"
)

type Catalog struct {
	Repo    repository.CatalogRepository
	Service *service.ProductService
	Health  *service.HealthService
	close   func(context.Context) error
}

// OpenCatalog selects the repository from STORAGE_BACKEND, builds the
// services over it and seeds the demo products when asked to.
func OpenCatalog(ctx context.Context, cfg *config.Config) (*Catalog, error) {
	c := &Catalog{close: func(context.Context) error { return nil }}

	switch cfg.StorageBackend {
	case config.BackendMongo:
		db, err := database.Instance(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		c.Repo = repository.NewMongoRepository(db.Database)
		c.close = db.Close
	default:
		c.Repo = repository.NewFileRepository(cfg.DataFile)
	}

	ids, err := service.NewSnowflakeIDs(service.HostNodeID())
	if err != nil {
		return nil, err
	}
	c.Service = service.NewProductService(c.Repo, ids)
	c.Health = service.NewHealthService(c.Repo)

	if cfg.SeedCatalog {
		seeded, err := c.Service.Seed(ctx)
		if err != nil {
			// an unwritable store shows up on the first write as well
			logger.Warn(ctx, "Failed to seed catalog", slog.String("error", err.Error()))
		} else if seeded {
			logger.Info(ctx, "Seeded empty catalog", slog.String("backend", cfg.StorageBackend))
		}
	}

	logger.Info(ctx, "Catalog ready", slog.String("backend", cfg.StorageBackend))
	return c, nil
}

func (c *Catalog) Close(ctx context.Context) error {
	return c.close(ctx)
}

package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"storefront/internal/config"
)

func TestOpenCatalogFileBackendSeeds(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StorageBackend: config.BackendFile,
		DataFile:       filepath.Join(t.TempDir(), "products.json"),
		SeedCatalog:    true,
	}

	c, err := OpenCatalog(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(ctx)

	products, err := c.Service.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 {
		t.Fatalf("got %d products, want the 3 seeded ones", len(products))
	}
	if !c.Health.Check(ctx).Up() {
		t.Fatal("file backend should report UP")
	}
}

func TestOpenCatalogWithoutSeed(t *testing.T) {
	ctx := context.Background()
	c, err := OpenCatalog(ctx, &config.Config{
		StorageBackend: config.BackendFile,
		DataFile:       filepath.Join(t.TempDir(), "products.json"),
	})
	if err != nil {
		t.Fatal(err)
	}
	products, _ := c.Service.GetAll(ctx)
	if len(products) != 0 {
		t.Fatalf("got %d products, want none", len(products))
	}
}

package repository

import (
	"context"

	"storefront/internal/model"
)

// CatalogRepository persists the whole product collection as one document.
// There are no partial updates: Save replaces everything.
type CatalogRepository interface {
	// Load returns the stored collection. An absent store loads as an empty
	// collection. A store that exists but cannot be read or parsed also
	// yields an empty collection, together with a persistence error, so
	// readers can degrade while writers refuse to overwrite it.
	Load(ctx context.Context) ([]model.Product, error)
	Save(ctx context.Context, products []model.Product) error
	Ping(ctx context.Context) error
}

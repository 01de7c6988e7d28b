package storefront

import (
	"context"
	"log/slog"

	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/asaskevich/EventBus"
	"github.com/go-faster/errors"
)

// ProductSource is where the store reads and writes products: the HTTP API,
// the gRPC service or an in-process ProductService over a local file.
type ProductSource interface {
	GetAll(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id string, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

// StaleError is returned when a mutation reached the source but the
// follow-up re-fetch failed. The change is stored; only the local copy lags.
type StaleError struct {
	Err error
}

func (e *StaleError) Error() string {
	return "saved, but reloading the catalog failed: " + e.Err.Error()
}

func (e *StaleError) Unwrap() error { return e.Err }

func IsStale(err error) bool {
	var stale *StaleError
	return errors.As(err, &stale)
}

// ProductStore holds the client's copy of the catalog. It never patches its
// collection locally: every successful mutation is followed by a full
// re-fetch, so a failed call leaves the last fetched state in place.
//
// Not safe for concurrent use.
type ProductStore struct {
	source   ProductSource
	bus      EventBus.Bus
	products []model.Product
}

func NewProductStore(source ProductSource, bus EventBus.Bus) *ProductStore {
	return &ProductStore{source: source, bus: bus, products: []model.Product{}}
}

// Load is the startup fetch: a failure degrades to an empty catalog.
func (s *ProductStore) Load(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		logger.Warn(ctx, "Failed to load products, starting empty", slog.String("error", err.Error()))
	}
}

func (s *ProductStore) Refresh(ctx context.Context) error {
	products, err := s.source.GetAll(ctx)
	if err != nil {
		return err
	}
	if products == nil {
		products = []model.Product{}
	}
	s.products = products
	publish(s.bus, TopicProductsChanged)
	return nil
}

// List returns a copy of the full collection.
func (s *ProductStore) List() []model.Product {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *ProductStore) Find(id string) (model.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *ProductStore) Create(ctx context.Context, data model.Product) (model.Product, error) {
	data.ID = ""
	if err := service.ValidateProduct(data); err != nil {
		return model.Product{}, err
	}
	created, err := s.source.Create(ctx, data)
	if err != nil {
		return model.Product{}, err
	}
	return created, s.refreshAfterWrite(ctx)
}

func (s *ProductStore) Update(ctx context.Context, id string, data model.Product) (model.Product, error) {
	data.ID = id
	if err := service.ValidateProduct(data); err != nil {
		return model.Product{}, err
	}
	updated, err := s.source.Update(ctx, id, data)
	if err != nil {
		return model.Product{}, err
	}
	return updated, s.refreshAfterWrite(ctx)
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if err := s.source.Delete(ctx, id); err != nil {
		return err
	}
	return s.refreshAfterWrite(ctx)
}

func (s *ProductStore) refreshAfterWrite(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		logger.Warn(ctx, "Saved product but failed to reload catalog", slog.String("error", err.Error()))
		return &StaleError{Err: err}
	}
	return nil
}

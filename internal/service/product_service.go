package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"storefront/internal/apperr"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"

	"go.opentelemetry.io/otel"
)

// ProductService owns the product collection behind the boundary API. Every
// mutation loads the whole collection, changes it and writes it back.
type ProductService struct {
	repo repository.CatalogRepository
	ids  IDGenerator
	// mu keeps load-modify-save cycles from interleaving inside one process.
	mu sync.Mutex
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(repo repository.CatalogRepository, ids IDGenerator) *ProductService {
	return &ProductService{repo: repo, ids: ids}
}

// ValidateProduct checks the fields the storefront cannot work without.
func ValidateProduct(p model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("name is required")
	}
	if !p.Category.Valid() {
		return apperr.ErrInvalidCategory
	}
	if p.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

func normalize(p model.Product) model.Product {
	p.Name = strings.TrimSpace(p.Name)
	p.InternalID = strings.TrimSpace(p.InternalID)
	p.Image = strings.TrimSpace(p.Image)
	return p
}

func indexOf(products []model.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// loadForRead degrades an unreadable catalog to an empty one.
func (s *ProductService) loadForRead(ctx context.Context) []model.Product {
	products, err := s.repo.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "Catalog unreadable, serving empty catalog", slog.String("error", err.Error()))
		return []model.Product{}
	}
	return products
}

// loadForWrite refuses to hand out a degraded collection: saving it would
// replace whatever the store still holds.
func (s *ProductService) loadForWrite(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.Load(ctx)
	if err != nil {
		logger.Error(ctx, "Catalog unreadable, refusing to overwrite", slog.String("error", err.Error()))
		return nil, err
	}
	return products, nil
}

func (s *ProductService) GetAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetAll")
	defer span.End()

	return s.loadForRead(ctx), nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetByID")
	defer span.End()

	products := s.loadForRead(ctx)
	i := indexOf(products, id)
	if i < 0 {
		return nil, apperr.NotFound("product", id)
	}
	return &products[i], nil
}

// Create appends p. A body without an id gets a generated one; a body with an
// id keeps it, as the original API never checked uniqueness.
func (s *ProductService) Create(ctx context.Context, p model.Product) (model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Create")
	defer span.End()

	p = normalize(p)
	if err := ValidateProduct(p); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadForWrite(ctx)
	if err != nil {
		return model.Product{}, err
	}
	if p.ID == "" {
		p.ID = s.ids.NextID()
	}
	products = append(products, p)
	if err := s.repo.Save(ctx, products); err != nil {
		logger.Error(ctx, "Failed to save catalog", slog.String("error", err.Error()))
		return model.Product{}, err
	}
	logger.Info(ctx, "Product created", slog.String("id", p.ID))
	return p, nil
}

// Update replaces the record with the given id in place.
func (s *ProductService) Update(ctx context.Context, id string, p model.Product) (model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Update")
	defer span.End()

	p = normalize(p)
	p.ID = id
	if err := ValidateProduct(p); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadForWrite(ctx)
	if err != nil {
		return model.Product{}, err
	}
	i := indexOf(products, id)
	if i < 0 {
		return model.Product{}, apperr.NotFound("product", id)
	}
	products[i] = p
	if err := s.repo.Save(ctx, products); err != nil {
		logger.Error(ctx, "Failed to save catalog", slog.String("error", err.Error()))
		return model.Product{}, err
	}
	logger.Info(ctx, "Product updated", slog.String("id", id))
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Delete")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	i := indexOf(products, id)
	if i < 0 {
		return apperr.NotFound("product", id)
	}
	products = append(products[:i], products[i+1:]...)
	if err := s.repo.Save(ctx, products); err != nil {
		logger.Error(ctx, "Failed to save catalog", slog.String("error", err.Error()))
		return err
	}
	logger.Info(ctx, "Product deleted", slog.String("id", id))
	return nil
}

// Seed writes the demo catalog when the backing store holds nothing.
func (s *ProductService) Seed(ctx context.Context) (bool, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Seed")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadForWrite(ctx)
	if err != nil {
		return false, err
	}
	if len(products) > 0 {
		return false, nil
	}
	if err := s.repo.Save(ctx, model.SeedProducts()); err != nil {
		return false, err
	}
	logger.Info(ctx, "Catalog seeded", slog.Int("count", len(model.SeedProducts())))
	return true, nil
}

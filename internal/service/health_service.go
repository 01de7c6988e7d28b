package service

import (
	"context"
	"time"

	"storefront/internal/logger"
	"storefront/internal/repository"

	"go.opentelemetry.io/otel"
)

type HealthService struct {
	repo repository.CatalogRepository
}

type HealthStatus struct {
	Storage string
}

func (s HealthStatus) Up() bool { return s.Storage == "UP" }

var HealthServiceTracer = otel.Tracer("HealthService")

func NewHealthService(repo repository.CatalogRepository) *HealthService {
	return &HealthService{
		repo: repo,
	}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, span := HealthServiceTracer.Start(ctx, "HealthService.Check")
	defer span.End()
	logger.Debug(ctx, "Service")

	status := HealthStatus{Storage: "UP"}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.repo.Ping(pingCtx); err != nil {
		status.Storage = "DOWN"
	}

	return status
}

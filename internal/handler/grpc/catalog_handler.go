package grpc

import (
	"context"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/auth"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/utils"

	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type CatalogHandler struct {
	Service *service.ProductService
	Issuer  *auth.TokenIssuer
}

var GrpcCatalogHandlerTracer = otel.Tracer("GrpcCatalogHandler")

func NewCatalogHandler(svc *service.ProductService, issuer *auth.TokenIssuer) *CatalogHandler {
	return &CatalogHandler{
		Service: svc,
		Issuer:  issuer,
	}
}

// toStatus maps an apperr kind to a gRPC status.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.IsNotFound(err):
		return status.Error(codes.NotFound, "Product not found")
	case apperr.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case apperr.IsAuth(err):
		return status.Error(codes.Unauthenticated, "Invalid secret")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func (h *CatalogHandler) List(ctx context.Context, _ *emptypb.Empty) (*ProductList, error) {
	ctx, span := GrpcCatalogHandlerTracer.Start(ctx, "GrpcCatalogHandler.List")
	defer span.End()
	logger.Debug(ctx, "GrpcCatalogHandler.List")

	products, err := h.Service.GetAll(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return &ProductList{Resolver: utils.GetHost(), Products: products}, nil
}

func (h *CatalogHandler) Get(ctx context.Context, req *ProductID) (*ProductReply, error) {
	ctx, span := GrpcCatalogHandlerTracer.Start(ctx, "GrpcCatalogHandler.Get")
	defer span.End()
	logger.Debug(ctx, "GrpcCatalogHandler.Get")

	product, err := h.Service.GetByID(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ProductReply{Resolver: utils.GetHost(), Product: *product}, nil
}

func (h *CatalogHandler) Create(ctx context.Context, req *model.Product) (*ProductReply, error) {
	ctx, span := GrpcCatalogHandlerTracer.Start(ctx, "GrpcCatalogHandler.Create")
	defer span.End()
	logger.Debug(ctx, "GrpcCatalogHandler.Create")

	created, err := h.Service.Create(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ProductReply{Resolver: utils.GetHost(), Product: created}, nil
}

func (h *CatalogHandler) Update(ctx context.Context, req *model.Product) (*ProductReply, error) {
	ctx, span := GrpcCatalogHandlerTracer.Start(ctx, "GrpcCatalogHandler.Update")
	defer span.End()
	logger.Debug(ctx, "GrpcCatalogHandler.Update")

	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	updated, err := h.Service.Update(ctx, req.ID, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ProductReply{Resolver: utils.GetHost(), Product: updated}, nil
}

func (h *CatalogHandler) Delete(ctx context.Context, req *ProductID) (*emptypb.Empty, error) {
	ctx, span := GrpcCatalogHandlerTracer.Start(ctx, "GrpcCatalogHandler.Delete")
	defer span.End()
	logger.Debug(ctx, "GrpcCatalogHandler.Delete")

	if err := h.Service.Delete(ctx, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *CatalogHandler) Session(ctx context.Context, req *SessionRequest) (*SessionReply, error) {
	_, span := GrpcCatalogHandlerTracer.Start(ctx, "GrpcCatalogHandler.Session")
	defer span.End()

	token, expires, err := h.Issuer.Login(req.Secret)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SessionReply{Token: token, ExpiresAt: expires.Format(time.RFC3339)}, nil
}

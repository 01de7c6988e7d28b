package middleware_grpc

import (
	"context"
	"log/slog"
	"slices"

	"storefront/internal/auth"
	"storefront/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// AdminUnaryInterceptor requires an admin bearer token in the "authorization"
// metadata for the listed methods.
func AdminUnaryInterceptor(issuer *auth.TokenIssuer, methods []string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !slices.Contains(methods, info.FullMethod) {
			return handler(ctx, req)
		}
		var raw string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get("authorization"); len(v) > 0 {
				raw = v[0]
			}
		}
		if _, err := issuer.Verify(raw); err != nil {
			logger.Warn(ctx, "Admin token rejected",
				slog.String("grpc.method", info.FullMethod),
				slog.String("error", err.Error()),
			)
			return nil, status.Error(codes.Unauthenticated, "Unauthorized")
		}
		return handler(ctx, req)
	}
}

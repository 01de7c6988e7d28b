package middleware_http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/logger"
)

// AdminOnly rejects requests without a valid admin bearer token.
func AdminOnly(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := issuer.Verify(r.Header.Get("Authorization")); err != nil {
				logger.Warn(r.Context(), "Admin token rejected",
					slog.String("http.method", r.Method),
					slog.String("http.path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/auth"
	"storefront/internal/logger"

	"go.opentelemetry.io/otel"
)

type SessionHandler struct {
	issuer *auth.TokenIssuer
}

var HttpSessionHandlerTracer = otel.Tracer("HttpSessionHandler")

type sessionRequest struct {
	Secret string `json:"secret"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewSessionHandler(issuer *auth.TokenIssuer) *SessionHandler {
	return &SessionHandler{issuer: issuer}
}

// Login trades the shared secret for a signed admin token.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSessionHandlerTracer.Start(r.Context(), "HttpSessionHandler.Login")
	defer span.End()

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	token, expires, err := h.issuer.Login(req.Secret)
	if apperr.IsAuth(err) {
		logger.Warn(ctx, "Rejected admin login")
		writeMessage(w, http.StatusUnauthorized, msgInvalidSecret)
		return
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expires})
}

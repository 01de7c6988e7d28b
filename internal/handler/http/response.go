package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"storefront/internal/apperr"
	"storefront/internal/logger"
)

const (
	msgNotFound       = "Product not found"
	msgDeleted        = "Product deleted"
	msgInvalidPayload = "Invalid request payload"
	msgInvalidSecret  = "Invalid secret"
	msgUnauthorized   = "Unauthorized"
	msgInternal       = "Internal server error"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps an apperr kind onto a status and a {message} body.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case apperr.IsNotFound(err):
		writeMessage(w, http.StatusNotFound, msgNotFound)
	case apperr.IsValidation(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case apperr.IsAuth(err):
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
	default:
		logger.Error(ctx, "Request failed", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

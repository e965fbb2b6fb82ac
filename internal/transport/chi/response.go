package chi

import (
	"encoding/json"
	"net/http"
)

// errorCode is a machine-readable error identifier on the wire.
type errorCode string

// Error codes returned by the API.
const (
	errCodeBadRequest             errorCode = "bad_request"
	errCodeValidationFailed       errorCode = "validation_failed"
	errCodeEmbeddingNotConfigured errorCode = "embedding_not_configured"
	errCodeEmbeddingProviderError errorCode = "embedding_provider_error"
	errCodeUnauthorized           errorCode = "unauthorized"
	errCodeInternal               errorCode = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

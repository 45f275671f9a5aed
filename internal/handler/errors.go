package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorDetail is the machine-readable code and human-readable message of a
// failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// notFound writes a 404 for a missing resource. The caller supplies the
// message because the handler knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}})
}

// badRequest writes a 422 for input rejected before reaching the service layer.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// internalError logs err and writes a generic 500. Store errors are not
// echoed to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}})
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

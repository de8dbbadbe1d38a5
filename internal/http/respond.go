package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"backoffice/internal/core"
	"backoffice/internal/services"
)

type successResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, successResponse{Status: "success", Message: message})
}

// respondError maps the service error taxonomy onto HTTP statuses.
// Unclassified errors surface their text on a 500, matching the behavior
// the UI depends on.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Message: "Invalid input",
			Errors:  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, core.ErrOrderNotFound),
		errors.Is(err, core.ErrDrawNotFound),
		errors.Is(err, core.ErrExpenseNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, core.ErrInvoiceProtected):
		respondJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
}

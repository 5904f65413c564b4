package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/retail-erp/httpx"
	"github.com/diewo77/retail-erp/internal/services"
)

// writeServiceError converts the service error taxonomy into JSON
// responses. Anything unrecognized is a 500 with no internals leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	var stockErr *services.InsufficientStockError
	var valErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.As(err, &stockErr):
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", map[string]int{"available": stockErr.Available})
	case errors.As(err, &valErr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", valErr.Violations)
	case errors.Is(err, services.ErrConstraintViolation):
		httpx.JSONError(w, http.StatusConflict, "constraint_violation", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

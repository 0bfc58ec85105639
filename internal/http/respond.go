package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondErrorCode(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

// respondError maps domain errors onto HTTP statuses. Anything unrecognised
// is a store or internal failure and surfaces as an opaque 500.
func respondError(r *http.Request, w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	var inventory *domain.InsufficientInventoryError

	switch {
	case errors.As(err, &validation):
		respondErrorCode(w, http.StatusBadRequest, "validation_error", validation.Msg)
	case errors.As(err, &inventory):
		respondErrorCode(w, http.StatusConflict, "insufficient_inventory", inventory.Error())
	case errors.Is(err, domain.ErrNotAuthenticated):
		respondErrorCode(w, http.StatusUnauthorized, "not_authenticated", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondErrorCode(w, http.StatusUnauthorized, "invalid_credentials", "")
	case errors.Is(err, domain.ErrNotAuthorized):
		respondErrorCode(w, http.StatusForbidden, "not_authorized", "")
	case errors.Is(err, domain.ErrUserNotFound):
		respondErrorCode(w, http.StatusNotFound, "user_not_found", "")
	case errors.Is(err, domain.ErrCategoryNotFound):
		respondErrorCode(w, http.StatusNotFound, "category_not_found", "")
	case errors.Is(err, domain.ErrProductNotFound):
		respondErrorCode(w, http.StatusNotFound, "product_not_found", "")
	case errors.Is(err, domain.ErrOrderNotFound):
		respondErrorCode(w, http.StatusNotFound, "order_not_found", "")
	case errors.Is(err, domain.ErrEmailTaken):
		respondErrorCode(w, http.StatusConflict, "email_taken", "")
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err)
		respondErrorCode(w, http.StatusInternalServerError, "internal_error", "")
	}
}

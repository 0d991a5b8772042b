package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Thonzy/Inventory-App/internal/services"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the uniform JSON error body. Internal detail never
// reaches the caller; handlers log it instead.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps service sentinel errors to the HTTP taxonomy,
// falling back to a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already in use.")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrNotOwner):
		writeError(w, http.StatusForbidden, "User not authorized")
	case errors.Is(err, services.ErrResetTokenInvalid):
		writeError(w, http.StatusNotFound, "Invalid or expired token")
	default:
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

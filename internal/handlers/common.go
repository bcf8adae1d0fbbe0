package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"roadweave-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, payload interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// urlParamInt64 parses a numeric chi URL parameter
func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// respondRepoError maps repository errors to HTTP statuses
func respondRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, "not found", http.StatusNotFound)
		return
	}
	respondError(w, "internal server error", http.StatusInternalServerError)
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"roadweave-backend/internal/models"
	"roadweave-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AdminHandler handles the admin API: login, trip lifecycle and moderation
type AdminHandler struct {
	authService *services.AuthService
	tripService *services.TripService
	generator   *services.ContentGenerator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *services.AuthService, tripService *services.TripService, generator *services.ContentGenerator) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		tripService: tripService,
		generator:   generator,
	}
}

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log.Warn().Str("username", req.Username).Msg("Failed admin login attempt")
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	respondJSON(w, map[string]string{"token": token}, http.StatusOK)
}

// CreateTripRequest represents the request body for creating a trip
type CreateTripRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	BlogLanguage string `json:"blog_language"`
}

// CreateTrip handles POST /api/admin/trips
func (h *AdminHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, "name is required", http.StatusBadRequest)
		return
	}

	trip, err := h.tripService.CreateTrip(r.Context(), req.Name, req.Description, req.BlogLanguage)
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create trip")
		respondError(w, "Failed to create trip", http.StatusInternalServerError)
		return
	}

	respondJSON(w, trip, http.StatusCreated)
}

// ListTrips handles GET /api/admin/trips
func (h *AdminHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.tripService.ListTrips(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list trips")
		respondError(w, "Failed to list trips", http.StatusInternalServerError)
		return
	}
	respondJSON(w, trips, http.StatusOK)
}

// GetTrip handles GET /api/admin/trips/{id}
func (h *AdminHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	trip, err := h.tripService.GetTrip(r.Context(), id)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, trip, http.StatusOK)
}

// DeleteTrip handles DELETE /api/admin/trips/{id}
func (h *AdminHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	if err := h.tripService.DeleteTrip(r.Context(), id); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, map[string]string{"message": "Trip deleted"}, http.StatusOK)
}

// AddTravelerRequest represents the request body for adding a traveler
type AddTravelerRequest struct {
	Name string `json:"name"`
}

// travelerResponse is a traveler plus their submission link
type travelerResponse struct {
	models.Traveler
	Link string `json:"link"`
}

// AddTraveler handles POST /api/admin/trips/{id}/travelers
func (h *AdminHandler) AddTraveler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	var req AddTravelerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		respondError(w, "name is required", http.StatusBadRequest)
		return
	}

	traveler, err := h.tripService.AddTraveler(r.Context(), id, req.Name)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	respondJSON(w, travelerResponse{
		Traveler: *traveler,
		Link:     fmt.Sprintf("/traveler/%s", traveler.Token),
	}, http.StatusCreated)
}

// ListTravelers handles GET /api/admin/trips/{id}/travelers
func (h *AdminHandler) ListTravelers(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	travelers, err := h.tripService.ListTravelers(r.Context(), id)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, travelers, http.StatusOK)
}

// ListEntries handles GET /api/admin/trips/{id}/entries
func (h *AdminHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	entries, err := h.tripService.ListEntries(r.Context(), id)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, entries, http.StatusOK)
}

// UpdateLanguageRequest represents the request body for a language change
type UpdateLanguageRequest struct {
	Language string `json:"language"`
}

// UpdateLanguage handles PUT /api/admin/trips/{id}/language
func (h *AdminHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	var req UpdateLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tripService.UpdateLanguage(r.Context(), id, req.Language); err != nil {
		if errors.Is(err, services.ErrUnsupportedLanguage) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondRepoError(w, err)
		return
	}
	respondJSON(w, map[string]string{"message": "Language updated"}, http.StatusOK)
}

// ToggleRequest represents an enable/disable request body
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdatePublic handles PUT /api/admin/trips/{id}/public
func (h *AdminHandler) UpdatePublic(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	trip, err := h.tripService.SetPublic(r.Context(), id, req.Enabled)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, trip, http.StatusOK)
}

// UpdateReactions handles PUT /api/admin/trips/{id}/reactions
func (h *AdminHandler) UpdateReactions(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tripService.SetReactionsEnabled(r.Context(), id, req.Enabled); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, map[string]string{"message": "Reactions updated"}, http.StatusOK)
}

// RegenerateBlog handles POST /api/admin/trips/{id}/regenerate-blog
func (h *AdminHandler) RegenerateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	trip, err := h.tripService.GetTrip(r.Context(), id)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	created, skipped, err := h.generator.RegenerateTrip(r.Context(), trip)
	if err != nil {
		log.Error().Err(err).Int64("trip_id", id).Msg("Blog regeneration failed")
		respondError(w, "Regeneration failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{
		"message":         "Blog regenerated",
		"pieces_created":  created,
		"entries_skipped": skipped,
	}, http.StatusOK)
}

// CoordinatesRequest represents the request body for an entry location change
type CoordinatesRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdateEntryCoordinates handles PUT /api/admin/entries/{id}/coordinates
func (h *AdminHandler) UpdateEntryCoordinates(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	var req CoordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tripService.UpdateEntryCoordinates(r.Context(), id, req.Latitude, req.Longitude); err != nil {
		if errors.Is(err, services.ErrInvalidCoordinates) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondRepoError(w, err)
		return
	}
	respondJSON(w, map[string]string{"message": "Coordinates updated"}, http.StatusOK)
}

// DisableEntryRequest represents the request body for toggling an entry
type DisableEntryRequest struct {
	Disabled bool `json:"disabled"`
}

// UpdateEntryDisabled handles PUT /api/admin/entries/{id}/disabled
func (h *AdminHandler) UpdateEntryDisabled(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		respondError(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	var req DisableEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tripService.SetEntryDisabled(r.Context(), id, req.Disabled); err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, map[string]string{"message": "Entry updated"}, http.StatusOK)
}

package handlers

import (
	"io"
	"net/http"
	"strconv"

	"roadweave-backend/internal/models"
	"roadweave-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps one multipart submission (form fields included)
const maxUploadBytes = 32 << 20

// TravelerHandler handles the traveler submission API
type TravelerHandler struct {
	entryService *services.EntryService
}

// NewTravelerHandler creates a new traveler handler
func NewTravelerHandler(entryService *services.EntryService) *TravelerHandler {
	return &TravelerHandler{entryService: entryService}
}

// verifyResponse pairs the traveler with their trip context
type verifyResponse struct {
	Traveler *models.Traveler `json:"traveler"`
	Trip     *models.Trip     `json:"trip"`
}

// Verify handles GET /api/traveler/verify/{token}
func (h *TravelerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	traveler, trip, err := h.entryService.VerifyTraveler(r.Context(), token)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	// the capability token is in the URL already; the trip's tokens are not
	// for travelers to see
	trip.AdminToken = ""
	trip.PublicToken = nil
	traveler.Token = ""

	respondJSON(w, verifyResponse{Traveler: traveler, Trip: trip}, http.StatusOK)
}

// CreateEntry handles POST /api/traveler/{token}/entries (multipart form)
func (h *TravelerHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	traveler, trip, err := h.entryService.VerifyTraveler(r.Context(), token)
	if err != nil {
		respondRepoError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	input := services.NewEntryInput{
		ContentType: r.FormValue("content_type"),
		Content:     r.FormValue("content"),
	}

	if input.Latitude, err = parseCoordinate(r.FormValue("latitude")); err != nil {
		respondError(w, "Invalid latitude", http.StatusBadRequest)
		return
	}
	if input.Longitude, err = parseCoordinate(r.FormValue("longitude")); err != nil {
		respondError(w, "Invalid longitude", http.StatusBadRequest)
		return
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			respondError(w, "Failed to read upload", http.StatusBadRequest)
			return
		}
		input.UploadName = header.Filename
		input.UploadData = data
	}

	entry, err := h.entryService.CreateEntry(r.Context(), traveler, trip, input)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("trip_id", trip.ID).
			Int64("traveler_id", traveler.ID).
			Msg("Entry rejected")
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, entry, http.StatusCreated)
}

// parseCoordinate parses an optional form coordinate; empty means absent
func parseCoordinate(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

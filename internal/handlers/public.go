package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"roadweave-backend/internal/models"
	"roadweave-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PublicBlog is the slice of the public service the handler needs
type PublicBlog interface {
	ResolveTrip(ctx context.Context, token string) (*models.Trip, error)
	Content(ctx context.Context, tripID int64) ([]models.ContentPiece, error)
	ContentByDate(ctx context.Context, tripID int64, date string) ([]models.ContentPiece, error)
	Calendar(ctx context.Context, tripID int64) (*services.CalendarResponse, error)
	Entries(ctx context.Context, tripID int64) ([]models.Entry, error)
	Reactions(ctx context.Context, tripID, pieceID int64) (map[string]int, error)
	React(ctx context.Context, trip *models.Trip, pieceID int64, reactionType, action string) (map[string]int, error)
}

// PublicHandler serves the read-only blog behind public tokens
type PublicHandler struct {
	publicService PublicBlog
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(publicService PublicBlog) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

// resolveTrip maps the {token} URL parameter to a trip, writing 404 on any
// miss. Disabled sharing and unknown tokens look identical.
func (h *PublicHandler) resolveTrip(w http.ResponseWriter, r *http.Request) *models.Trip {
	token := chi.URLParam(r, "token")
	trip, err := h.publicService.ResolveTrip(r.Context(), token)
	if err != nil {
		respondError(w, "not found", http.StatusNotFound)
		return nil
	}
	return trip
}

// tripInfoResponse is the public view of a trip; tokens and toggles that do
// not concern readers are stripped
type tripInfoResponse struct {
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	BlogLanguage     string    `json:"blog_language"`
	ReactionsEnabled bool      `json:"reactions_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

// TripInfo handles GET /api/public/{token}
func (h *PublicHandler) TripInfo(w http.ResponseWriter, r *http.Request) {
	trip := h.resolveTrip(w, r)
	if trip == nil {
		return
	}

	respondJSON(w, tripInfoResponse{
		Name:             trip.Name,
		Description:      trip.Description,
		BlogLanguage:     trip.BlogLanguage,
		ReactionsEnabled: trip.ReactionsEnabled,
		CreatedAt:        trip.CreatedAt,
	}, http.StatusOK)
}

// Content handles GET /api/public/{token}/content
func (h *PublicHandler) Content(w http.ResponseWriter, r *http.Request) {
	trip := h.resolveTrip(w, r)
	if trip == nil {
		return
	}

	pieces, err := h.publicService.Content(r.Context(), trip.ID)
	if err != nil {
		log.Error().Err(err).Int64("trip_id", trip.ID).Msg("Failed to load content")
		respondError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, pieces, http.StatusOK)
}

// Calendar handles GET /api/public/{token}/content/calendar
func (h *PublicHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	trip := h.resolveTrip(w, r)
	if trip == nil {
		return
	}

	calendar, err := h.publicService.Calendar(r.Context(), trip.ID)
	if err != nil {
		log.Error().Err(err).Int64("trip_id", trip.ID).Msg("Failed to load calendar")
		respondError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, calendar, http.StatusOK)
}

// ContentByDate handles GET /api/public/{token}/content/date/{date}
func (h *PublicHandler) ContentByDate(w http.ResponseWriter, r *http.Request) {
	trip := h.resolveTrip(w, r)
	if trip == nil {
		return
	}

	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	pieces, err := h.publicService.ContentByDate(r.Context(), trip.ID, date)
	if err != nil {
		log.Error().Err(err).Int64("trip_id", trip.ID).Str("date", date).Msg("Failed to load content for date")
		respondError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, map[string]interface{}{
		"date":           date,
		"content_pieces": pieces,
	}, http.StatusOK)
}

// Entries handles GET /api/public/{token}/entries
func (h *PublicHandler) Entries(w http.ResponseWriter, r *http.Request) {
	trip := h.resolveTrip(w, r)
	if trip == nil {
		return
	}

	entries, err := h.publicService.Entries(r.Context(), trip.ID)
	if err != nil {
		log.Error().Err(err).Int64("trip_id", trip.ID).Msg("Failed to load entries")
		respondError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, entries, http.StatusOK)
}

// Reactions handles GET /api/public/{token}/reactions/{pieceID}
func (h *PublicHandler) Reactions(w http.ResponseWriter, r *http.Request) {
	trip := h.resolveTrip(w, r)
	if trip == nil {
		return
	}

	pieceID, err := urlParamInt64(r, "pieceID")
	if err != nil {
		respondError(w, "Invalid content piece id", http.StatusBadRequest)
		return
	}

	counts, err := h.publicService.Reactions(r.Context(), trip.ID, pieceID)
	if err != nil {
		respondRepoError(w, err)
		return
	}
	respondJSON(w, map[string]interface{}{"reactions": counts}, http.StatusOK)
}

// ReactRequest represents the request body for a reaction write
type ReactRequest struct {
	ReactionType string `json:"reaction_type"`
	Action       string `json:"action"`
}

// React handles POST /api/public/{token}/reactions/{pieceID}
func (h *PublicHandler) React(w http.ResponseWriter, r *http.Request) {
	trip := h.resolveTrip(w, r)
	if trip == nil {
		return
	}

	pieceID, err := urlParamInt64(r, "pieceID")
	if err != nil {
		respondError(w, "Invalid content piece id", http.StatusBadRequest)
		return
	}

	var req ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	counts, err := h.publicService.React(r.Context(), trip, pieceID, req.ReactionType, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReactionsDisabled):
			respondError(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, services.ErrInvalidReactionType), errors.Is(err, services.ErrInvalidAction):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondRepoError(w, err)
		}
		return
	}
	respondJSON(w, map[string]interface{}{"reactions": counts}, http.StatusOK)
}

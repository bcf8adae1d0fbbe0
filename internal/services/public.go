package services

import (
	"context"
	"errors"
	"fmt"

	"roadweave-backend/internal/models"
	"roadweave-backend/internal/repository"
)

// Errors the public surface maps to specific HTTP statuses
var (
	ErrReactionsDisabled   = errors.New("reactions are disabled for this trip")
	ErrInvalidReactionType = errors.New("invalid reaction type")
	ErrInvalidAction       = errors.New("invalid reaction action")
)

// PublicService serves the read-only blog behind a trip's public token
type PublicService struct {
	tripRepo     *repository.TripRepository
	entryRepo    *repository.EntryRepository
	contentRepo  *repository.ContentRepository
	reactionRepo *repository.ReactionRepository
}

// NewPublicService creates a new public service
func NewPublicService(
	tripRepo *repository.TripRepository,
	entryRepo *repository.EntryRepository,
	contentRepo *repository.ContentRepository,
	reactionRepo *repository.ReactionRepository,
) *PublicService {
	return &PublicService{
		tripRepo:     tripRepo,
		entryRepo:    entryRepo,
		contentRepo:  contentRepo,
		reactionRepo: reactionRepo,
	}
}

// ResolveTrip maps a public token to its trip. Unknown tokens and trips with
// sharing switched off are indistinguishable to the caller.
func (s *PublicService) ResolveTrip(ctx context.Context, token string) (*models.Trip, error) {
	return s.tripRepo.GetByPublicToken(ctx, token)
}

// Content returns the trip's content pieces, newest first
func (s *PublicService) Content(ctx context.Context, tripID int64) ([]models.ContentPiece, error) {
	return s.contentRepo.ListByTrip(ctx, tripID)
}

// ContentByDate returns the pieces of one calendar day, oldest first.
// date must be YYYY-MM-DD.
func (s *PublicService) ContentByDate(ctx context.Context, tripID int64, date string) ([]models.ContentPiece, error) {
	return s.contentRepo.ListByTripDate(ctx, tripID, date)
}

// CalendarResponse summarizes which days carry content
type CalendarResponse struct {
	CalendarData []repository.CalendarDay `json:"calendar_data"`
	DateRange    DateRange                `json:"date_range"`
}

// DateRange is the first and last day with content
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Calendar returns per-day piece counts plus the covered date range. A trip
// without content yields an empty list and an empty range.
func (s *PublicService) Calendar(ctx context.Context, tripID int64) (*CalendarResponse, error) {
	days, err := s.contentRepo.CalendarByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	resp := &CalendarResponse{CalendarData: days}
	if len(days) > 0 {
		resp.DateRange.Start = days[0].Date
		resp.DateRange.End = days[len(days)-1].Date
	}
	return resp, nil
}

// Entries returns the trip's non-disabled raw entries, newest first, for map
// and media views. Traveler tokens never appear here.
func (s *PublicService) Entries(ctx context.Context, tripID int64) ([]models.Entry, error) {
	entries, err := s.entryRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	visible := entries[:0]
	for _, e := range entries {
		if !e.Disabled {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// Reactions returns the counts for one piece, zero-filled for every known
// reaction type. The piece must belong to the trip.
func (s *PublicService) Reactions(ctx context.Context, tripID, pieceID int64) (map[string]int, error) {
	if err := s.checkPiece(ctx, tripID, pieceID); err != nil {
		return nil, err
	}

	counts, err := s.reactionRepo.CountsByPiece(ctx, pieceID)
	if err != nil {
		return nil, err
	}
	return fillReactionCounts(counts), nil
}

// React applies an "add" or "remove" of one reaction type and returns the
// updated counts. Writes are rejected while the trip has reactions disabled.
func (s *PublicService) React(ctx context.Context, trip *models.Trip, pieceID int64, reactionType, action string) (map[string]int, error) {
	if !trip.ReactionsEnabled {
		return nil, ErrReactionsDisabled
	}
	if !models.IsValidReactionType(reactionType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReactionType, reactionType)
	}
	if err := s.checkPiece(ctx, trip.ID, pieceID); err != nil {
		return nil, err
	}

	switch action {
	case "", "add":
		if err := s.reactionRepo.Increment(ctx, trip.ID, pieceID, reactionType); err != nil {
			return nil, err
		}
	case "remove":
		if err := s.reactionRepo.Decrement(ctx, pieceID, reactionType); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	counts, err := s.reactionRepo.CountsByPiece(ctx, pieceID)
	if err != nil {
		return nil, err
	}
	return fillReactionCounts(counts), nil
}

// checkPiece verifies the piece exists and belongs to the trip; anything else
// reads as not found
func (s *PublicService) checkPiece(ctx context.Context, tripID, pieceID int64) error {
	piece, err := s.contentRepo.GetByID(ctx, pieceID)
	if err != nil {
		return err
	}
	if piece.TripID != tripID {
		return fmt.Errorf("content piece %d: %w", pieceID, repository.ErrNotFound)
	}
	return nil
}

// fillReactionCounts pads the stored counters with zeros for absent types
func fillReactionCounts(counts map[string]int) map[string]int {
	full := make(map[string]int, len(models.ReactionTypes))
	for _, rt := range models.ReactionTypes {
		full[rt] = counts[rt]
	}
	return full
}

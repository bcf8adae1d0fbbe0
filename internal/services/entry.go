package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"roadweave-backend/internal/media"
	"roadweave-backend/internal/models"
	"roadweave-backend/internal/repository"
	"roadweave-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EntryService handles traveler submissions: token verification, file intake
// and the synchronous narration of each new entry
type EntryService struct {
	tripRepo     *repository.TripRepository
	travelerRepo *repository.TravelerRepository
	entryRepo    *repository.EntryRepository
	store        storage.Store
	generator    *ContentGenerator
	hub          *BlogHub
}

// NewEntryService creates a new entry service
func NewEntryService(
	tripRepo *repository.TripRepository,
	travelerRepo *repository.TravelerRepository,
	entryRepo *repository.EntryRepository,
	store storage.Store,
	generator *ContentGenerator,
	hub *BlogHub,
) *EntryService {
	return &EntryService{
		tripRepo:     tripRepo,
		travelerRepo: travelerRepo,
		entryRepo:    entryRepo,
		store:        store,
		generator:    generator,
		hub:          hub,
	}
}

// VerifyTraveler resolves a capability token to the traveler and their trip
func (s *EntryService) VerifyTraveler(ctx context.Context, token string) (*models.Traveler, *models.Trip, error) {
	traveler, err := s.travelerRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	trip, err := s.tripRepo.GetByID(ctx, traveler.TripID)
	if err != nil {
		return nil, nil, err
	}
	return traveler, trip, nil
}

// NewEntryInput carries one traveler submission
type NewEntryInput struct {
	ContentType string
	Content     string
	Latitude    *float64
	Longitude   *float64

	// Set for photo and audio submissions
	UploadName string
	UploadData []byte
}

// CreateEntry stores the submission and synchronously narrates it. The entry
// is the source of truth: once it is persisted, a generation failure is
// logged but never surfaced, and a later regeneration can retry.
func (s *EntryService) CreateEntry(ctx context.Context, traveler *models.Traveler, trip *models.Trip, input NewEntryInput) (*models.Entry, error) {
	entry := &models.Entry{
		TripID:       trip.ID,
		TravelerID:   traveler.ID,
		TravelerName: traveler.Name,
		ContentType:  input.ContentType,
		Content:      strings.TrimSpace(input.Content),
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	}

	switch input.ContentType {
	case models.ContentTypeText:
		if entry.Content == "" {
			return nil, fmt.Errorf("text entries need content")
		}

	case models.ContentTypePhoto, models.ContentTypeAudio:
		filename, err := s.saveUpload(ctx, input)
		if err != nil {
			return nil, err
		}
		entry.Filename = &filename
		if entry.Content == "" {
			if input.ContentType == models.ContentTypePhoto {
				entry.Content = defaultPhotoCaption
			} else {
				entry.Content = defaultAudioCaption
			}
		}

	default:
		return nil, fmt.Errorf("unknown content type %q", input.ContentType)
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	log.Info().
		Int64("trip_id", trip.ID).
		Int64("entry_id", entry.ID).
		Str("content_type", entry.ContentType).
		Msg("Entry created")

	piece, err := s.generator.GenerateForEntry(ctx, trip, entry)
	if err != nil {
		log.Error().Err(err).Int64("entry_id", entry.ID).Msg("Entry narration failed")
		return entry, nil
	}
	s.hub.BroadcastContentPiece(trip.ID, piece)

	return entry, nil
}

// saveUpload validates the uploaded file and stores it under a fresh opaque
// name, keeping only the original extension
func (s *EntryService) saveUpload(ctx context.Context, input NewEntryInput) (string, error) {
	if input.UploadName == "" || len(input.UploadData) == 0 {
		return "", fmt.Errorf("%s entries need a file", input.ContentType)
	}
	if !media.IsAllowedFile(input.UploadName) {
		return "", fmt.Errorf("file type not allowed")
	}
	if input.ContentType == models.ContentTypePhoto && !media.IsImageFile(input.UploadName) {
		return "", fmt.Errorf("photo entries need an image file")
	}
	if input.ContentType == models.ContentTypeAudio && !media.IsAudioFile(input.UploadName) {
		return "", fmt.Errorf("audio entries need an audio file")
	}

	// opaque prefix, original name kept for humans browsing the store
	filename := uuid.New().String() + "_" + filepath.Base(input.UploadName)

	if err := s.store.Save(ctx, filename, input.UploadData); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return filename, nil
}

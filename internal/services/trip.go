package services

import (
	"context"
	"errors"
	"fmt"

	"roadweave-backend/internal/models"
	"roadweave-backend/internal/repository"
	"roadweave-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Validation errors the admin surface maps to 400
var (
	ErrUnsupportedLanguage = errors.New("unsupported language code")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// TripStore is the slice of the trip repository the service needs
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id int64) (*models.Trip, error)
	List(ctx context.Context) ([]repository.TripSummary, error)
	UpdateLanguage(ctx context.Context, id int64, language string) error
	UpdatePublic(ctx context.Context, id int64, enabled bool, token *string) error
	UpdateReactionsEnabled(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error
}

// TravelerStore is the slice of the traveler repository the service needs
type TravelerStore interface {
	Create(ctx context.Context, traveler *models.Traveler) error
	ListByTrip(ctx context.Context, tripID int64) ([]models.Traveler, error)
}

// EntryStore is the slice of the entry repository the service needs
type EntryStore interface {
	ListByTrip(ctx context.Context, tripID int64) ([]models.Entry, error)
	ListFilenamesByTrip(ctx context.Context, tripID int64) ([]string, error)
	UpdateCoordinates(ctx context.Context, id int64, lat, lon *float64) error
	SetDisabled(ctx context.Context, id int64, disabled bool) error
}

// TripService handles trip administration: lifecycle, travelers and the
// per-trip sharing switches
type TripService struct {
	tripRepo     TripStore
	travelerRepo TravelerStore
	entryRepo    EntryStore
	store        storage.Store
}

// NewTripService creates a new trip service
func NewTripService(
	tripRepo TripStore,
	travelerRepo TravelerStore,
	entryRepo EntryStore,
	store storage.Store,
) *TripService {
	return &TripService{
		tripRepo:     tripRepo,
		travelerRepo: travelerRepo,
		entryRepo:    entryRepo,
		store:        store,
	}
}

// CreateTrip creates a trip with a fresh admin token. An empty or unknown
// language falls back to English; sharing starts disabled, reactions start
// enabled.
func (s *TripService) CreateTrip(ctx context.Context, name, description, language string) (*models.Trip, error) {
	if name == "" {
		return nil, fmt.Errorf("trip name is required")
	}
	if _, ok := languageNames[language]; !ok {
		language = "en"
	}

	trip := &models.Trip{
		Name:             name,
		Description:      description,
		AdminToken:       uuid.New().String(),
		BlogLanguage:     language,
		ReactionsEnabled: true,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	log.Info().Int64("trip_id", trip.ID).Str("name", trip.Name).Msg("Trip created")
	return trip, nil
}

// GetTrip returns one trip by ID
func (s *TripService) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	return s.tripRepo.GetByID(ctx, id)
}

// ListTrips returns all trips with traveler and entry counts
func (s *TripService) ListTrips(ctx context.Context) ([]repository.TripSummary, error) {
	return s.tripRepo.List(ctx)
}

// DeleteTrip removes the trip and everything under it. Uploaded files are
// deleted best-effort before the cascading row delete.
func (s *TripService) DeleteTrip(ctx context.Context, id int64) error {
	if _, err := s.tripRepo.GetByID(ctx, id); err != nil {
		return err
	}

	filenames, err := s.entryRepo.ListFilenamesByTrip(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list trip files: %w", err)
	}
	for _, filename := range filenames {
		if err := s.store.Delete(ctx, filename); err != nil {
			log.Warn().Err(err).Str("filename", filename).Msg("Failed to delete uploaded file")
		}
	}

	if err := s.tripRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("trip_id", id).Int("files_deleted", len(filenames)).Msg("Trip deleted")
	return nil
}

// UpdateLanguage changes the narrative language of a trip. Codes outside the
// supported set are rejected.
func (s *TripService) UpdateLanguage(ctx context.Context, id int64, language string) error {
	if _, ok := languageNames[language]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return s.tripRepo.UpdateLanguage(ctx, id, language)
}

// SetPublic toggles public sharing. Enabling mints a public token when the
// trip never had one; disabling keeps the token so re-enabling restores the
// same URL.
func (s *TripService) SetPublic(ctx context.Context, id int64, enabled bool) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	token := trip.PublicToken
	if enabled && token == nil {
		t := uuid.New().String()
		token = &t
	}

	if err := s.tripRepo.UpdatePublic(ctx, id, enabled, token); err != nil {
		return nil, err
	}

	trip.PublicEnabled = enabled
	trip.PublicToken = token
	return trip, nil
}

// SetReactionsEnabled toggles whether the public blog accepts reactions
func (s *TripService) SetReactionsEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.tripRepo.UpdateReactionsEnabled(ctx, id, enabled)
}

// AddTraveler registers a contributor and mints their capability token
func (s *TripService) AddTraveler(ctx context.Context, tripID int64, name string) (*models.Traveler, error) {
	if name == "" {
		return nil, fmt.Errorf("traveler name is required")
	}
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	traveler := &models.Traveler{
		TripID: tripID,
		Name:   name,
		Token:  uuid.New().String(),
	}

	if err := s.travelerRepo.Create(ctx, traveler); err != nil {
		return nil, fmt.Errorf("failed to create traveler: %w", err)
	}

	log.Info().Int64("trip_id", tripID).Int64("traveler_id", traveler.ID).Msg("Traveler added")
	return traveler, nil
}

// ListTravelers returns the contributors of a trip, tokens included
func (s *TripService) ListTravelers(ctx context.Context, tripID int64) ([]models.Traveler, error) {
	return s.travelerRepo.ListByTrip(ctx, tripID)
}

// ListEntries returns all entries of a trip, newest first, disabled included
func (s *TripService) ListEntries(ctx context.Context, tripID int64) ([]models.Entry, error) {
	return s.entryRepo.ListByTrip(ctx, tripID)
}

// UpdateEntryCoordinates sets or clears an entry's GPS position. Content
// pieces already generated from it are not touched; a regeneration picks up
// the new coordinates.
func (s *TripService) UpdateEntryCoordinates(ctx context.Context, entryID int64, lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set or cleared together", ErrInvalidCoordinates)
	}
	if lat != nil {
		if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
			return fmt.Errorf("%w: out of range", ErrInvalidCoordinates)
		}
	}
	return s.entryRepo.UpdateCoordinates(ctx, entryID, lat, lon)
}

// SetEntryDisabled flags an entry so regeneration skips it. Disabling never
// removes already generated content; only a regeneration does.
func (s *TripService) SetEntryDisabled(ctx context.Context, entryID int64, disabled bool) error {
	return s.entryRepo.SetDisabled(ctx, entryID, disabled)
}

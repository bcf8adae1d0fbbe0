package services

import (
	"context"
	"testing"
	"time"

	"roadweave-backend/internal/models"
	"roadweave-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTripStore struct {
	trips    map[int64]*models.Trip
	nextID   int64
	language map[int64]string
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[int64]*models.Trip), language: make(map[int64]string)}
}

func (f *fakeTripStore) Create(_ context.Context, trip *models.Trip) error {
	f.nextID++
	trip.ID = f.nextID
	trip.CreatedAt = time.Now()
	stored := *trip
	f.trips[trip.ID] = &stored
	return nil
}

func (f *fakeTripStore) GetByID(_ context.Context, id int64) (*models.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *trip
	return &copied, nil
}

func (f *fakeTripStore) List(_ context.Context) ([]repository.TripSummary, error) {
	var out []repository.TripSummary
	for _, trip := range f.trips {
		out = append(out, repository.TripSummary{Trip: *trip})
	}
	return out, nil
}

func (f *fakeTripStore) UpdateLanguage(_ context.Context, id int64, language string) error {
	f.language[id] = language
	return nil
}

func (f *fakeTripStore) UpdatePublic(_ context.Context, id int64, enabled bool, token *string) error {
	f.trips[id].PublicEnabled = enabled
	f.trips[id].PublicToken = token
	return nil
}

func (f *fakeTripStore) UpdateReactionsEnabled(_ context.Context, id int64, enabled bool) error {
	f.trips[id].ReactionsEnabled = enabled
	return nil
}

func (f *fakeTripStore) Delete(_ context.Context, id int64) error {
	delete(f.trips, id)
	return nil
}

type fakeTravelerStore struct {
	travelers []models.Traveler
}

func (f *fakeTravelerStore) Create(_ context.Context, traveler *models.Traveler) error {
	traveler.ID = int64(len(f.travelers) + 1)
	f.travelers = append(f.travelers, *traveler)
	return nil
}

func (f *fakeTravelerStore) ListByTrip(_ context.Context, _ int64) ([]models.Traveler, error) {
	return f.travelers, nil
}

type fakeEntryStore struct {
	filenames   []string
	coordinates map[int64][2]*float64
	disabled    map[int64]bool
}

func (f *fakeEntryStore) ListByTrip(_ context.Context, _ int64) ([]models.Entry, error) {
	return nil, nil
}

func (f *fakeEntryStore) ListFilenamesByTrip(_ context.Context, _ int64) ([]string, error) {
	return f.filenames, nil
}

func (f *fakeEntryStore) UpdateCoordinates(_ context.Context, id int64, lat, lon *float64) error {
	if f.coordinates == nil {
		f.coordinates = make(map[int64][2]*float64)
	}
	f.coordinates[id] = [2]*float64{lat, lon}
	return nil
}

func (f *fakeEntryStore) SetDisabled(_ context.Context, id int64, disabled bool) error {
	if f.disabled == nil {
		f.disabled = make(map[int64]bool)
	}
	f.disabled[id] = disabled
	return nil
}

func newTestTripService(trips *fakeTripStore, entries *fakeEntryStore, store *fakeStore) *TripService {
	if entries == nil {
		entries = &fakeEntryStore{}
	}
	if store == nil {
		store = &fakeStore{}
	}
	return NewTripService(trips, &fakeTravelerStore{}, entries, store)
}

func TestCreateTrip_ReactionsStartEnabled(t *testing.T) {
	trips := newFakeTripStore()
	s := newTestTripService(trips, nil, nil)

	trip, err := s.CreateTrip(context.Background(), "Alps 2023", "two weeks hiking", "de")
	require.NoError(t, err)

	// the creation response must match the stored row
	assert.True(t, trip.ReactionsEnabled)
	assert.True(t, trips.trips[trip.ID].ReactionsEnabled)
	assert.False(t, trip.PublicEnabled)
	assert.NotEmpty(t, trip.AdminToken)
	assert.Equal(t, "de", trip.BlogLanguage)
}

func TestCreateTrip_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	s := newTestTripService(newFakeTripStore(), nil, nil)

	trip, err := s.CreateTrip(context.Background(), "Alps 2023", "", "xx")
	require.NoError(t, err)
	assert.Equal(t, "en", trip.BlogLanguage)

	_, err = s.CreateTrip(context.Background(), "", "", "en")
	assert.Error(t, err)
}

func TestUpdateLanguage_RejectsUnknownCode(t *testing.T) {
	trips := newFakeTripStore()
	s := newTestTripService(trips, nil, nil)

	err := s.UpdateLanguage(context.Background(), 1, "klingon")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	require.NoError(t, s.UpdateLanguage(context.Background(), 1, "fr"))
	assert.Equal(t, "fr", trips.language[1])
}

func TestSetPublic_TokenSurvivesDisable(t *testing.T) {
	trips := newFakeTripStore()
	s := newTestTripService(trips, nil, nil)

	trip, err := s.CreateTrip(context.Background(), "Alps 2023", "", "en")
	require.NoError(t, err)

	enabled, err := s.SetPublic(context.Background(), trip.ID, true)
	require.NoError(t, err)
	require.NotNil(t, enabled.PublicToken)
	firstToken := *enabled.PublicToken

	disabled, err := s.SetPublic(context.Background(), trip.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.PublicEnabled)
	require.NotNil(t, disabled.PublicToken)

	again, err := s.SetPublic(context.Background(), trip.ID, true)
	require.NoError(t, err)
	assert.Equal(t, firstToken, *again.PublicToken)
}

func TestUpdateEntryCoordinates_Validation(t *testing.T) {
	entries := &fakeEntryStore{}
	s := newTestTripService(newFakeTripStore(), entries, nil)
	ctx := context.Background()

	lat, lon := 46.2, 6.1
	bigLat := 95.0

	assert.ErrorIs(t, s.UpdateEntryCoordinates(ctx, 1, &lat, nil), ErrInvalidCoordinates)
	assert.ErrorIs(t, s.UpdateEntryCoordinates(ctx, 1, &bigLat, &lon), ErrInvalidCoordinates)

	require.NoError(t, s.UpdateEntryCoordinates(ctx, 1, &lat, &lon))
	require.NoError(t, s.UpdateEntryCoordinates(ctx, 1, nil, nil))
	assert.Equal(t, [2]*float64{nil, nil}, entries.coordinates[1])
}

func TestDeleteTrip_RemovesUploadedFiles(t *testing.T) {
	trips := newFakeTripStore()
	entries := &fakeEntryStore{filenames: []string{"a.jpg", "b.mp3"}}
	store := &fakeStore{files: map[string][]byte{
		"a.jpg": []byte("x"),
		"b.mp3": []byte("y"),
	}}
	s := newTestTripService(trips, entries, store)

	trip, err := s.CreateTrip(context.Background(), "Alps 2023", "", "en")
	require.NoError(t, err)

	require.NoError(t, s.DeleteTrip(context.Background(), trip.ID))
	assert.Empty(t, store.files)
	assert.NotContains(t, trips.trips, trip.ID)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"roadweave-backend/internal/ai"
	"roadweave-backend/internal/config"
	"roadweave-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContentRepo struct {
	pieces    []*models.ContentPiece
	deleted   int64
	createErr error
}

func (f *fakeContentRepo) Create(_ context.Context, piece *models.ContentPiece) error {
	if f.createErr != nil {
		return f.createErr
	}
	piece.ID = int64(len(f.pieces) + 1)
	f.pieces = append(f.pieces, piece)
	return nil
}

func (f *fakeContentRepo) DeleteByTrip(_ context.Context, _ int64) (int64, error) {
	f.deleted = int64(len(f.pieces))
	f.pieces = nil
	return f.deleted, nil
}

type fakeEntryRepo struct {
	entries  []models.Entry
	disabled int
}

func (f *fakeEntryRepo) ListActiveByTrip(_ context.Context, _ int64) ([]models.Entry, error) {
	return f.entries, nil
}

func (f *fakeEntryRepo) CountDisabledByTrip(_ context.Context, _ int64) (int, error) {
	return f.disabled, nil
}

type fakeAIClient struct {
	textResponse string
	textErr      error
	prompts      []string
}

func (f *fakeAIClient) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.textResponse, nil
}

func (f *fakeAIClient) GenerateWithMedia(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return "", errors.New("not used")
}

type fakeEnricher struct {
	photoText   string
	photoCalled bool
	calls       int
}

func (f *fakeEnricher) DescribePhoto(_ context.Context, _, _ string) (string, bool) {
	f.calls++
	return f.photoText, f.photoCalled
}

func (f *fakeEnricher) TranscribeAudio(_ context.Context, _ string) string {
	return "transcript text"
}

type fakeStore struct {
	files map[string][]byte
}

func (f *fakeStore) Save(_ context.Context, filename string, data []byte) error {
	if f.files == nil {
		f.files = make(map[string][]byte)
	}
	f.files[filename] = data
	return nil
}

func (f *fakeStore) Read(_ context.Context, filename string) ([]byte, error) {
	data, ok := f.files[filename]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (f *fakeStore) Exists(_ context.Context, filename string) bool {
	_, ok := f.files[filename]
	return ok
}

func (f *fakeStore) Delete(_ context.Context, filename string) error {
	delete(f.files, filename)
	return nil
}

func testTrip() *models.Trip {
	return &models.Trip{ID: 1, Name: "Alps 2023", BlogLanguage: "en"}
}

func textEntry(id int64) *models.Entry {
	return &models.Entry{
		ID:           id,
		TripID:       1,
		TravelerID:   7,
		TravelerName: "Mara",
		ContentType:  models.ContentTypeText,
		Content:      "We reached the summit today.",
		Timestamp:    time.Date(2023, 12, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestGenerator(content *fakeContentRepo, entries *fakeEntryRepo, client ai.Client, enricher Enrichment, limiter *ai.DailyLimiter, store *fakeStore, cfg config.AIConfig) *ContentGenerator {
	if limiter == nil {
		limiter = ai.NewDailyLimiter(0)
	}
	if store == nil {
		store = &fakeStore{}
	}
	return NewContentGenerator(content, entries, client, enricher, limiter, store, cfg, "UTC")
}

func TestGenerateForEntry_PersistsOnePiece(t *testing.T) {
	content := &fakeContentRepo{}
	client := &fakeAIClient{textResponse: "What a day in the mountains!"}
	gen := newTestGenerator(content, &fakeEntryRepo{}, client, &fakeEnricher{}, nil, nil, config.AIConfig{})

	piece, err := gen.GenerateForEntry(context.Background(), testTrip(), textEntry(42))
	require.NoError(t, err)
	require.Len(t, content.pieces, 1)

	assert.Equal(t, "What a day in the mountains!", piece.GeneratedContent)
	assert.Equal(t, []int64{42}, piece.EntryIDs)
	assert.Equal(t, "2023-12-01", piece.ContentDate)
	assert.Equal(t, int64(1), piece.TripID)
}

func TestGenerateForEntry_PromptCarriesLanguageAndForbidsTimestamps(t *testing.T) {
	client := &fakeAIClient{textResponse: "ok"}
	gen := newTestGenerator(&fakeContentRepo{}, &fakeEntryRepo{}, client, &fakeEnricher{}, nil, nil, config.AIConfig{})

	trip := testTrip()
	trip.BlogLanguage = "de"
	_, err := gen.GenerateForEntry(context.Background(), trip, textEntry(1))
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Write your response in German")
	assert.Contains(t, prompt, "IN GERMAN")
	assert.Contains(t, prompt, "Do NOT include timestamps")
	assert.NotContains(t, prompt, "[PHOTO:")
}

func TestGenerateForEntry_PhotoPromptCarriesMarker(t *testing.T) {
	client := &fakeAIClient{textResponse: "ok"}
	store := &fakeStore{files: map[string][]byte{"abc.jpg": []byte("img")}}
	enricher := &fakeEnricher{photoText: "A snowy ridge.", photoCalled: true}
	cfg := config.AIConfig{EnablePhotoAnalysis: true}
	gen := newTestGenerator(&fakeContentRepo{}, &fakeEntryRepo{}, client, enricher, nil, store, cfg)

	entry := textEntry(99)
	entry.ContentType = models.ContentTypePhoto
	filename := "abc.jpg"
	entry.Filename = &filename
	entry.Content = "Photo upload"

	_, err := gen.GenerateForEntry(context.Background(), testTrip(), entry)
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "[PHOTO:99]")
	assert.Contains(t, client.prompts[0], "A snowy ridge.")
	// placeholder caption is not echoed into the description
	assert.NotContains(t, client.prompts[0], "traveler's own caption")
}

func TestGenerateForEntry_CoordinatesNeverEnterPrompt(t *testing.T) {
	client := &fakeAIClient{textResponse: "ok"}
	gen := newTestGenerator(&fakeContentRepo{}, &fakeEntryRepo{}, client, &fakeEnricher{}, nil, nil, config.AIConfig{})

	entry := textEntry(1)
	lat, lon := 46.2044, 6.1432
	entry.Latitude = &lat
	entry.Longitude = &lon

	piece, err := gen.GenerateForEntry(context.Background(), testTrip(), entry)
	require.NoError(t, err)

	prompt := client.prompts[0]
	assert.NotContains(t, prompt, "46.2044")
	assert.NotContains(t, prompt, "6.1432")
	assert.Contains(t, prompt, "GPS coordinates are recorded")

	// structured fields still carry them
	require.NotNil(t, piece.Latitude)
	assert.Equal(t, 46.2044, *piece.Latitude)
}

func TestGenerateForEntry_ModelFailureYieldsFallback(t *testing.T) {
	content := &fakeContentRepo{}
	client := &fakeAIClient{textErr: errors.New("model unavailable")}
	gen := newTestGenerator(content, &fakeEntryRepo{}, client, &fakeEnricher{}, nil, nil, config.AIConfig{})

	piece, err := gen.GenerateForEntry(context.Background(), testTrip(), textEntry(1))
	require.NoError(t, err)

	assert.Contains(t, piece.GeneratedContent, "Mara shared a text")
	assert.Contains(t, piece.GeneratedContent, "We reached the summit today.")
	assert.Contains(t, piece.GeneratedContent, "**2023-12-01 12:00 UTC**")
	require.Len(t, content.pieces, 1)
}

func TestGenerateForEntry_FallbackOmitsPlaceholderCaption(t *testing.T) {
	client := &fakeAIClient{textErr: errors.New("down")}
	gen := newTestGenerator(&fakeContentRepo{}, &fakeEntryRepo{}, client, &fakeEnricher{}, nil, nil, config.AIConfig{})

	entry := textEntry(1)
	entry.ContentType = models.ContentTypePhoto
	entry.Content = "Photo upload"

	piece, err := gen.GenerateForEntry(context.Background(), testTrip(), entry)
	require.NoError(t, err)
	assert.Equal(t, "**2023-12-01 12:00 UTC** - Mara shared a photo.", piece.GeneratedContent)
}

func TestGenerateForEntry_DailyLimitSkipsVisionCall(t *testing.T) {
	client := &fakeAIClient{textResponse: "ok"}
	store := &fakeStore{files: map[string][]byte{
		"a.jpg": []byte("img"),
		"b.jpg": []byte("img"),
	}}
	enricher := &fakeEnricher{photoText: "A lake.", photoCalled: true}
	limiter := ai.NewDailyLimiter(1)
	cfg := config.AIConfig{EnablePhotoAnalysis: true}
	gen := newTestGenerator(&fakeContentRepo{}, &fakeEntryRepo{}, client, enricher, limiter, store, cfg)

	for i, filename := range []string{"a.jpg", "b.jpg"} {
		entry := textEntry(int64(i + 1))
		entry.ContentType = models.ContentTypePhoto
		f := filename
		entry.Filename = &f
		entry.Content = "Sunset over the water"
		_, err := gen.GenerateForEntry(context.Background(), testTrip(), entry)
		require.NoError(t, err)
	}

	// only the first photo got a vision call; the second hit the cap
	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, 1, limiter.UsageToday())
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], "Photo shared by Mara: Sunset over the water")
}

func TestGenerateForEntry_AudioUsesTranscript(t *testing.T) {
	client := &fakeAIClient{textResponse: "ok"}
	store := &fakeStore{files: map[string][]byte{"rec.mp3": []byte("audio")}}
	gen := newTestGenerator(&fakeContentRepo{}, &fakeEntryRepo{}, client, &fakeEnricher{}, nil, store, config.AIConfig{})

	entry := textEntry(5)
	entry.ContentType = models.ContentTypeAudio
	filename := "rec.mp3"
	entry.Filename = &filename
	entry.Content = "Voice recording"

	_, err := gen.GenerateForEntry(context.Background(), testTrip(), entry)
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "transcript text")
}

func TestRegenerateTrip_ReplaysActiveEntriesInOrder(t *testing.T) {
	content := &fakeContentRepo{}
	client := &fakeAIClient{textResponse: "regenerated"}

	var entries []models.Entry
	for i := 1; i <= 3; i++ {
		e := textEntry(int64(i))
		e.Timestamp = time.Date(2023, 12, i, 12, 0, 0, 0, time.UTC)
		e.Content = fmt.Sprintf("day %d", i)
		entries = append(entries, *e)
	}
	entryRepo := &fakeEntryRepo{entries: entries, disabled: 2}

	gen := newTestGenerator(content, entryRepo, client, &fakeEnricher{}, nil, nil, config.AIConfig{})

	// pre-existing pieces must be replaced wholesale
	require.NoError(t, content.Create(context.Background(), &models.ContentPiece{TripID: 1}))

	created, skipped, err := gen.RegenerateTrip(context.Background(), testTrip())
	require.NoError(t, err)

	assert.Equal(t, 3, created)
	assert.Equal(t, 2, skipped)
	require.Len(t, content.pieces, 3)
	assert.Equal(t, []int64{1}, content.pieces[0].EntryIDs)
	assert.Equal(t, []int64{3}, content.pieces[2].EntryIDs)
	assert.Equal(t, "2023-12-01", content.pieces[0].ContentDate)
	assert.Equal(t, "2023-12-03", content.pieces[2].ContentDate)
}

func TestLanguageName_UnknownCodeFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "English", languageName("xx"))
	assert.Equal(t, "Japanese", languageName("ja"))
}

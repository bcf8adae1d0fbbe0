package services

import (
	"context"
	"fmt"
	"strings"

	"roadweave-backend/internal/ai"
	"roadweave-backend/internal/config"
	"roadweave-backend/internal/media"
	"roadweave-backend/internal/models"
	"roadweave-backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// Default captions the client attaches to media-only submissions. A caption
// equal to these carries no information and is not echoed into prompts.
const (
	defaultPhotoCaption = "Photo upload"
	defaultAudioCaption = "Voice recording"
)

// languageNames maps narrative language codes to display names for prompts.
// Unknown codes fall back to English.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
	"nl": "Dutch",
	"sv": "Swedish",
	"no": "Norwegian",
	"da": "Danish",
	"fi": "Finnish",
	"pl": "Polish",
	"tr": "Turkish",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

// ContentWriter is the slice of the content repository the generator needs
type ContentWriter interface {
	Create(ctx context.Context, piece *models.ContentPiece) error
	DeleteByTrip(ctx context.Context, tripID int64) (int64, error)
}

// EntryReader is the slice of the entry repository the generator needs
type EntryReader interface {
	ListActiveByTrip(ctx context.Context, tripID int64) ([]models.Entry, error)
	CountDisabledByTrip(ctx context.Context, tripID int64) (int, error)
}

// Enrichment is the AI preprocessing boundary (photo description, audio
// transcription); *Enricher is the production implementation
type Enrichment interface {
	DescribePhoto(ctx context.Context, filename, caption string) (string, bool)
	TranscribeAudio(ctx context.Context, filename string) string
}

// ContentGenerator turns entries into narrated content pieces. Every entry
// run through it yields exactly one piece, whether or not the model is
// reachable.
type ContentGenerator struct {
	contentRepo ContentWriter
	entryRepo   EntryReader
	client      ai.Client
	enricher    Enrichment
	limiter     *ai.DailyLimiter
	store       storage.Store
	cfg         config.AIConfig
	timezone    string
}

// NewContentGenerator creates a content generator
func NewContentGenerator(
	contentRepo ContentWriter,
	entryRepo EntryReader,
	client ai.Client,
	enricher Enrichment,
	limiter *ai.DailyLimiter,
	store storage.Store,
	cfg config.AIConfig,
	timezone string,
) *ContentGenerator {
	return &ContentGenerator{
		contentRepo: contentRepo,
		entryRepo:   entryRepo,
		client:      client,
		enricher:    enricher,
		limiter:     limiter,
		store:       store,
		cfg:         cfg,
		timezone:    timezone,
	}
}

// GenerateForEntry produces and persists exactly one content piece for the
// entry. Model failures surface as a deterministic fallback narrative, never
// as an error; only a failed insert returns one.
func (g *ContentGenerator) GenerateForEntry(ctx context.Context, trip *models.Trip, entry *models.Entry) (*models.ContentPiece, error) {
	language := languageName(trip.BlogLanguage)

	description := g.describeEntry(ctx, entry)

	prompt := g.buildPrompt(trip, entry, language, description)

	generated, err := g.client.GenerateText(ctx, prompt)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("trip_id", trip.ID).
			Int64("entry_id", entry.ID).
			Msg("Narrative generation failed, using fallback")
		generated = g.fallbackNarrative(entry)
	}

	piece := &models.ContentPiece{
		TripID:           trip.ID,
		Timestamp:        entry.Timestamp,
		GeneratedContent: strings.TrimSpace(generated),
		Latitude:         entry.Latitude,
		Longitude:        entry.Longitude,
		OriginalText:     description,
		EntryIDs:         []int64{entry.ID},
		ContentDate:      entry.Timestamp.UTC().Format("2006-01-02"),
	}

	if err := g.contentRepo.Create(ctx, piece); err != nil {
		return nil, fmt.Errorf("failed to persist content piece: %w", err)
	}

	return piece, nil
}

// describeEntry builds the content description seeding the narrative prompt.
// Exactly one path applies: photo analysis (possibly cost-capped), audio
// transcript, or the raw entry text.
func (g *ContentGenerator) describeEntry(ctx context.Context, entry *models.Entry) string {
	switch entry.ContentType {
	case models.ContentTypePhoto:
		if !g.cfg.EnablePhotoAnalysis || entry.Filename == nil {
			break
		}
		filename := *entry.Filename
		if !media.IsImageFile(filename) || !g.store.Exists(ctx, filename) {
			break
		}

		if !g.limiter.CheckDailyLimit() {
			// policy branch, not an error: substitute a cheap description
			// and leave the counter untouched
			log.Info().
				Int64("entry_id", entry.ID).
				Msg("Daily photo analysis limit reached, skipping vision call")
			return cappedPhotoText(entry.TravelerName, entry.Content)
		}

		description, called := g.enricher.DescribePhoto(ctx, filename, entry.Content)
		if called {
			g.limiter.IncrementDailyUsage()
		}
		return description

	case models.ContentTypeAudio:
		if entry.Filename == nil {
			break
		}
		filename := *entry.Filename
		if !media.IsAudioFile(filename) || !g.store.Exists(ctx, filename) {
			break
		}
		return g.enricher.TranscribeAudio(ctx, filename)
	}

	return entry.Content
}

// cappedPhotoText replaces a vision description when the daily limit is hit
func cappedPhotoText(travelerName, caption string) string {
	text := fmt.Sprintf("Photo shared by %s", travelerName)
	if caption != "" && caption != defaultPhotoCaption {
		text += fmt.Sprintf(": %s", caption)
	}
	return text
}

// buildPrompt assembles the single narrative-generation prompt. Exact GPS
// coordinates are deliberately withheld so they cannot leak into the text;
// structured fields carry them instead.
func (g *ContentGenerator) buildPrompt(trip *models.Trip, entry *models.Entry, language, description string) string {
	locationInfo := "No location data"
	if entry.Latitude != nil && entry.Longitude != nil {
		locationInfo = "GPS coordinates are recorded for this entry (do not mention or guess the exact coordinates)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are writing a travel blog for a trip called %q.\n\n", trip.Name)
	fmt.Fprintf(&sb, "IMPORTANT: Write your response in %s.\n\n", language)
	sb.WriteString("New entry details:\n")
	fmt.Fprintf(&sb, "- Type: %s\n", entry.ContentType)
	fmt.Fprintf(&sb, "- Content: %s\n", description)
	fmt.Fprintf(&sb, "- Traveler: %s\n", entry.TravelerName)
	fmt.Fprintf(&sb, "- Time: %s\n", FormatTimestampLocal(entry.Timestamp, g.timezone))
	fmt.Fprintf(&sb, "- Location: %s\n\n", locationInfo)
	fmt.Fprintf(&sb, "Write a short, engaging paragraph (2-3 sentences) about this entry IN %s, in a friendly travel blog style.\n", strings.ToUpper(language))
	if entry.ContentType == models.ContentTypePhoto {
		fmt.Fprintf(&sb, "Place the marker [PHOTO:%d] at the point in your text where the photo belongs.\n", entry.ID)
	}
	sb.WriteString("Do NOT include timestamps, dates, or entry numbering in your text; those are shown separately.")

	return sb.String()
}

// fallbackNarrative is the deterministic narrative used when the model call
// fails. It never contains coordinates.
func (g *ContentGenerator) fallbackNarrative(entry *models.Entry) string {
	text := fmt.Sprintf("**%s** - %s shared a %s.",
		FormatTimestampLocal(entry.Timestamp, g.timezone),
		entry.TravelerName,
		entry.ContentType,
	)
	if entry.Content != "" && entry.Content != defaultPhotoCaption && entry.Content != defaultAudioCaption {
		text += fmt.Sprintf(" %s", entry.Content)
	}
	return text
}

// RegenerateTrip deletes every content piece of the trip and replays its
// non-disabled entries, oldest first, through the generator. One entry's
// failure is logged and skipped; the batch continues.
func (g *ContentGenerator) RegenerateTrip(ctx context.Context, trip *models.Trip) (created, skipped int, err error) {
	deleted, err := g.contentRepo.DeleteByTrip(ctx, trip.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to clear content pieces: %w", err)
	}

	entries, err := g.entryRepo.ListActiveByTrip(ctx, trip.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list entries: %w", err)
	}

	skipped, err = g.entryRepo.CountDisabledByTrip(ctx, trip.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count disabled entries: %w", err)
	}

	for i := range entries {
		if _, err := g.GenerateForEntry(ctx, trip, &entries[i]); err != nil {
			log.Error().
				Err(err).
				Int64("trip_id", trip.ID).
				Int64("entry_id", entries[i].ID).
				Msg("Regeneration failed for entry, continuing")
			continue
		}
		created++
	}

	log.Info().
		Int64("trip_id", trip.ID).
		Int64("pieces_deleted", deleted).
		Int("pieces_created", created).
		Int("entries_skipped", skipped).
		Msg("Trip content regenerated")

	return created, skipped, nil
}

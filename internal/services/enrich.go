package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"roadweave-backend/internal/ai"
	"roadweave-backend/internal/config"
	"roadweave-backend/internal/media"
	"roadweave-backend/internal/storage"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// Audio adapter placeholders. Enrichment failure must never abort entry
// creation, so every failure mode collapses into one of these strings.
const (
	audioDisabledText = "[Audio transcription not available]"
	audioFailedText   = "[Audio transcription failed]"
)

// Enricher runs the optional AI preprocessing of uploaded media: photo
// description and audio transcription
type Enricher struct {
	client ai.Client
	store  storage.Store
	cfg    config.AIConfig
}

// NewEnricher creates an enricher
func NewEnricher(client ai.Client, store storage.Store, cfg config.AIConfig) *Enricher {
	return &Enricher{client: client, store: store, cfg: cfg}
}

// DescribePhoto turns an uploaded image into 2-3 descriptive sentences. The
// returned bool reports whether a paid vision call was actually made, so the
// caller can account for it. Failures yield deterministic fallback text and
// never an error.
func (e *Enricher) DescribePhoto(ctx context.Context, filename, caption string) (string, bool) {
	data, err := e.store.Read(ctx, filename)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Photo analysis: read failed")
		return photoFallbackText(caption), false
	}

	prepared, width, height, err := e.prepareImage(data)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Photo analysis: decode failed")
		return photoFallbackText(caption), false
	}

	if e.cfg.LogCosts {
		// rough vision-token figure from pixel count, for spend observability
		estTokens := (width*height)/750 + 250
		log.Info().
			Str("filename", filename).
			Int("width", width).
			Int("height", height).
			Int("estimated_tokens", estTokens).
			Msg("Photo analysis cost estimate")
	}

	prompt := fmt.Sprintf(`Describe this travel photo in 2-3 sentences. Cover the scene, the
setting, the mood and any notable details. The traveler captioned it: "%s".
If the caption adds context, relate the description to it.`, caption)

	description, err := e.client.GenerateWithMedia(ctx, prompt, prepared, "image/jpeg")
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Photo analysis: model call failed")
		return photoFallbackText(caption), true
	}

	// the fallback paths already reference the caption; only a real model
	// description needs it appended
	if caption != "" && caption != defaultPhotoCaption {
		description += fmt.Sprintf("\n\nThe traveler's own caption: %s", caption)
	}

	return description, true
}

// TranscribeAudio turns an uploaded recording into text. When transcription
// is disabled the model is never called. Failures yield a placeholder.
func (e *Enricher) TranscribeAudio(ctx context.Context, filename string) string {
	if !e.cfg.EnableAudioTranscription {
		return audioDisabledText
	}

	data, err := e.store.Read(ctx, filename)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Audio transcription: read failed")
		return audioFailedText
	}

	if e.cfg.LogCosts {
		log.Info().
			Str("filename", filename).
			Int("bytes", len(data)).
			Msg("Audio transcription cost estimate")
	}

	prompt := `Transcribe this audio recording verbatim. Use proper punctuation.
Mark passages you cannot make out as [unclear]. If there are multiple
speakers, preserve the changes between them.`

	transcript, err := e.client.GenerateWithMedia(ctx, prompt, data, media.MimeType(filename))
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Audio transcription: model call failed")
		return audioFailedText
	}

	return transcript
}

// prepareImage decodes an upload, downscales it when either dimension exceeds
// the configured maximum (preserving aspect ratio) and re-encodes as JPEG.
// Returns the encoded bytes plus the dimensions that were sent.
func (e *Enricher) prepareImage(data []byte) ([]byte, int, int, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	maxDim := e.cfg.MaxImageDimension
	if maxDim > 0 && (width > maxDim || height > maxDim) {
		if width >= height {
			height = height * maxDim / width
			width = maxDim
		} else {
			width = width * maxDim / height
			height = maxDim
		}
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), width, height, nil
}

// photoFallbackText is the deterministic stand-in for a failed photo analysis
func photoFallbackText(caption string) string {
	if caption != "" && caption != defaultPhotoCaption {
		return fmt.Sprintf("A photo was shared, captioned: %q", caption)
	}
	return "A photo was shared"
}

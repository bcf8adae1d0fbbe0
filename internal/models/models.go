package models

import "time"

// Entry content types
const (
	ContentTypeText  = "text"
	ContentTypePhoto = "photo"
	ContentTypeAudio = "audio"
)

// Trip represents one collaborative travel blog
type Trip struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	AdminToken       string    `json:"admin_token,omitempty"`
	BlogLanguage     string    `json:"blog_language"`
	PublicEnabled    bool      `json:"public_enabled"`
	PublicToken      *string   `json:"public_token,omitempty"`
	ReactionsEnabled bool      `json:"reactions_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

// Traveler represents a contributor to a trip, identified by a capability token
type Traveler struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	Name      string    `json:"name"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry represents one traveler submission (text, photo or audio)
type Entry struct {
	ID          int64     `json:"id"`
	TripID      int64     `json:"trip_id"`
	TravelerID  int64     `json:"traveler_id"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Timestamp   time.Time `json:"timestamp"`
	Filename    *string   `json:"filename"`
	Disabled    bool      `json:"disabled"`

	// Joined from travelers for read endpoints
	TravelerName string `json:"traveler_name,omitempty"`
}

// ContentPiece is one AI-narrated fragment derived from a single entry.
// Immutable once written; a trip-level regeneration replaces the whole set.
type ContentPiece struct {
	ID               int64     `json:"id"`
	TripID           int64     `json:"trip_id"`
	Timestamp        time.Time `json:"timestamp"`
	GeneratedContent string    `json:"generated_content"`
	Latitude         *float64  `json:"latitude"`
	Longitude        *float64  `json:"longitude"`
	OriginalText     string    `json:"original_text"`
	EntryIDs         []int64   `json:"entry_ids"`
	ContentDate      string    `json:"content_date"` // YYYY-MM-DD, the source entry's date
}

// Reaction is an aggregate counter, one row per (content piece, reaction type)
type Reaction struct {
	ID             int64     `json:"id"`
	TripID         int64     `json:"trip_id"`
	ContentPieceID int64     `json:"content_piece_id"`
	ReactionType   string    `json:"reaction_type"`
	Count          int       `json:"count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReactionTypes lists the reaction kinds the public blog accepts
var ReactionTypes = []string{"like", "applause", "support", "love", "insightful", "funny"}

// IsValidReactionType reports whether t is one of the accepted reaction kinds
func IsValidReactionType(t string) bool {
	for _, rt := range ReactionTypes {
		if rt == t {
			return true
		}
	}
	return false
}

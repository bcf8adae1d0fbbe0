package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roadweave-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentRepository handles database operations for content pieces
type ContentRepository struct {
	db *pgxpool.Pool
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

// Create inserts a new content piece and fills in its generated ID
func (r *ContentRepository) Create(ctx context.Context, piece *models.ContentPiece) error {
	entryIDs, err := json.Marshal(piece.EntryIDs)
	if err != nil {
		return fmt.Errorf("failed to encode entry ids: %w", err)
	}

	query := `
		INSERT INTO content_pieces (trip_id, ts, generated_content,
			latitude, longitude, original_text, entry_ids, content_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date)
		RETURNING id
	`
	err = r.db.QueryRow(ctx, query,
		piece.TripID, piece.Timestamp, piece.GeneratedContent,
		piece.Latitude, piece.Longitude, piece.OriginalText,
		entryIDs, piece.ContentDate,
	).Scan(&piece.ID)
	if err != nil {
		return fmt.Errorf("failed to create content piece: %w", err)
	}
	return nil
}

func scanPiece(rows pgx.Rows) (*models.ContentPiece, error) {
	var p models.ContentPiece
	var entryIDs []byte
	var contentDate time.Time
	err := rows.Scan(
		&p.ID, &p.TripID, &p.Timestamp, &p.GeneratedContent,
		&p.Latitude, &p.Longitude, &p.OriginalText, &entryIDs, &contentDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content piece: %w", err)
	}
	if err := json.Unmarshal(entryIDs, &p.EntryIDs); err != nil {
		return nil, fmt.Errorf("failed to decode entry ids: %w", err)
	}
	p.ContentDate = contentDate.Format("2006-01-02")
	return &p, nil
}

func (r *ContentRepository) list(ctx context.Context, query string, args ...any) ([]models.ContentPiece, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list content pieces: %w", err)
	}
	defer rows.Close()

	var pieces []models.ContentPiece
	for rows.Next() {
		p, err := scanPiece(rows)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content pieces: %w", err)
	}

	return pieces, nil
}

const pieceColumns = `
	SELECT id, trip_id, ts, generated_content, latitude, longitude,
		original_text, entry_ids, content_date
	FROM content_pieces
`

// ListByTrip retrieves a trip's content pieces, newest first
func (r *ContentRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.ContentPiece, error) {
	return r.list(ctx, pieceColumns+`WHERE trip_id = $1 ORDER BY ts DESC`, tripID)
}

// ListByTripDate retrieves the trip's content pieces for one calendar date,
// oldest first
func (r *ContentRepository) ListByTripDate(ctx context.Context, tripID int64, date string) ([]models.ContentPiece, error) {
	return r.list(ctx,
		pieceColumns+`WHERE trip_id = $1 AND content_date = $2::date ORDER BY ts ASC`,
		tripID, date)
}

// GetByID retrieves one content piece
func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*models.ContentPiece, error) {
	rows, err := r.db.Query(ctx, pieceColumns+`WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get content piece: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get content piece: %w", err)
		}
		return nil, fmt.Errorf("content piece: %w", ErrNotFound)
	}
	return scanPiece(rows)
}

// CalendarDay aggregates one calendar date's content for the calendar view
type CalendarDay struct {
	Date       string `json:"date"`
	TotalCount int    `json:"total_count"`
}

// CalendarByTrip returns per-date piece counts in ascending date order
func (r *ContentRepository) CalendarByTrip(ctx context.Context, tripID int64) ([]CalendarDay, error) {
	query := `
		SELECT content_date, COUNT(*)
		FROM content_pieces
		WHERE trip_id = $1
		GROUP BY content_date
		ORDER BY content_date ASC
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar data: %w", err)
	}
	defer rows.Close()

	var days []CalendarDay
	for rows.Next() {
		var d CalendarDay
		var date time.Time
		if err := rows.Scan(&date, &d.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan calendar day: %w", err)
		}
		d.Date = date.Format("2006-01-02")
		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendar days: %w", err)
	}

	return days, nil
}

// DeleteByTrip removes every content piece of a trip and returns the count
func (r *ContentRepository) DeleteByTrip(ctx context.Context, tripID int64) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM content_pieces WHERE trip_id = $1`, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete content pieces: %w", err)
	}
	return result.RowsAffected(), nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"roadweave-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntryRepository handles database operations for entries
type EntryRepository struct {
	db *pgxpool.Pool
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create creates a new entry and fills in its generated ID and timestamp
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (trip_id, traveler_id, content_type, content,
			latitude, longitude, filename)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, ts
	`
	err := r.db.QueryRow(ctx, query,
		entry.TripID, entry.TravelerID, entry.ContentType, entry.Content,
		entry.Latitude, entry.Longitude, entry.Filename,
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// GetByID retrieves an entry by ID with its traveler name
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	query := `
		SELECT e.id, e.trip_id, e.traveler_id, e.content_type, e.content,
			e.latitude, e.longitude, e.ts, e.filename, e.disabled, t.name
		FROM entries e
		JOIN travelers t ON t.id = e.traveler_id
		WHERE e.id = $1
	`
	var entry models.Entry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.TripID, &entry.TravelerID, &entry.ContentType,
		&entry.Content, &entry.Latitude, &entry.Longitude, &entry.Timestamp,
		&entry.Filename, &entry.Disabled, &entry.TravelerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &entry, nil
}

func (r *EntryRepository) list(ctx context.Context, query string, args ...any) ([]models.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		err := rows.Scan(
			&e.ID, &e.TripID, &e.TravelerID, &e.ContentType, &e.Content,
			&e.Latitude, &e.Longitude, &e.Timestamp, &e.Filename,
			&e.Disabled, &e.TravelerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

const entryListColumns = `
	SELECT e.id, e.trip_id, e.traveler_id, e.content_type, e.content,
		e.latitude, e.longitude, e.ts, e.filename, e.disabled, t.name
	FROM entries e
	JOIN travelers t ON t.id = e.traveler_id
`

// ListByTrip retrieves all of a trip's entries, newest first
func (r *EntryRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.Entry, error) {
	return r.list(ctx, entryListColumns+`WHERE e.trip_id = $1 ORDER BY e.ts DESC`, tripID)
}

// ListActiveByTrip retrieves the trip's non-disabled entries in ascending
// timestamp order, the replay order for regeneration
func (r *EntryRepository) ListActiveByTrip(ctx context.Context, tripID int64) ([]models.Entry, error) {
	return r.list(ctx,
		entryListColumns+`WHERE e.trip_id = $1 AND e.disabled = FALSE ORDER BY e.ts ASC`,
		tripID)
}

// CountDisabledByTrip counts the trip's disabled entries
func (r *EntryRepository) CountDisabledByTrip(ctx context.Context, tripID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM entries WHERE trip_id = $1 AND disabled = TRUE`,
		tripID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count disabled entries: %w", err)
	}
	return count, nil
}

// UpdateCoordinates sets or clears an entry's GPS coordinates
func (r *EntryRepository) UpdateCoordinates(ctx context.Context, id int64, lat, lon *float64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE entries SET latitude = $1, longitude = $2 WHERE id = $3`, lat, lon, id)
	if err != nil {
		return fmt.Errorf("failed to update entry coordinates: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry: %w", ErrNotFound)
	}
	return nil
}

// SetDisabled toggles an entry's disabled flag
func (r *EntryRepository) SetDisabled(ctx context.Context, id int64, disabled bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE entries SET disabled = $1 WHERE id = $2`, disabled, id)
	if err != nil {
		return fmt.Errorf("failed to update entry disabled flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry: %w", ErrNotFound)
	}
	return nil
}

// ListFilenamesByTrip returns the uploaded filenames referenced by a trip's
// entries, for file cleanup before a trip delete
func (r *EntryRepository) ListFilenamesByTrip(ctx context.Context, tripID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT filename FROM entries WHERE trip_id = $1 AND filename IS NOT NULL`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry filenames: %w", err)
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("failed to scan filename: %w", err)
		}
		filenames = append(filenames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating filenames: %w", err)
	}

	return filenames, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"roadweave-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TripRepository handles database operations for trips
type TripRepository struct {
	db *pgxpool.Pool
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, name, description, admin_token, blog_language,
	public_enabled, public_token, reactions_enabled, created_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var trip models.Trip
	err := row.Scan(
		&trip.ID, &trip.Name, &trip.Description, &trip.AdminToken,
		&trip.BlogLanguage, &trip.PublicEnabled, &trip.PublicToken,
		&trip.ReactionsEnabled, &trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// Create creates a new trip and fills in its generated ID
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (name, description, admin_token, blog_language, reactions_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, reactions_enabled, created_at
	`
	err := r.db.QueryRow(ctx, query,
		trip.Name, trip.Description, trip.AdminToken, trip.BlogLanguage, trip.ReactionsEnabled,
	).Scan(&trip.ID, &trip.ReactionsEnabled, &trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return scanTrip(r.db.QueryRow(ctx, query, id))
}

// GetByPublicToken retrieves a publicly shared trip by its public token.
// Trips whose public flag is off are not found through this path.
func (r *TripRepository) GetByPublicToken(ctx context.Context, token string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
		WHERE public_token = $1 AND public_enabled = TRUE`
	return scanTrip(r.db.QueryRow(ctx, query, token))
}

// TripSummary is a trip with its traveler and entry counts for the admin list
type TripSummary struct {
	models.Trip
	TravelerCount int `json:"traveler_count"`
	EntryCount    int `json:"entry_count"`
}

// List retrieves all trips with traveler and entry counts
func (r *TripRepository) List(ctx context.Context) ([]TripSummary, error) {
	query := `
		SELECT ` + tripColumns + `,
			(SELECT COUNT(*) FROM travelers tr WHERE tr.trip_id = trips.id),
			(SELECT COUNT(*) FROM entries e WHERE e.trip_id = trips.id)
		FROM trips
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []TripSummary
	for rows.Next() {
		var t TripSummary
		err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.AdminToken,
			&t.BlogLanguage, &t.PublicEnabled, &t.PublicToken,
			&t.ReactionsEnabled, &t.CreatedAt,
			&t.TravelerCount, &t.EntryCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}

	return trips, nil
}

// UpdateLanguage updates the trip's narrative language code
func (r *TripRepository) UpdateLanguage(ctx context.Context, id int64, language string) error {
	result, err := r.db.Exec(ctx, `UPDATE trips SET blog_language = $1 WHERE id = $2`, language, id)
	if err != nil {
		return fmt.Errorf("failed to update trip language: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip: %w", ErrNotFound)
	}
	return nil
}

// UpdatePublic updates the public-sharing flag and, when token is non-nil,
// the public token
func (r *TripRepository) UpdatePublic(ctx context.Context, id int64, enabled bool, token *string) error {
	var result pgconn.CommandTag
	var err error
	if token != nil {
		result, err = r.db.Exec(ctx,
			`UPDATE trips SET public_enabled = $1, public_token = $2 WHERE id = $3`,
			enabled, *token, id)
	} else {
		result, err = r.db.Exec(ctx,
			`UPDATE trips SET public_enabled = $1 WHERE id = $2`, enabled, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update trip public access: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip: %w", ErrNotFound)
	}
	return nil
}

// UpdateReactionsEnabled toggles whether public reactions are accepted
func (r *TripRepository) UpdateReactionsEnabled(ctx context.Context, id int64, enabled bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE trips SET reactions_enabled = $1 WHERE id = $2`, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to update trip reactions flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip: %w", ErrNotFound)
	}
	return nil
}

// Delete removes a trip; travelers, entries, content pieces and reactions
// go with it via the schema's cascades
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip: %w", ErrNotFound)
	}
	return nil
}

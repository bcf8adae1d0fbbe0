package repository

import (
	"context"
	"errors"
	"fmt"

	"roadweave-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TravelerRepository handles database operations for travelers
type TravelerRepository struct {
	db *pgxpool.Pool
}

// NewTravelerRepository creates a new traveler repository
func NewTravelerRepository(db *pgxpool.Pool) *TravelerRepository {
	return &TravelerRepository{db: db}
}

// Create creates a new traveler and fills in its generated ID
func (r *TravelerRepository) Create(ctx context.Context, traveler *models.Traveler) error {
	query := `
		INSERT INTO travelers (trip_id, name, token)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		traveler.TripID, traveler.Name, traveler.Token,
	).Scan(&traveler.ID, &traveler.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create traveler: %w", err)
	}
	return nil
}

// GetByToken retrieves a traveler by submission token
func (r *TravelerRepository) GetByToken(ctx context.Context, token string) (*models.Traveler, error) {
	query := `
		SELECT id, trip_id, name, token, created_at
		FROM travelers
		WHERE token = $1
	`
	var traveler models.Traveler
	err := r.db.QueryRow(ctx, query, token).Scan(
		&traveler.ID, &traveler.TripID, &traveler.Name,
		&traveler.Token, &traveler.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("traveler: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get traveler: %w", err)
	}
	return &traveler, nil
}

// GetByID retrieves a traveler by ID
func (r *TravelerRepository) GetByID(ctx context.Context, id int64) (*models.Traveler, error) {
	query := `
		SELECT id, trip_id, name, token, created_at
		FROM travelers
		WHERE id = $1
	`
	var traveler models.Traveler
	err := r.db.QueryRow(ctx, query, id).Scan(
		&traveler.ID, &traveler.TripID, &traveler.Name,
		&traveler.Token, &traveler.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("traveler: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get traveler: %w", err)
	}
	return &traveler, nil
}

// ListByTrip retrieves all travelers of a trip
func (r *TravelerRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.Traveler, error) {
	query := `
		SELECT id, trip_id, name, token, created_at
		FROM travelers
		WHERE trip_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list travelers: %w", err)
	}
	defer rows.Close()

	var travelers []models.Traveler
	for rows.Next() {
		var t models.Traveler
		if err := rows.Scan(&t.ID, &t.TripID, &t.Name, &t.Token, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan traveler: %w", err)
		}
		travelers = append(travelers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating travelers: %w", err)
	}

	return travelers, nil
}

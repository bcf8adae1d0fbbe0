package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReactionRepository handles the aggregate reaction counters
type ReactionRepository struct {
	db *pgxpool.Pool
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *pgxpool.Pool) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Increment adds one to the (content piece, reaction type) counter, creating
// the row on first use. The unique constraint keeps this to a single row.
func (r *ReactionRepository) Increment(ctx context.Context, tripID, pieceID int64, reactionType string) error {
	query := `
		INSERT INTO reactions (trip_id, content_piece_id, reaction_type, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (content_piece_id, reaction_type)
		DO UPDATE SET count = reactions.count + 1, updated_at = now()
	`
	if _, err := r.db.Exec(ctx, query, tripID, pieceID, reactionType); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// Decrement subtracts one from the counter, flooring at zero
func (r *ReactionRepository) Decrement(ctx context.Context, pieceID int64, reactionType string) error {
	query := `
		UPDATE reactions
		SET count = GREATEST(count - 1, 0), updated_at = now()
		WHERE content_piece_id = $1 AND reaction_type = $2
	`
	if _, err := r.db.Exec(ctx, query, pieceID, reactionType); err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}
	return nil
}

// CountsByPiece returns the current count per reaction type for one piece.
// Types without a row are absent; callers fill in zeros.
func (r *ReactionRepository) CountsByPiece(ctx context.Context, pieceID int64) (map[string]int, error) {
	query := `
		SELECT reaction_type, count
		FROM reactions
		WHERE content_piece_id = $1
	`
	rows, err := r.db.Query(ctx, query, pieceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var reactionType string
		var count int
		if err := rows.Scan(&reactionType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		counts[reactionType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reactions: %w", err)
	}

	return counts, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates all tables. Trip deletion cascades to travelers, entries,
// content pieces and reactions; the (content_piece_id, reaction_type) unique
// constraint keeps reaction counters to one row per pair.
const schema = `
CREATE TABLE IF NOT EXISTS trips (
	id                BIGSERIAL PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	admin_token       TEXT NOT NULL UNIQUE,
	blog_language     TEXT NOT NULL DEFAULT 'en',
	public_enabled    BOOLEAN NOT NULL DEFAULT FALSE,
	public_token      TEXT UNIQUE,
	reactions_enabled BOOLEAN NOT NULL DEFAULT TRUE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS travelers (
	id         BIGSERIAL PRIMARY KEY,
	trip_id    BIGINT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	token      TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS entries (
	id           BIGSERIAL PRIMARY KEY,
	trip_id      BIGINT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	traveler_id  BIGINT NOT NULL REFERENCES travelers(id) ON DELETE CASCADE,
	content_type TEXT NOT NULL,
	content      TEXT NOT NULL DEFAULT '',
	latitude     DOUBLE PRECISION,
	longitude    DOUBLE PRECISION,
	ts           TIMESTAMPTZ NOT NULL DEFAULT now(),
	filename     TEXT,
	disabled     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_entries_trip_ts ON entries (trip_id, ts);

CREATE TABLE IF NOT EXISTS content_pieces (
	id                BIGSERIAL PRIMARY KEY,
	trip_id           BIGINT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	ts                TIMESTAMPTZ NOT NULL,
	generated_content TEXT NOT NULL,
	latitude          DOUBLE PRECISION,
	longitude         DOUBLE PRECISION,
	original_text     TEXT NOT NULL DEFAULT '',
	entry_ids         JSONB NOT NULL DEFAULT '[]',
	content_date      DATE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_content_trip_date ON content_pieces (trip_id, content_date);

CREATE TABLE IF NOT EXISTS reactions (
	id               BIGSERIAL PRIMARY KEY,
	trip_id          BIGINT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	content_piece_id BIGINT NOT NULL REFERENCES content_pieces(id) ON DELETE CASCADE,
	reaction_type    TEXT NOT NULL,
	count            INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (content_piece_id, reaction_type)
);
`

// Migrate creates the schema if it does not exist yet
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Package storage abstracts where uploaded entry files live. Entries
// reference files by generated filename only; the enrichment pipeline reads
// bytes back through this interface.
package storage

import (
	"context"
	"fmt"

	"roadweave-backend/internal/config"
)

// Store persists uploaded files under opaque filenames
type Store interface {
	Save(ctx context.Context, filename string, data []byte) error
	Read(ctx context.Context, filename string) ([]byte, error)
	Exists(ctx context.Context, filename string) bool
	Delete(ctx context.Context, filename string) error
}

// New creates the store selected by cfg.Driver
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalPath)
	case "s3":
		return NewS3Store(cfg.AWS)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

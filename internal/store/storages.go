package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
)

// Storages groups the server's persistence.
type Storages struct {
	ChangeRepository ChangeRepository

	db *DB
}

// NewStorages opens the change log named by cfg.DB.DSN and migrates it. An
// empty DSN keeps the log in memory.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	if cfg.DB.DSN == "" {
		log.Warn().Msg("no database configured, change log is kept in memory")
		return &Storages{ChangeRepository: NewMemoryChangeRepository()}, nil
	}

	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to change log database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error migrating change log database: %w", err)
	}

	return &Storages{
		ChangeRepository: NewChangeRepository(db, log),
		db:               db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

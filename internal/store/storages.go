package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/logger"
)

// Storages bundles the repositories of a server together with the connection
// they share.
type Storages struct {
	PlayerRepository PlayerRepository

	db *DB
}

// NewStorages connects to cfg.DSN, applies migrations and builds the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := Connect(ctx, cfg.DSN, log)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storages{
		PlayerRepository: NewPlayerRepository(db, log),
		db:               db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("error closing roster database: %w", err)
	}
	return nil
}

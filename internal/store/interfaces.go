package store

import (
	"context"
	"time"

	"github.com/MKhiriev/hostile-planets/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// PlayerRepository persists the roster so players keep their first-seen time
// and scout position across server restarts.
type PlayerRepository interface {
	// Save inserts p or, if the name exists, updates its last-seen time and
	// scout. FirstSeen of an existing row is kept.
	Save(ctx context.Context, p models.Player) error
	// Touch updates the last-seen time of an existing player.
	Touch(ctx context.Context, name string, at time.Time) error
	// SavePosition stores the scout of an existing player.
	SavePosition(ctx context.Context, name string, scout models.Unit) error
	// Find returns a stored player, or ErrPlayerNotFound.
	Find(ctx context.Context, name string) (models.Player, error)
	// List returns all stored players sorted by name.
	List(ctx context.Context) ([]models.Player, error)
}

// ErrorClassificator interprets driver errors of one SQL backend.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}

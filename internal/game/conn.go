package game

import (
	"context"

	"github.com/MKhiriev/hostile-planets/models"
)

// Conn is a live game session bound to a player after join.
type Conn interface {
	// ID uniquely identifies the session for the server's lifetime.
	ID() string
	// Send writes one envelope to the peer.
	Send(ctx context.Context, env models.Envelope) error
	// Close ends the session with a reason shown to the peer.
	Close(reason string) error
}

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/game"
	"github.com/MKhiriev/hostile-planets/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// LobbyService owns player sessions of a running server: the join handshake,
// presence, unit moves and roster persistence.
type LobbyService interface {
	// Welcome returns the greeting sent on every new session.
	Welcome() models.Welcome
	// Join binds conn to the requested player name and issues a resume token.
	Join(ctx context.Context, conn game.Conn, req models.Join) (models.Joined, error)
	// Leave marks the player disconnected if conn is still its session.
	Leave(ctx context.Context, name, connID string)
	// Heartbeat records activity of a joined session.
	Heartbeat(ctx context.Context, name, connID string)
	// Move shifts the player's scout.
	Move(ctx context.Context, name string, move models.Move) (models.Unit, error)
	// Players returns every player known since the server started.
	Players() []models.Player
	// Presence reports whether name is connected, known or unknown.
	Presence(ctx context.Context, name string) models.Presence
	// Online returns the number of connected players.
	Online() int
	// BroadcastPlayers sends the current player list to every session.
	BroadcastPlayers(ctx context.Context)
	// ReapStale closes sessions silent for longer than timeout.
	ReapStale(ctx context.Context, timeout time.Duration) int
	// FlushPositions persists last-seen times and scouts of connected players.
	FlushPositions(ctx context.Context) error
	// CloseAll ends every live session.
	CloseAll(reason string)
}

// AppInfoService exposes build metadata of the running binary.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.BuildVersionResponse
}

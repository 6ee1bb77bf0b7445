package client

import (
	"context"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/models"
)

// headlessLoop is the main loop used without a terminal: it logs every
// session event until ctx is done.
type headlessLoop struct {
	client *Client
	logger *logger.Logger
}

func newHeadlessLoop(client *Client, log *logger.Logger) *headlessLoop {
	return &headlessLoop{client: client, logger: log.WithStr("loop", "headless")}
}

func (h *headlessLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-h.client.Events():
			h.logEvent(ctx, ev)
		}
	}
}

func (h *headlessLoop) logEvent(ctx context.Context, ev models.Event) {
	switch ev.Kind {
	case models.EventConnected:
		h.logger.Info().Str("motd", ev.Message).Str("player", ev.Player.Name).Msg("joined server")
		h.logServer(ctx)
	case models.EventDisconnected:
		h.logger.Warn().Err(ev.Err).Msg("disconnected")
	case models.EventPlayers:
		names := make([]string, 0, len(ev.Players))
		for _, p := range ev.Players {
			names = append(names, p.Name)
		}
		h.logger.Info().Strs("players", names).Msg("player list")
	case models.EventMoved:
		h.logger.Info().Str("unit", ev.Unit.Name).Int("x", ev.Unit.Position.X).Int("y", ev.Unit.Position.Y).Msg("unit moved")
	case models.EventServerError:
		h.logger.Warn().Str("error", ev.Message).Msg("server error")
	case models.EventModel:
		h.logger.Info().Str("model", ev.Message).Msg("model loaded")
	}
}

func (h *headlessLoop) logServer(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status, err := h.client.ServerStatus(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("server status unavailable")
		return
	}
	version, err := h.client.ServerVersion(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("server version unavailable")
		return
	}

	h.logger.Info().
		Str("server", status.Name).
		Int("players_online", status.PlayersOnline).
		Int("players_known", status.PlayersKnown).
		Str("uptime", status.Uptime).
		Str("version", version.Version).
		Msg("server status")
}

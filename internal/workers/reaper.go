package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/service"
)

// PresenceReaper closes sessions that stopped sending heartbeats.
type PresenceReaper struct {
	lobby    service.LobbyService
	interval time.Duration
	timeout  time.Duration

	logger *logger.Logger
}

func NewPresenceReaper(lobby service.LobbyService, interval, timeout time.Duration, log *logger.Logger) *PresenceReaper {
	return &PresenceReaper{
		lobby:    lobby,
		interval: interval,
		timeout:  timeout,
		logger:   log.WithStr("worker", "reaper"),
	}
}

func (r *PresenceReaper) Run(ctx context.Context) error {
	if r.interval <= 0 || r.timeout <= 0 {
		r.logger.Info().Msg("presence reaper disabled")
		return nil
	}

	t := time.NewTicker(r.interval)
	defer t.Stop()

	ctx = r.logger.WithContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := r.lobby.ReapStale(ctx, r.timeout); n > 0 {
				r.logger.Info().Int("closed", n).Msg("reaped silent sessions")
			}
		}
	}
}

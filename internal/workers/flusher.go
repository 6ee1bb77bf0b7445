package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/service"
)

// flushTimeout bounds the final flush after the worker is stopped.
const flushTimeout = 5 * time.Second

// RosterFlusher periodically persists scout positions of online players.
// Failures are logged and retried on the next tick.
type RosterFlusher struct {
	lobby    service.LobbyService
	interval time.Duration

	logger *logger.Logger
}

func NewRosterFlusher(lobby service.LobbyService, interval time.Duration, log *logger.Logger) *RosterFlusher {
	return &RosterFlusher{
		lobby:    lobby,
		interval: interval,
		logger:   log.WithStr("worker", "flusher"),
	}
}

func (f *RosterFlusher) Run(ctx context.Context) error {
	if f.interval <= 0 {
		f.logger.Info().Msg("roster flusher disabled")
		return nil
	}

	t := time.NewTicker(f.interval)
	defer t.Stop()

	ctx = f.logger.WithContext(ctx)
	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
			f.flush(finalCtx)
			cancel()
			return nil
		case <-t.C:
			f.flush(ctx)
		}
	}
}

func (f *RosterFlusher) flush(ctx context.Context) {
	if err := f.lobby.FlushPositions(ctx); err != nil {
		f.logger.Err(err).Msg("error flushing scout positions")
	}
}

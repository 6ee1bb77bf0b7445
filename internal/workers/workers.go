package workers

import (
	"context"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/service"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

// NewWorkers returns the background workers of a game server: the presence
// reaper and the roster flusher.
func NewWorkers(lobby service.LobbyService, cfg *config.ServerConf, log *logger.Logger) *Workers {
	return &Workers{workers: []Worker{
		NewPresenceReaper(lobby, cfg.Workers.ReapInterval.Std(), cfg.Session.HeartbeatTimeout.Std(), log),
		NewRosterFlusher(lobby, cfg.Workers.FlushInterval.Std(), log),
	}}
}

// Run starts every worker and waits for all of them. The first failure
// cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return g.Wait()
}

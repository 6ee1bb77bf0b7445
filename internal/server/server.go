package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/handler"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/service"
	"github.com/MKhiriev/hostile-planets/internal/store"
	"github.com/MKhiriev/hostile-planets/internal/workers"
	"github.com/MKhiriev/hostile-planets/models"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful stop of transports once Listen's
// context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server is a game server built from a [config.ServerConf].
//
// All query methods are safe to call from any goroutine, including while
// Listen runs on another one.
type Server struct {
	conf *config.ServerConf

	storages *store.Storages
	services *service.Services
	handlers *handler.Handlers
	workers  *workers.Workers

	mu        sync.Mutex
	listening bool
	closed    bool
	addr      net.Addr
	grpcAddr  net.Addr
	started   time.Time
	cancel    context.CancelFunc
	// done is closed when the current ListenTo call returns, bind failures
	// included.
	done chan struct{}

	ready     chan struct{}
	readyOnce sync.Once

	logger *logger.Logger
}

// New loads the server configuration from confPath and builds a server.
func New(confPath string, buildInfo models.AppBuildInfo, log *logger.Logger) (*Server, error) {
	conf, err := config.LoadServerConf(confPath)
	if err != nil {
		return nil, err
	}
	return NewWithConf(conf, buildInfo, log)
}

// NewWithConf builds a server from an already loaded configuration. It opens
// the roster store; an empty DSN runs without persistence.
func NewWithConf(conf *config.ServerConf, buildInfo models.AppBuildInfo, log *logger.Logger) (*Server, error) {
	log.Info().Str("name", conf.Name).Msg("creating new server...")

	s := &Server{
		conf:   conf,
		ready:  make(chan struct{}),
		logger: log,
	}

	if conf.Storage.DSN != "" {
		storages, err := store.NewStorages(context.Background(), conf.Storage, log)
		if err != nil {
			return nil, fmt.Errorf("error opening roster store: %w", err)
		}
		s.storages = storages
	}

	services, err := service.NewServices(s.storages, conf, buildInfo, log)
	if err != nil {
		_ = s.storages.Close()
		return nil, err
	}
	s.services = services

	handlers, err := handler.NewHandlers(services, conf, s, log)
	if err != nil {
		_ = s.storages.Close()
		return nil, err
	}
	s.handlers = handlers
	s.workers = workers.NewWorkers(services.LobbyService, conf, log)

	return s, nil
}

// Listen serves on the configured address until ctx is cancelled or
// Shutdown is called.
func (s *Server) Listen(ctx context.Context) error {
	return s.ListenTo(ctx, s.conf.ListenAddress())
}

// ListenTo serves on addr until ctx is cancelled or Shutdown is called. A
// failure to bind can be retried; once the server has served it cannot
// listen again.
func (s *Server) ListenTo(ctx context.Context, addr string) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrServerClosed
	case s.listening:
		s.mu.Unlock()
		return ErrAlreadyListening
	}
	s.listening = true
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()
	defer close(done)

	transports, err := s.bind(addr)
	if err != nil {
		s.mu.Lock()
		s.listening = false
		s.mu.Unlock()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		s.mu.Lock()
		s.closed = true
		s.listening = false
		s.mu.Unlock()
	}()

	s.mu.Lock()
	if s.closed {
		// Shutdown raced with bind
		s.mu.Unlock()
		s.stop(transports)
		return ErrServerClosed
	}
	s.cancel = cancel
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range transports {
		g.Go(t.Serve)
	}
	g.Go(func() error {
		return s.workers.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.stop(transports)
		return nil
	})

	if s.handlers.GRPC != nil {
		s.handlers.GRPC.SetServing(true)
	}
	s.logger.Info().Str("address", s.Addr().String()).Msg("server is listening")
	s.readyOnce.Do(func() { close(s.ready) })

	err = g.Wait()
	s.logger.Info().Msg("server Shutdown gracefully")
	return err
}

// bind opens every listener so that address errors surface before Ready.
func (s *Server) bind(addr string) ([]transport, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", addr, err)
	}

	transports := []transport{newHTTPServer(s.handlers.HTTP.Init(), lis, s.logger)}

	if s.handlers.GRPC != nil {
		grpcLis, err := net.Listen("tcp", s.conf.GRPC.Address)
		if err != nil {
			_ = lis.Close()
			return nil, fmt.Errorf("error listening on gRPC address %s: %w", s.conf.GRPC.Address, err)
		}
		transports = append(transports, newGRPCServer(s.handlers.GRPC, grpcLis, s.logger))

		s.mu.Lock()
		s.grpcAddr = grpcLis.Addr()
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.addr = lis.Addr()
	s.started = time.Now()
	s.mu.Unlock()

	return transports, nil
}

func (s *Server) stop(transports []transport) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, t := range transports {
		t.Shutdown(ctx)
	}
	// hijacked WebSocket connections are not tracked by http.Server
	if err := s.handlers.HTTP.CloseSessions(ctx, "server shutdown"); err != nil {
		s.logger.Warn().Err(err).Msg("sessions did not finish in time")
	}
}

// Shutdown stops a listening server, waits for Listen to return or ctx to
// be done, and closes the roster store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	wasListening := s.listening
	done := s.done
	s.closed = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if wasListening {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return s.storages.Close()
}

// Ready is closed once the server is bound and accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Conf returns a copy of the server configuration.
func (s *Server) Conf() config.ServerConf {
	return *s.conf
}

// Name returns the display name of the server.
func (s *Server) Name() string {
	return s.conf.Name
}

// Maps returns the configured maps.
func (s *Server) Maps() []config.MapConf {
	return s.conf.Maps()
}

// Addr returns the bound address, or nil before Ready.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// GRPCAddr returns the bound gRPC health address, or nil when it is
// disabled or before Ready.
func (s *Server) GRPCAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grpcAddr
}

// Uptime returns how long the server has been listening.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// Players returns every player that joined since the server was built,
// connected or not.
func (s *Server) Players() []models.Player {
	return s.services.LobbyService.Players()
}

// Presence reports whether name is connected, known or unknown.
func (s *Server) Presence(name string) models.Presence {
	return s.services.LobbyService.Presence(context.Background(), name)
}

// IsConnected reports whether name has a live session and logs which of the
// three presence states it is in.
func (s *Server) IsConnected(name string) bool {
	presence := s.Presence(name)
	s.logger.Info().Str("player", name).Str("presence", presence.String()).Msg("presence check")
	return presence == models.PresenceConnected
}

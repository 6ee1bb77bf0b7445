package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/service"
	"github.com/MKhiriev/hostile-planets/internal/utils"
	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"
)

// ServerInfo describes the running server to the REST API.
type ServerInfo interface {
	Name() string
	// Addr returns nil until the server listens.
	Addr() net.Addr
	Uptime() time.Duration
	Maps() []config.MapConf
}

type Handler struct {
	services *service.Services
	info     ServerInfo
	ids      *utils.UUIDGenerator
	upgrader websocket.Upgrader

	// sessions holds every open WebSocket, joined or not.
	sessions *xsync.MapOf[string, *wsConn]
	wg       sync.WaitGroup
	// closing holds the close reason once CloseSessions ran; sessions
	// registered afterwards are closed right away.
	closing atomic.Pointer[string]

	logger *logger.Logger
}

func NewHandler(services *service.Services, info ServerInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		info:     info,
		ids:      utils.NewUUIDGenerator(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// game clients are not browsers
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sessions: xsync.NewMapOf[string, *wsConn](),
		logger:   logger,
	}
}

// CloseSessions closes every open session, including ones that have not
// joined yet, and waits for their goroutines to finish or ctx to be done.
// Sessions upgraded after the call are closed as soon as they register.
func (h *Handler) CloseSessions(ctx context.Context, reason string) error {
	h.closing.Store(&reason)
	h.sessions.Range(func(_ string, c *wsConn) bool {
		_ = c.Close(reason)
		return true
	})

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// register tracks conn for CloseSessions and reports whether the handler is
// already closing, in which case conn has been closed.
func (h *Handler) register(conn *wsConn) bool {
	h.sessions.Store(conn.id, conn)
	if reason := h.closing.Load(); reason != nil {
		_ = conn.Close(*reason)
		return true
	}
	return false
}

// Sessions returns the number of open sessions.
func (h *Handler) Sessions() int {
	return h.sessions.Size()
}

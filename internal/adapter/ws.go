package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/models"
	"github.com/gorilla/websocket"
)

const sessionWriteWait = 10 * time.Second

type wsDialer struct {
	dialer *websocket.Dialer

	logger *logger.Logger
}

// NewSessionDialer returns a [SessionDialer] over WebSocket. The handshake
// gives up after timeout.
func NewSessionDialer(timeout time.Duration, logger *logger.Logger) SessionDialer {
	return &wsDialer{
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
			Proxy:            websocket.DefaultDialer.Proxy,
		},
		logger: logger,
	}
}

// Dial implements [SessionDialer].
func (d *wsDialer) Dial(ctx context.Context, addr string) (Session, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}

	ws, resp, err := d.dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	d.logger.Debug().Str("url", u.String()).Msg("game session opened")
	return &wsSession{ws: ws}, nil
}

type wsSession struct {
	ws *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

func (s *wsSession) Send(env models.Envelope) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.ws.SetWriteDeadline(time.Now().Add(sessionWriteWait))
	if err := s.ws.WriteJSON(env); err != nil {
		return fmt.Errorf("send %s: %w", env.Type, err)
	}
	return nil
}

func (s *wsSession) Receive() (models.Envelope, error) {
	var env models.Envelope
	if err := s.ws.ReadJSON(&env); err != nil {
		if s.closed.Load() {
			return env, ErrSessionClosed
		}
		var ce *websocket.CloseError
		if errors.As(err, &ce) {
			return env, &CloseError{Code: ce.Code, Reason: ce.Text}
		}
		return env, fmt.Errorf("receive: %w", err)
	}
	return env, nil
}

// Close sends a normal close frame and closes the socket.
func (s *wsSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(sessionWriteWait))
		err = s.ws.Close()
	})
	return err
}

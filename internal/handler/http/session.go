package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/utils"
	"github.com/MKhiriev/hostile-planets/models"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	joinWait       = 10 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// wsConn is a game session over a WebSocket. Envelopes are written by a
// single writer goroutine; Send only queues them.
type wsConn struct {
	id string
	ws *websocket.Conn

	send    chan models.Envelope
	closing chan struct{}
	done    chan struct{}

	closeOnce   sync.Once
	closeReason string

	logger *logger.Logger
}

func newWSConn(id string, ws *websocket.Conn, log *logger.Logger) *wsConn {
	return &wsConn{
		id:      id,
		ws:      ws,
		send:    make(chan models.Envelope, sendBufferSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		logger:  log,
	}
}

func (c *wsConn) ID() string {
	return c.id
}

// Send queues env for the peer. A peer that lets the queue fill up is
// disconnected.
func (c *wsConn) Send(ctx context.Context, env models.Envelope) error {
	select {
	case <-c.closing:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case c.send <- env:
		return nil
	case <-c.closing:
		return ErrSessionClosed
	default:
		_ = c.Close("too slow")
		return ErrSendBufferFull
	}
}

// Close flushes queued envelopes, sends a close frame carrying reason and
// closes the socket. Only the first call has an effect.
func (c *wsConn) Close(reason string) error {
	c.closeOnce.Do(func() {
		c.closeReason = reason
		close(c.closing)
	})
	return nil
}

func (c *wsConn) writeLoop() {
	defer close(c.done)
	defer c.ws.Close()

	for {
		select {
		case env := <-c.send:
			if err := c.write(env); err != nil {
				c.logger.Debug().Err(err).Msg("error writing to session")
				_ = c.Close("")
				return
			}
		case <-c.closing:
			c.flush()
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.closeReason)
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

func (c *wsConn) flush() {
	for {
		select {
		case env := <-c.send:
			if err := c.write(env); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *wsConn) write(env models.Envelope) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(env)
}

// serveSession upgrades the request and runs the game protocol: welcome,
// join, then ping/players/move until the peer goes away.
func (h *Handler) serveSession(w http.ResponseWriter, r *http.Request) {
	h.wg.Add(1)
	defer h.wg.Done()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		logger.FromRequest(r).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := h.ids.Generate()
	log := logger.FromRequest(r).GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("session", id)
	})
	ctx := utils.WithSessionID(log.WithContext(r.Context()), id)

	conn := newWSConn(id, ws, log)
	closing := h.register(conn)
	defer h.sessions.Delete(id)

	go conn.writeLoop()

	var name string
	if !closing {
		name = h.runSession(ctx, conn)
	}

	_ = conn.Close("")
	<-conn.done

	if name != "" {
		h.services.LobbyService.Leave(ctx, name, id)
	}
	log.Debug().Str("player", name).Msg("session ended")
}

// runSession reads messages until the peer disconnects or the session is
// closed. It returns the joined player name, if any.
func (h *Handler) runSession(ctx context.Context, conn *wsConn) string {
	lobby := h.services.LobbyService
	log := logger.FromContext(ctx)

	welcome, err := models.NewEnvelope(models.MessageWelcome, lobby.Welcome())
	if err != nil {
		log.Err(err).Msg("error building welcome")
		return ""
	}
	if err = conn.Send(ctx, welcome); err != nil {
		return ""
	}

	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(joinWait))

	var name string
	for {
		var env models.Envelope
		if err = conn.ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("session read error")
			}
			return name
		}

		if name == "" {
			joined, closeSession := h.handlePreJoin(ctx, conn, env)
			if closeSession {
				return ""
			}
			if joined != "" {
				name = joined
				_ = conn.ws.SetReadDeadline(time.Time{})
				lobby.BroadcastPlayers(ctx)
			}
			continue
		}

		lobby.Heartbeat(ctx, name, conn.id)
		h.handleJoined(ctx, conn, name, env)
	}
}

// handlePreJoin processes a message of a session that has not joined. It
// returns the player name once join succeeds and whether the session must
// be closed.
func (h *Handler) handlePreJoin(ctx context.Context, conn *wsConn, env models.Envelope) (string, bool) {
	switch env.Type {
	case models.MessagePing:
		h.sendPong(ctx, conn)
		return "", false
	case models.MessageJoin:
	default:
		_ = conn.Send(ctx, models.ErrorEnvelope(models.ErrorNotJoined))
		return "", false
	}

	var req models.Join
	if err := env.Decode(&req); err != nil {
		_ = conn.Send(ctx, models.ErrorEnvelope(models.ErrorBadPayload))
		return "", false
	}

	joined, err := h.services.LobbyService.Join(ctx, conn, req)
	if err != nil {
		msg := protocolError(err)
		logger.FromContext(ctx).Info().Err(err).Str("player", req.Name).Msg("join rejected")
		_ = conn.Send(ctx, models.ErrorEnvelope(msg))
		_ = conn.Close(msg)
		return "", true
	}

	reply, err := models.NewEnvelope(models.MessageJoined, joined)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("error building joined")
	} else {
		_ = conn.Send(ctx, reply)
	}
	return joined.Player.Name, false
}

func (h *Handler) handleJoined(ctx context.Context, conn *wsConn, name string, env models.Envelope) {
	lobby := h.services.LobbyService
	log := logger.FromContext(ctx)

	switch env.Type {
	case models.MessagePing:
		h.sendPong(ctx, conn)

	case models.MessagePlayers:
		reply, err := models.NewEnvelope(models.MessagePlayers, lobby.Players())
		if err != nil {
			log.Err(err).Msg("error building players")
			return
		}
		_ = conn.Send(ctx, reply)

	case models.MessageMove:
		var move models.Move
		if err := env.Decode(&move); err != nil || !move.Valid() {
			_ = conn.Send(ctx, models.ErrorEnvelope(models.ErrorBadPayload))
			return
		}
		unit, err := lobby.Move(ctx, name, move)
		if err != nil {
			_ = conn.Send(ctx, models.ErrorEnvelope(protocolError(err)))
			return
		}
		reply, err := models.NewEnvelope(models.MessageMoved, models.Moved{Unit: unit})
		if err != nil {
			log.Err(err).Msg("error building moved")
			return
		}
		_ = conn.Send(ctx, reply)

	default:
		_ = conn.Send(ctx, models.ErrorEnvelope(models.ErrorUnknownMessage))
	}
}

func (h *Handler) sendPong(ctx context.Context, conn *wsConn) {
	reply, err := models.NewEnvelope(models.MessagePong, models.Pong{TS: time.Now().UnixMilli()})
	if err != nil {
		return
	}
	_ = conn.Send(ctx, reply)
}

package http

import (
	"context"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/hostile-planets/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialSession(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { ws.Close() })

	welcome := readEnvelope(t, ws)
	require.Equal(t, models.MessageWelcome, welcome.Type)
	return ws
}

func readEnvelope(t *testing.T, ws *websocket.Conn) models.Envelope {
	t.Helper()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env models.Envelope
	require.NoError(t, ws.ReadJSON(&env))
	return env
}

// readUntil skips envelopes until one of type mt arrives.
func readUntil(t *testing.T, ws *websocket.Conn, mt models.MessageType) models.Envelope {
	t.Helper()

	for {
		env := readEnvelope(t, ws)
		if env.Type == mt {
			return env
		}
	}
}

func send(t *testing.T, ws *websocket.Conn, mt models.MessageType, data any) {
	t.Helper()

	env, err := models.NewEnvelope(mt, data)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(env))
}

func join(t *testing.T, ws *websocket.Conn, name, token string) models.Joined {
	t.Helper()

	send(t, ws, models.MessageJoin, models.Join{Name: name, Token: token})
	env := readEnvelope(t, ws)
	require.Equal(t, models.MessageJoined, env.Type, "error: %s", env.Error)

	var joined models.Joined
	require.NoError(t, env.Decode(&joined))
	return joined
}

// expectClosed reads until the server closes the socket and returns the
// close frame text.
func expectClosed(t *testing.T, ws *websocket.Conn) string {
	t.Helper()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var env models.Envelope
		err := ws.ReadJSON(&env)
		if err == nil {
			continue
		}
		var closeErr *websocket.CloseError
		if assert.ErrorAs(t, err, &closeErr) {
			return closeErr.Text
		}
		return ""
	}
}

func TestSession_Welcome(t *testing.T) {
	_, srv := newTestServer(t, stubInfo{})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	env := readEnvelope(t, ws)
	require.Equal(t, models.MessageWelcome, env.Type)

	var welcome models.Welcome
	require.NoError(t, env.Decode(&welcome))
	assert.Equal(t, "test server", welcome.Server)
	assert.Equal(t, models.MOTD, welcome.MOTD)
}

func TestSession_Join(t *testing.T) {
	h, srv := newTestServer(t, stubInfo{})
	ws := dialSession(t, srv)

	joined := join(t, ws, "Henry", "")

	assert.Equal(t, "Henry", joined.Player.Name)
	assert.True(t, joined.Player.Connected)
	assert.NotEmpty(t, joined.Token)
	scout, ok := joined.Player.Scout()
	require.True(t, ok)
	assert.Equal(t, models.Position{X: models.ScoutStartX, Y: models.ScoutStartY}, scout.Position)

	// the joining session is included in the broadcast
	env := readUntil(t, ws, models.MessagePlayers)
	var players []models.Player
	require.NoError(t, env.Decode(&players))
	require.Len(t, players, 1)
	assert.Equal(t, "Henry", players[0].Name)

	assert.Equal(t, 1, h.services.LobbyService.Online())
	assert.Equal(t, 1, h.Sessions())
}

func TestSession_JoinEmptyName(t *testing.T) {
	h, srv := newTestServer(t, stubInfo{})
	ws := dialSession(t, srv)

	send(t, ws, models.MessageJoin, models.Join{Name: "   "})

	env := readEnvelope(t, ws)
	assert.Equal(t, models.MessageError, env.Type)
	assert.Equal(t, models.ErrorInvalidName, env.Error)
	assert.Equal(t, models.ErrorInvalidName, expectClosed(t, ws))
	assert.Empty(t, h.services.LobbyService.Players())
}

func TestSession_DuplicateNameRejected(t *testing.T) {
	h, srv := newTestServer(t, stubInfo{})
	first := dialSession(t, srv)
	join(t, first, "Henry", "")

	second := dialSession(t, srv)
	send(t, second, models.MessageJoin, models.Join{Name: "Henry"})

	env := readEnvelope(t, second)
	assert.Equal(t, models.MessageError, env.Type)
	assert.Equal(t, models.ErrorNameInUse, env.Error)
	expectClosed(t, second)

	// first session is unaffected
	send(t, first, models.MessagePing, nil)
	assert.Equal(t, models.MessagePong, readUntil(t, first, models.MessagePong).Type)
	assert.Equal(t, models.PresenceConnected, h.services.LobbyService.Presence(t.Context(), "Henry"))
}

func TestSession_TakeoverWithToken(t *testing.T) {
	h, srv := newTestServer(t, stubInfo{})
	first := dialSession(t, srv)
	joined := join(t, first, "Henry", "")

	second := dialSession(t, srv)
	again := join(t, second, "Henry", joined.Token)

	assert.Equal(t, "Henry", again.Player.Name)
	assert.Equal(t, "session taken over", expectClosed(t, first))

	// the old session ending must not disconnect the new one
	require.Eventually(t, func() bool { return h.Sessions() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, models.PresenceConnected, h.services.LobbyService.Presence(t.Context(), "Henry"))
}

func TestSession_TokenOfAnotherPlayerIsIgnored(t *testing.T) {
	_, srv := newTestServer(t, stubInfo{})
	first := dialSession(t, srv)
	join(t, first, "Henry", "")
	other := dialSession(t, srv)
	otherJoined := join(t, other, "Alice", "")

	third := dialSession(t, srv)
	send(t, third, models.MessageJoin, models.Join{Name: "Henry", Token: otherJoined.Token})

	env := readEnvelope(t, third)
	assert.Equal(t, models.ErrorNameInUse, env.Error)
}

func TestSession_PingMovePlayers(t *testing.T) {
	_, srv := newTestServer(t, stubInfo{})
	ws := dialSession(t, srv)
	join(t, ws, "Henry", "")

	send(t, ws, models.MessagePing, nil)
	pong := readUntil(t, ws, models.MessagePong)
	var p models.Pong
	require.NoError(t, pong.Decode(&p))
	assert.Positive(t, p.TS)

	send(t, ws, models.MessageMove, models.Move{DX: 5, DY: -100})
	env := readUntil(t, ws, models.MessageMoved)
	var moved models.Moved
	require.NoError(t, env.Decode(&moved))
	assert.Equal(t, models.Position{X: models.ScoutStartX + 5, Y: 0}, moved.Unit.Position)

	send(t, ws, models.MessagePlayers, nil)
	env = readUntil(t, ws, models.MessagePlayers)
	var players []models.Player
	require.NoError(t, env.Decode(&players))
	require.Len(t, players, 1)
	scout, ok := players[0].Scout()
	require.True(t, ok)
	assert.Equal(t, moved.Unit.Position, scout.Position)
}

func TestSession_MoveOutOfRange(t *testing.T) {
	_, srv := newTestServer(t, stubInfo{})
	ws := dialSession(t, srv)
	join(t, ws, "Henry", "")

	for _, move := range []models.Move{
		{DX: models.MaxMoveStep + 1},
		{DY: -models.MaxMoveStep - 1},
		{DX: math.MaxInt - 50},
	} {
		send(t, ws, models.MessageMove, move)
		env := readUntil(t, ws, models.MessageError)
		assert.Equal(t, models.ErrorBadPayload, env.Error, "move %+v", move)
	}

	// the scout did not move and a bounded step still works
	send(t, ws, models.MessageMove, models.Move{DX: models.MaxMoveStep})
	env := readUntil(t, ws, models.MessageMoved)
	var moved models.Moved
	require.NoError(t, env.Decode(&moved))
	assert.Equal(t, models.Position{X: models.ScoutStartX + models.MaxMoveStep, Y: models.ScoutStartY}, moved.Unit.Position)
}

func TestSession_MessagesBeforeJoin(t *testing.T) {
	_, srv := newTestServer(t, stubInfo{})
	ws := dialSession(t, srv)

	send(t, ws, models.MessagePing, nil)
	assert.Equal(t, models.MessagePong, readEnvelope(t, ws).Type)

	send(t, ws, models.MessageMove, models.Move{DX: 1})
	env := readEnvelope(t, ws)
	assert.Equal(t, models.MessageError, env.Type)
	assert.Equal(t, models.ErrorNotJoined, env.Error)

	send(t, ws, models.MessageJoin, nil)
	assert.Equal(t, models.ErrorBadPayload, readEnvelope(t, ws).Error)

	// the session survives and can still join
	join(t, ws, "Henry", "")
}

func TestSession_UnknownMessage(t *testing.T) {
	_, srv := newTestServer(t, stubInfo{})
	ws := dialSession(t, srv)
	join(t, ws, "Henry", "")

	send(t, ws, models.MessageType("dance"), nil)
	env := readUntil(t, ws, models.MessageError)
	assert.Equal(t, models.ErrorUnknownMessage, env.Error)
}

func TestSession_DisconnectKeepsPlayer(t *testing.T) {
	h, srv := newTestServer(t, stubInfo{})
	watcher := dialSession(t, srv)
	join(t, watcher, "Alice", "")

	ws := dialSession(t, srv)
	join(t, ws, "Henry", "")
	require.NoError(t, ws.Close())

	lobby := h.services.LobbyService
	require.Eventually(t, func() bool {
		return lobby.Presence(t.Context(), "Henry") == models.PresenceKnownOffline
	}, 5*time.Second, 10*time.Millisecond)

	players := lobby.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "Henry", players[1].Name)
	assert.False(t, players[1].Connected)
	assert.Equal(t, 1, lobby.Online())

	// remaining sessions hear about the leave
	for {
		env := readUntil(t, watcher, models.MessagePlayers)
		var list []models.Player
		require.NoError(t, env.Decode(&list))
		if len(list) == 2 && !list[1].Connected {
			break
		}
	}
}

func TestGetPlayer_KnownAndConnected(t *testing.T) {
	_, srv := newTestServer(t, stubInfo{})
	ws := dialSession(t, srv)
	join(t, ws, "Henry", "")

	var got PlayerPresence
	require.Equal(t, 200, getJSON(t, srv.URL+"/api/players/Henry", &got))
	assert.Equal(t, "Henry", got.Name)
	assert.Equal(t, models.PresenceConnected.String(), got.Presence)
	require.NotNil(t, got.Player)
	assert.True(t, got.Player.Connected)
}

func TestCloseSessions(t *testing.T) {
	h, srv := newTestServer(t, stubInfo{})
	joined := dialSession(t, srv)
	join(t, joined, "Henry", "")
	pending := dialSession(t, srv)

	require.NoError(t, h.CloseSessions(t.Context(), "server shutdown"))

	assert.Equal(t, "server shutdown", expectClosed(t, joined))
	assert.Equal(t, "server shutdown", expectClosed(t, pending))
	assert.Equal(t, 0, h.Sessions())
}

func TestCloseSessions_LateSessionIsClosed(t *testing.T) {
	h, srv := newTestServer(t, stubInfo{})
	require.NoError(t, h.CloseSessions(t.Context(), "server shutdown"))

	// a session upgraded after the sweep never reaches the protocol
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer ws.Close()

	assert.Equal(t, "server shutdown", expectClosed(t, ws))
	require.Eventually(t, func() bool { return h.Sessions() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, h.services.LobbyService.Online())
}

func TestCloseSessions_WaitIsBounded(t *testing.T) {
	h, _ := newTestServer(t, stubInfo{})

	// a session goroutine that has not registered yet
	h.wg.Add(1)
	defer h.wg.Done()

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := h.CloseSessions(ctx, "server shutdown")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

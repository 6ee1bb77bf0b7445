package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/game"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/mock"
	"github.com/MKhiriev/hostile-planets/internal/store"
	"github.com/MKhiriev/hostile-planets/internal/utils"
	"github.com/MKhiriev/hostile-planets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSignKey = "lobby-test-key"

type recordingConn struct {
	id string

	mu     sync.Mutex
	sent   []models.Envelope
	closed []string
}

func (c *recordingConn) ID() string { return c.id }

func (c *recordingConn) Send(_ context.Context, env models.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, env)
	return nil
}

func (c *recordingConn) Close(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = append(c.closed, reason)
	return nil
}

func (c *recordingConn) envelopes() []models.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Envelope(nil), c.sent...)
}

func (c *recordingConn) closeReasons() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.closed...)
}

func newTestLobby(players store.PlayerRepository) *lobbyService {
	return NewLobbyService(LobbyConfig{
		ServerName:    "test server",
		TokenSignKey:  testSignKey,
		TokenDuration: time.Hour,
	}, game.NewRoster(), players, logger.Nop()).(*lobbyService)
}

func TestLobby_Welcome(t *testing.T) {
	lobby := newTestLobby(nil)

	assert.Equal(t, models.Welcome{Server: "test server", MOTD: models.MOTD}, lobby.Welcome())
}

func TestLobby_Join(t *testing.T) {
	lobby := newTestLobby(nil)

	joined, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "  Henry "})
	require.NoError(t, err)

	assert.Equal(t, "Henry", joined.Player.Name)
	assert.True(t, joined.Player.Connected)

	token, err := utils.ValidateAndParseSessionToken(joined.Token, testSignKey, "test server")
	require.NoError(t, err)
	assert.Equal(t, "Henry", token.Player)

	assert.Equal(t, models.PresenceConnected, lobby.Presence(t.Context(), "Henry"))
	assert.Equal(t, 1, lobby.Online())
}

func TestLobby_JoinInvalidName(t *testing.T) {
	lobby := newTestLobby(nil)

	_, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: " "})
	assert.ErrorIs(t, err, game.ErrInvalidName)
	assert.Empty(t, lobby.Players())
}

func TestLobby_JoinNameInUse(t *testing.T) {
	lobby := newTestLobby(nil)
	_, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token"},
		{name: "garbage token", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lobby.Join(t.Context(), &recordingConn{id: "c2"}, models.Join{Name: "Henry", Token: tt.token})
			assert.ErrorIs(t, err, game.ErrNameInUse)
		})
	}
}

func TestLobby_JoinTokenOfAnotherPlayer(t *testing.T) {
	lobby := newTestLobby(nil)
	_, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)
	alice, err := lobby.Join(t.Context(), &recordingConn{id: "c2"}, models.Join{Name: "Alice"})
	require.NoError(t, err)

	_, err = lobby.Join(t.Context(), &recordingConn{id: "c3"}, models.Join{Name: "Henry", Token: alice.Token})
	assert.ErrorIs(t, err, game.ErrNameInUse)
}

func TestLobby_JoinTakeover(t *testing.T) {
	lobby := newTestLobby(nil)
	old := &recordingConn{id: "c1"}
	first, err := lobby.Join(t.Context(), old, models.Join{Name: "Henry"})
	require.NoError(t, err)
	_, err = lobby.Move(t.Context(), "Henry", models.Move{DX: 1, DY: 2})
	require.NoError(t, err)

	second, err := lobby.Join(t.Context(), &recordingConn{id: "c2"}, models.Join{Name: "Henry", Token: first.Token})
	require.NoError(t, err)

	assert.Equal(t, []string{"session taken over"}, old.closeReasons())
	scout, ok := second.Player.Scout()
	require.True(t, ok)
	assert.Equal(t, models.Position{X: 51, Y: 52}, scout.Position, "takeover keeps the scout")

	// the replaced session leaving does not disconnect the player
	lobby.Leave(t.Context(), "Henry", "c1")
	assert.Equal(t, models.PresenceConnected, lobby.Presence(t.Context(), "Henry"))
}

func TestLobby_JoinKnownPlayer(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockPlayerRepository(ctrl)
	lobby := newTestLobby(repo)

	firstSeen := time.UnixMilli(1_700_000_000_000)
	stored := models.Player{
		Name:      "Henry",
		FirstSeen: firstSeen,
		LastSeen:  firstSeen.Add(time.Hour),
		Units: []models.Unit{
			{Name: "scout-7", Type: models.UnitTypeScout, Position: models.Position{X: 3, Y: 4}},
		},
	}

	repo.EXPECT().Find(gomock.Any(), "Henry").Return(stored, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p models.Player) error {
		assert.Equal(t, "Henry", p.Name)
		assert.True(t, p.FirstSeen.Equal(firstSeen))
		return nil
	})

	joined, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)

	scout, ok := joined.Player.Scout()
	require.True(t, ok)
	assert.Equal(t, "scout-7", scout.Name)
	assert.Equal(t, models.Position{X: 3, Y: 4}, scout.Position)
}

func TestLobby_JoinStoreFailuresDoNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockPlayerRepository(ctrl)
	lobby := newTestLobby(repo)

	repo.EXPECT().Find(gomock.Any(), "Henry").Return(models.Player{}, store.ErrExecutingQuery)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(store.ErrPlayerNotSaved)

	joined, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)
	assert.Equal(t, "Henry", joined.Player.Name)
}

func TestLobby_LeaveSavesAndBroadcasts(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockPlayerRepository(ctrl)
	lobby := newTestLobby(repo)

	repo.EXPECT().Find(gomock.Any(), gomock.Any()).Return(models.Player{}, store.ErrPlayerNotFound).Times(2)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	watcher := &recordingConn{id: "w"}
	_, err := lobby.Join(t.Context(), watcher, models.Join{Name: "Alice"})
	require.NoError(t, err)
	_, err = lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p models.Player) error {
		assert.Equal(t, "Henry", p.Name)
		assert.False(t, p.Connected)
		return nil
	})
	lobby.Leave(t.Context(), "Henry", "c1")

	sent := watcher.envelopes()
	require.NotEmpty(t, sent)
	last := sent[len(sent)-1]
	assert.Equal(t, models.MessagePlayers, last.Type)

	var players []models.Player
	require.NoError(t, last.Decode(&players))
	require.Len(t, players, 2)
	assert.False(t, players[1].Connected)

	// a second leave of the same session is a no-op
	lobby.Leave(t.Context(), "Henry", "c1")
}

func TestLobby_Presence(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockPlayerRepository(ctrl)
	lobby := newTestLobby(repo)

	repo.EXPECT().Find(gomock.Any(), "Ghost").Return(models.Player{Name: "Ghost"}, nil)
	repo.EXPECT().Find(gomock.Any(), "Nobody").Return(models.Player{}, store.ErrPlayerNotFound)

	assert.Equal(t, models.PresenceKnownOffline, lobby.Presence(t.Context(), "Ghost"))
	assert.Equal(t, models.PresenceUnknown, lobby.Presence(t.Context(), "Nobody"))
}

func TestLobby_PresenceWithoutStore(t *testing.T) {
	lobby := newTestLobby(nil)

	assert.Equal(t, models.PresenceUnknown, lobby.Presence(t.Context(), "Henry"))
}

func TestLobby_Move(t *testing.T) {
	lobby := newTestLobby(nil)

	_, err := lobby.Move(t.Context(), "Henry", models.Move{DX: 1})
	assert.ErrorIs(t, err, game.ErrPlayerNotFound)

	_, err = lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)

	unit, err := lobby.Move(t.Context(), "Henry", models.Move{DX: -60, DY: 10})
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 0, Y: 60}, unit.Position)

	lobby.Leave(t.Context(), "Henry", "c1")
	_, err = lobby.Move(t.Context(), "Henry", models.Move{DX: 1})
	assert.ErrorIs(t, err, game.ErrNotJoined)
}

func TestLobby_MoveFromReplacedSession(t *testing.T) {
	lobby := newTestLobby(nil)

	first, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)
	_, err = lobby.Join(t.Context(), &recordingConn{id: "c2"}, models.Join{Name: "Henry", Token: first.Token})
	require.NoError(t, err)

	_, err = lobby.Move(utils.WithSessionID(t.Context(), "c1"), "Henry", models.Move{DX: 1})
	assert.ErrorIs(t, err, game.ErrNotJoined)

	unit, err := lobby.Move(utils.WithSessionID(t.Context(), "c2"), "Henry", models.Move{DX: 1})
	require.NoError(t, err)
	assert.Equal(t, models.ScoutStartX+1, unit.Position.X)
}

func TestLobby_ReapStale(t *testing.T) {
	lobby := newTestLobby(nil)
	conn := &recordingConn{id: "c1"}
	_, err := lobby.Join(t.Context(), conn, models.Join{Name: "Henry"})
	require.NoError(t, err)

	assert.Zero(t, lobby.ReapStale(t.Context(), time.Minute))
	assert.Empty(t, conn.closeReasons())

	lobby.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 1, lobby.ReapStale(t.Context(), time.Minute))
	assert.Equal(t, []string{"heartbeat timeout"}, conn.closeReasons())
}

func TestLobby_FlushPositions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockPlayerRepository(ctrl)
	lobby := newTestLobby(repo)

	repo.EXPECT().Find(gomock.Any(), gomock.Any()).Return(models.Player{}, store.ErrPlayerNotFound).AnyTimes()
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	_, err := lobby.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)
	_, err = lobby.Join(t.Context(), &recordingConn{id: "c2"}, models.Join{Name: "Alice"})
	require.NoError(t, err)
	lobby.Leave(t.Context(), "Alice", "c2")

	repo.EXPECT().Touch(gomock.Any(), "Henry", gomock.Any()).Return(nil)
	repo.EXPECT().SavePosition(gomock.Any(), "Henry", gomock.Any()).Return(nil)
	require.NoError(t, lobby.FlushPositions(t.Context()))

	repo.EXPECT().Touch(gomock.Any(), "Henry", gomock.Any()).Return(nil)
	repo.EXPECT().SavePosition(gomock.Any(), "Henry", gomock.Any()).Return(store.ErrScanningRow)
	err = lobby.FlushPositions(t.Context())
	assert.ErrorIs(t, err, store.ErrScanningRow)
	assert.Contains(t, err.Error(), `player "Henry"`)

	// a player missing from the store is not moved
	repo.EXPECT().Touch(gomock.Any(), "Henry", gomock.Any()).Return(store.ErrPlayerNotFound)
	assert.ErrorIs(t, lobby.FlushPositions(t.Context()), store.ErrPlayerNotFound)
}

func TestLobby_FlushPositionsWithoutStore(t *testing.T) {
	assert.NoError(t, newTestLobby(nil).FlushPositions(t.Context()))
}

func TestLobby_CloseAll(t *testing.T) {
	lobby := newTestLobby(nil)
	c1, c2 := &recordingConn{id: "c1"}, &recordingConn{id: "c2"}
	_, err := lobby.Join(t.Context(), c1, models.Join{Name: "Henry"})
	require.NoError(t, err)
	_, err = lobby.Join(t.Context(), c2, models.Join{Name: "Alice"})
	require.NoError(t, err)

	lobby.CloseAll("server shutdown")

	assert.Equal(t, []string{"server shutdown"}, c1.closeReasons())
	assert.Equal(t, []string{"server shutdown"}, c2.closeReasons())
}

func TestLobby_BroadcastPlayers(t *testing.T) {
	lobby := newTestLobby(nil)
	conn := &recordingConn{id: "c1"}
	_, err := lobby.Join(t.Context(), conn, models.Join{Name: "Henry"})
	require.NoError(t, err)

	lobby.BroadcastPlayers(t.Context())

	sent := conn.envelopes()
	require.Len(t, sent, 1, "join itself does not broadcast")
	assert.Equal(t, models.MessagePlayers, sent[0].Type)
}

func TestNewServices(t *testing.T) {
	cfg := &config.ServerConf{Name: "test server"}

	services, err := NewServices(nil, cfg, models.NewAppBuildInfo("1.0.0", "", ""), logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, services.LobbyService)
	assert.Equal(t, "1.0.0", services.AppInfoService.GetAppVersion(t.Context()))

	// a random key is generated, so the lobby still issues tokens
	joined, err := services.LobbyService.Join(t.Context(), &recordingConn{id: "c1"}, models.Join{Name: "Henry"})
	require.NoError(t, err)
	assert.NotEmpty(t, joined.Token)
}

func TestNewServices_NoVersion(t *testing.T) {
	_, err := NewServices(nil, &config.ServerConf{}, models.AppBuildInfo{}, logger.Nop())
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}

package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/hostile-planets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id string
}

func (c *fakeConn) ID() string                                  { return c.id }
func (c *fakeConn) Send(context.Context, models.Envelope) error { return nil }
func (c *fakeConn) Close(string) error                          { return nil }

func newTestRoster(now *time.Time) *Roster {
	r := NewRoster()
	r.now = func() time.Time { return *now }
	return r
}

func TestRoster_Empty(t *testing.T) {
	r := NewRoster()

	assert.Empty(t, r.Players())
	assert.Equal(t, models.PresenceUnknown, r.Presence("Henry"))
	assert.Zero(t, r.Len())
	assert.Zero(t, r.Online())
}

func TestRoster_JoinAndLeave(t *testing.T) {
	now := time.Unix(1000, 0)
	r := newTestRoster(&now)
	c := &fakeConn{id: "c1"}

	res, err := r.Join("Henry", c, false, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Replaced)
	assert.Equal(t, "Henry", res.Player.Name)
	assert.True(t, res.Player.Connected)
	assert.Equal(t, now, res.Player.FirstSeen)

	scout, ok := res.Player.Scout()
	require.True(t, ok)
	assert.Equal(t, models.Position{X: 50, Y: 50}, scout.Position)

	assert.Equal(t, models.PresenceConnected, r.Presence("Henry"))
	assert.Equal(t, 1, r.Online())

	now = now.Add(time.Minute)
	assert.True(t, r.Leave("Henry", "c1"))
	assert.False(t, r.Leave("Henry", "c1"))

	assert.Equal(t, models.PresenceKnownOffline, r.Presence("Henry"))
	players := r.Players()
	require.Len(t, players, 1)
	assert.False(t, players[0].Connected)
	assert.Equal(t, now, players[0].LastSeen)
	assert.Zero(t, r.Online())
}

func TestRoster_JoinInvalidName(t *testing.T) {
	r := NewRoster()

	for _, name := range []string{"", "   "} {
		_, err := r.Join(name, &fakeConn{id: "c"}, false, nil)
		assert.ErrorIs(t, err, ErrInvalidName)
	}
	assert.Empty(t, r.Players())
}

func TestRoster_DuplicateName(t *testing.T) {
	r := NewRoster()
	first := &fakeConn{id: "c1"}
	second := &fakeConn{id: "c2"}

	_, err := r.Join("Henry", first, false, nil)
	require.NoError(t, err)

	_, err = r.Join("Henry", second, false, nil)
	assert.ErrorIs(t, err, ErrNameInUse)

	conn, ok := r.Conn("Henry")
	require.True(t, ok)
	assert.Equal(t, "c1", conn.ID())
}

func TestRoster_Takeover(t *testing.T) {
	r := NewRoster()
	first := &fakeConn{id: "c1"}
	second := &fakeConn{id: "c2"}

	_, err := r.Join("Henry", first, false, nil)
	require.NoError(t, err)
	_, err = r.Move("Henry", "c1", 3, 0)
	require.NoError(t, err)

	res, err := r.Join("Henry", second, true, nil)
	require.NoError(t, err)
	assert.Same(t, first, res.Replaced)

	scout, _ := res.Player.Scout()
	assert.Equal(t, 53, scout.Position.X, "takeover keeps units")

	// the replaced session closing must not disconnect its successor
	assert.False(t, r.Leave("Henry", "c1"))
	assert.Equal(t, models.PresenceConnected, r.Presence("Henry"))
}

func TestRoster_RejoinAfterLeaveKeepsState(t *testing.T) {
	now := time.Unix(1000, 0)
	r := newTestRoster(&now)

	first, err := r.Join("Henry", &fakeConn{id: "c1"}, false, nil)
	require.NoError(t, err)
	_, err = r.Move("Henry", "c1", -10, 5)
	require.NoError(t, err)
	r.Leave("Henry", "c1")

	now = now.Add(time.Hour)
	res, err := r.Join("Henry", &fakeConn{id: "c2"}, false, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Replaced)
	assert.Equal(t, first.Player.FirstSeen, res.Player.FirstSeen)

	scout, _ := res.Player.Scout()
	assert.Equal(t, models.Position{X: 40, Y: 55}, scout.Position)
}

func TestRoster_JoinKnownPlayer(t *testing.T) {
	r := NewRoster()
	seen := time.Unix(500, 0)
	known := &models.Player{
		Name:      "Ada",
		FirstSeen: seen,
		Units: []models.Unit{{
			Name: "scout-9", Type: models.UnitTypeScout, Position: models.Position{X: 1, Y: 2},
		}},
	}

	res, err := r.Join("Ada", &fakeConn{id: "c1"}, false, known)
	require.NoError(t, err)
	assert.Equal(t, seen, res.Player.FirstSeen)

	scout, ok := res.Player.Scout()
	require.True(t, ok)
	assert.Equal(t, models.Position{X: 1, Y: 2}, scout.Position)

	_, err = r.Move("Ada", "", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, known.Units[0].Position.X, "seed must not be mutated")
}

func TestRoster_Move(t *testing.T) {
	r := NewRoster()

	_, err := r.Move("ghost", "", 1, 1)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, ok := r.Player("ghost")
	assert.False(t, ok)

	_, err = r.Join("Henry", &fakeConn{id: "c1"}, false, nil)
	require.NoError(t, err)

	u, err := r.Move("Henry", "", -100, 10)
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 0, Y: 60}, u.Position)

	r.Leave("Henry", "c1")
	_, err = r.Move("Henry", "", 1, 1)
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestRoster_MoveChecksSession(t *testing.T) {
	r := NewRoster()
	_, err := r.Join("Henry", &fakeConn{id: "c1"}, false, nil)
	require.NoError(t, err)
	_, err = r.Join("Henry", &fakeConn{id: "c2"}, true, nil)
	require.NoError(t, err)

	_, err = r.Move("Henry", "c1", 5, 5)
	assert.ErrorIs(t, err, ErrNotJoined)

	p, _ := r.Player("Henry")
	scout, _ := p.Scout()
	assert.Equal(t, models.Position{X: 50, Y: 50}, scout.Position, "replaced session must not move the scout")

	u, err := r.Move("Henry", "c2", 5, 5)
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 55, Y: 55}, u.Position)
}

func TestRoster_MoveRacesTakeover(t *testing.T) {
	r := NewRoster()
	_, err := r.Join("Henry", &fakeConn{id: "c1"}, false, nil)
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		moved int
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 100 {
			if _, err := r.Move("Henry", "c1", 1, 0); err == nil {
				moved++
			}
		}
	}()
	go func() {
		defer wg.Done()
		_, err := r.Join("Henry", &fakeConn{id: "c2"}, true, nil)
		assert.NoError(t, err)
	}()
	wg.Wait()

	// every accepted move happened while c1 was still bound
	p, _ := r.Player("Henry")
	scout, _ := p.Scout()
	assert.Equal(t, models.ScoutStartX+moved, scout.Position.X)

	_, err = r.Move("Henry", "c1", 1, 0)
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestRoster_PlayersSortedCopies(t *testing.T) {
	r := NewRoster()
	for i, name := range []string{"zed", "Ada", "mia"} {
		_, err := r.Join(name, &fakeConn{id: fmt.Sprint(i)}, false, nil)
		require.NoError(t, err)
	}

	players := r.Players()
	require.Len(t, players, 3)
	assert.Equal(t, []string{"Ada", "mia", "zed"}, []string{players[0].Name, players[1].Name, players[2].Name})

	players[0].Units[0].Position.X = 999
	p, _ := r.Player("Ada")
	assert.Equal(t, 50, p.Units[0].Position.X)
}

func TestRoster_StaleAndTouch(t *testing.T) {
	now := time.Unix(1000, 0)
	r := newTestRoster(&now)

	_, err := r.Join("a", &fakeConn{id: "ca"}, false, nil)
	require.NoError(t, err)
	_, err = r.Join("b", &fakeConn{id: "cb"}, false, nil)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	r.Touch("b", "cb")
	r.Touch("a", "wrong-session")

	stale := r.Stale(now.Add(-time.Second))
	require.Len(t, stale, 1)
	assert.Equal(t, "ca", stale[0].ID())
	assert.Len(t, r.Conns(), 2)
}

func TestRoster_ConcurrentJoinSingleWinner(t *testing.T) {
	r := NewRoster()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Join("Henry", &fakeConn{id: fmt.Sprint(i)}, false, nil); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, r.Online())
}

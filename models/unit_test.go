package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScout(t *testing.T) {
	u := NewScout(1)

	assert.Equal(t, "scout-1", u.Name)
	assert.Equal(t, UnitTypeScout, u.Type)
	assert.Equal(t, Position{X: 50, Y: 50}, u.Position)
}

func TestUnit_Moved(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
		want   Position
	}{
		{name: "forward", dx: 5, dy: 7, want: Position{X: 55, Y: 57}},
		{name: "back", dx: -10, dy: -20, want: Position{X: 40, Y: 30}},
		{name: "clamp x", dx: -51, dy: 0, want: Position{X: 0, Y: 50}},
		{name: "clamp both", dx: -1000, dy: -1000, want: Position{X: 0, Y: 0}},
		{name: "saturate at max", dx: math.MaxInt, dy: MaxCoordinate, want: Position{X: MaxCoordinate, Y: MaxCoordinate}},
		{name: "min int delta", dx: math.MinInt, dy: math.MinInt + 1, want: Position{X: 0, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := NewScout(1)
			moved := start.Moved(tt.dx, tt.dy)

			assert.Equal(t, tt.want, moved.Position)
			assert.Equal(t, Position{X: 50, Y: 50}, start.Position, "receiver must not change")
		})
	}
}

func TestUnit_MovedPastMaxStaysAtMax(t *testing.T) {
	u := NewScout(1).Moved(math.MaxInt-50, 0)
	require.Equal(t, MaxCoordinate, u.Position.X)

	u = u.Moved(1, 0)
	assert.Equal(t, MaxCoordinate, u.Position.X, "a positive move must not wrap to the origin")

	u = u.Moved(-1, 0)
	assert.Equal(t, MaxCoordinate-1, u.Position.X)
}

func TestUnit_MovedFromOutOfRangePosition(t *testing.T) {
	u := Unit{Position: Position{X: math.MaxInt, Y: -5}}

	moved := u.Moved(1, 1)
	assert.Equal(t, Position{X: MaxCoordinate, Y: 1}, moved.Position)
}

func TestMove_Valid(t *testing.T) {
	tests := []struct {
		name string
		move Move
		want bool
	}{
		{name: "zero", move: Move{}, want: true},
		{name: "at bound", move: Move{DX: MaxMoveStep, DY: -MaxMoveStep}, want: true},
		{name: "dx too large", move: Move{DX: MaxMoveStep + 1}, want: false},
		{name: "dy too small", move: Move{DY: -MaxMoveStep - 1}, want: false},
		{name: "max int", move: Move{DX: math.MaxInt, DY: math.MinInt}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.move.Valid())
		})
	}
}

func TestPlayer_Scout(t *testing.T) {
	p := Player{Name: "Henry"}
	_, ok := p.Scout()
	assert.False(t, ok)

	p.Units = []Unit{NewScout(3)}
	u, ok := p.Scout()
	assert.True(t, ok)
	assert.Equal(t, "scout-3", u.Name)
}

func TestPresence_String(t *testing.T) {
	assert.Equal(t, "connected", PresenceConnected.String())
	assert.Equal(t, "known but not connected", PresenceKnownOffline.String())
	assert.Equal(t, "not connected", PresenceUnknown.String())
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "connected", EventConnected.String())
	assert.Equal(t, "disconnected", EventDisconnected.String())
	assert.Equal(t, "players", EventPlayers.String())
	assert.Equal(t, "moved", EventMoved.String())
	assert.Equal(t, "server error", EventServerError.String())
	assert.Equal(t, "model", EventModel.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}

package models

import (
	"fmt"
	"math"
)

// UnitType identifies the kind of a unit. Players own at most one unit per type.
type UnitType string

// UnitTypeScout is the only unit type; every new player starts with one.
const UnitTypeScout UnitType = "scout"

// Scout start coordinates.
const (
	ScoutStartX = 50
	ScoutStartY = 50
)

// MaxCoordinate bounds both coordinates so a position fits the INTEGER columns
// of the players table.
const MaxCoordinate = math.MaxInt32

// Position is a point on the map. Coordinates stay within 0..MaxCoordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Unit is a movable piece owned by a player.
type Unit struct {
	Name     string   `json:"name"`
	Type     UnitType `json:"type"`
	Position Position `json:"position"`
}

// NewScout returns the n-th scout, placed at the start position.
func NewScout(n int) Unit {
	return Unit{
		Name:     fmt.Sprintf("scout-%d", n),
		Type:     UnitTypeScout,
		Position: Position{X: ScoutStartX, Y: ScoutStartY},
	}
}

// Moved returns a copy of u shifted by (dx, dy). Each coordinate saturates at
// 0 and MaxCoordinate.
func (u Unit) Moved(dx, dy int) Unit {
	u.Position.X = shift(u.Position.X, dx)
	u.Position.Y = shift(u.Position.Y, dy)
	return u
}

func shift(c, d int) int {
	c = min(max(c, 0), MaxCoordinate)
	if d > 0 && d > MaxCoordinate-c {
		return MaxCoordinate
	}
	// c >= 0 and d <= MaxCoordinate-c, so c+d cannot overflow
	return max(c+d, 0)
}

package models

import "time"

// Presence is the three-way connection state of a player name.
type Presence int

const (
	// PresenceUnknown means the name was never seen by this server.
	PresenceUnknown Presence = iota
	// PresenceKnownOffline means the player is in the roster but has no live session.
	PresenceKnownOffline
	// PresenceConnected means the player has a live, joined session.
	PresenceConnected
)

func (p Presence) String() string {
	switch p {
	case PresenceConnected:
		return "connected"
	case PresenceKnownOffline:
		return "known but not connected"
	default:
		return "not connected"
	}
}

// Player represents a participant known to a server.
// A player appears after its first successful join and is kept after it
// disconnects, with Connected set to false.
type Player struct {
	// Name is the unique player name chosen by the client.
	Name string `json:"name"`

	// Connected reports whether the player currently has a live session.
	Connected bool `json:"connected"`

	// FirstSeen is the time of the first successful join.
	FirstSeen time.Time `json:"first_seen"`

	// LastSeen is the time of the latest join, heartbeat or disconnect.
	LastSeen time.Time `json:"last_seen"`

	// Units are the units owned by the player, one per type.
	Units []Unit `json:"units,omitempty"`
}

// TableName returns the name of the database table
// associated with the Player model.
func (p Player) TableName() string {
	return "players"
}

// Scout returns the player's scout and whether it has one.
func (p Player) Scout() (Unit, bool) {
	for _, u := range p.Units {
		if u.Type == UnitTypeScout {
			return u, true
		}
	}
	return Unit{}, false
}

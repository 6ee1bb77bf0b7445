package models

// EventKind tells what happened on a client's game session.
type EventKind int

const (
	// EventConnected follows a completed join handshake.
	EventConnected EventKind = iota + 1
	// EventDisconnected follows the loss of the session.
	EventDisconnected
	// EventPlayers carries a new player list.
	EventPlayers
	// EventMoved carries the new state of the player's scout.
	EventMoved
	// EventServerError carries an error message sent by the server.
	EventServerError
	// EventModel follows a glTF model being loaded or reloaded.
	EventModel
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventPlayers:
		return "players"
	case EventMoved:
		return "moved"
	case EventServerError:
		return "server error"
	case EventModel:
		return "model"
	default:
		return "unknown"
	}
}

// Event is published by a client to its main loop.
type Event struct {
	Kind EventKind

	// Message is the welcome text, the server error or the model summary.
	Message string

	Player  Player
	Players []Player
	Unit    Unit

	// Err is the reason of a disconnect.
	Err error
}

package models

import (
	"encoding/json"
	"fmt"
)

// MessageType is the "type" field of an [Envelope].
type MessageType string

// Session message types.
const (
	MessageWelcome MessageType = "welcome"
	MessageJoin    MessageType = "join"
	MessageJoined  MessageType = "joined"
	MessageError   MessageType = "error"
	MessagePing    MessageType = "ping"
	MessagePong    MessageType = "pong"
	MessagePlayers MessageType = "players"
	MessageMove    MessageType = "move"
	MessageMoved   MessageType = "moved"
)

// Error texts sent in error envelopes.
const (
	ErrorInvalidName    = "invalid name"
	ErrorNameInUse      = "name in use"
	ErrorNotJoined      = "not joined"
	ErrorUnknownMessage = "unknown message"
	ErrorBadPayload     = "bad payload"
)

// CloseReasonTakenOver is the close reason sent to a session replaced by a
// newer one holding the player's resume token.
const CloseReasonTakenOver = "session taken over"

// Envelope is a single JSON message exchanged over a game session.
type Envelope struct {
	Type  MessageType     `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// NewEnvelope marshals data into an envelope of type t. A nil data leaves
// the data field empty.
func NewEnvelope(t MessageType, data any) (Envelope, error) {
	env := Envelope{Type: t}
	if data == nil {
		return env, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("error marshaling %s payload: %w", t, err)
	}
	env.Data = raw
	return env, nil
}

// ErrorEnvelope returns an error envelope carrying msg.
func ErrorEnvelope(msg string) Envelope {
	return Envelope{Type: MessageError, Error: msg}
}

// Decode unmarshals the envelope payload into dst.
func (e Envelope) Decode(dst any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%s message has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("error decoding %s payload: %w", e.Type, err)
	}
	return nil
}

// Welcome is the first message a server sends on a new session.
type Welcome struct {
	Server string `json:"server"`
	MOTD   string `json:"motd"`
}

// Join asks the server to register the session under Name. Token is a resume
// token issued by an earlier Joined and lets the session take over a name
// that is still connected.
type Join struct {
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// Joined confirms a Join.
type Joined struct {
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// MaxMoveStep is the largest offset a single Move may carry on either axis.
const MaxMoveStep = 1 << 16

// Move asks the server to move the player's scout by an offset.
type Move struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Valid reports whether both offsets are within MaxMoveStep.
func (m Move) Valid() bool {
	return m.DX >= -MaxMoveStep && m.DX <= MaxMoveStep &&
		m.DY >= -MaxMoveStep && m.DY <= MaxMoveStep
}

// Moved reports the new state of a moved unit.
type Moved struct {
	Unit Unit `json:"unit"`
}

// Pong answers a ping with the server time in unix milliseconds.
type Pong struct {
	TS int64 `json:"ts"`
}

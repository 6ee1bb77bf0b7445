// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transports a game client uses to talk to a
// Hostile Planets server.
//
// [ServerAdapter] queries the read-only REST API and [SessionDialer] opens
// the WebSocket game session. Error values defined in errors.go are mapped
// from HTTP status codes by mapHTTPError so that callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/hostile-planets/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// ServerAdapter queries the REST API of a game server.
type ServerAdapter interface {
	// Status returns the server status summary.
	Status(ctx context.Context) (models.ServerStatus, error)

	// Players returns every player known to the server.
	Players(ctx context.Context) ([]models.Player, error)

	// Version returns build information of the server binary.
	Version(ctx context.Context) (models.BuildVersionResponse, error)
}

// SessionDialer opens game sessions.
type SessionDialer interface {
	// Dial connects to the game session endpoint of the server at addr
	// ("host:port").
	Dial(ctx context.Context, addr string) (Session, error)
}

// Session is an open game session. Send and Receive may be called from
// different goroutines; each of them from one goroutine at a time.
type Session interface {
	// Send writes one envelope to the server.
	Send(env models.Envelope) error

	// Receive blocks until the next envelope arrives or the session fails.
	Receive() (models.Envelope, error)

	// Close ends the session. It is safe to call more than once.
	Close() error
}

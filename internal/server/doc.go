// Package server runs a Hostile Planets game server.
//
// A [Server] owns the roster, its store and the network transports: the
// HTTP/WebSocket listener and the optional gRPC health endpoint. Listen
// blocks until the server stops; Ready signals when diagnostics may query a
// bound address.
package server

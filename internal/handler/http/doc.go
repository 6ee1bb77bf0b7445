// Package http implements the network surface of a game server.
//
// It exposes the WebSocket game session at /ws and a small read-only REST
// API under /api. Request tracing, access logging and response compression
// are handled by middleware before requests reach the lobby service.
package http

package server

import "context"

// transport is one network listener served by the game server.
//
// Implementations block in [transport.Serve] until shutdown is requested and
// release resources in [transport.Shutdown].
type transport interface {
	// Serve starts serving requests and blocks until the transport stops.
	// A stop requested through Shutdown returns nil.
	Serve() error

	// Shutdown gracefully stops the transport, giving up when ctx is done.
	Shutdown(ctx context.Context)
}

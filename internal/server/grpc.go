package server

import (
	"context"
	"fmt"
	"net"

	myGRPC "github.com/MKhiriev/hostile-planets/internal/handler/grpc"
	"github.com/MKhiriev/hostile-planets/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, listener net.Listener, logger *logger.Logger) *grpcServer {
	return &grpcServer{
		handler:         handler,
		server:          handler.Init(),
		gRPCNetListener: listener,
		logger:          logger,
	}
}

func (g *grpcServer) Serve() error {
	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("launching gRPC server")
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		return fmt.Errorf("gRPC server Serve: %w", err)
	}
	return nil
}

// Shutdown reports NOT_SERVING, then stops gracefully. Streams still open
// when ctx is done are cut.
func (g *grpcServer) Shutdown(ctx context.Context) {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		g.server.Stop()
	}
	_ = g.gRPCNetListener.Close()
}

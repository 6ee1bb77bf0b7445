package grpc

import (
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// LobbyServiceName is the health service name reported for the game lobby.
// The empty name reports the server as a whole.
const LobbyServiceName = "hostile_planets.Lobby"

// Handler is the root gRPC transport handler.
//
// It serves the standard gRPC health protocol. Statuses start as
// NOT_SERVING and follow the lifecycle of the game server through
// [Handler.SetServing].
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	health *health.Server

	// logger is used for diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger, and returns the initialized instance.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.SetServing(false)
	return h
}

// Init returns a gRPC server with the health service registered.
func (h *Handler) Init(opts ...grpc.ServerOption) *grpc.Server {
	server := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(server, h.health)
	return server
}

// SetServing switches every reported status between SERVING and NOT_SERVING.
func (h *Handler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(LobbyServiceName, status)
	h.logger.Debug().Str("status", status.String()).Msg("gRPC health status changed")
}

// Shutdown reports NOT_SERVING permanently; later SetServing calls are
// ignored.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

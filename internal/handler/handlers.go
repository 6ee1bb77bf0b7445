package handler

import (
	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/handler/grpc"
	"github.com/MKhiriev/hostile-planets/internal/handler/http"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/service"
)

// Handlers groups the transport handlers of a game server. HTTP is always
// present; GRPC is nil unless a gRPC address is configured.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, cfg *config.ServerConf, info http.ServerInfo, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if services == nil {
		return nil, errNoServices
	}

	handlers := &Handlers{
		HTTP: http.NewHandler(services, info, logger),
	}
	if cfg.GRPC.Address != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	return handlers, nil
}

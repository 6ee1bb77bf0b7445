package service

import (
	"fmt"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/game"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/store"
	"github.com/MKhiriev/hostile-planets/internal/utils"
	"github.com/MKhiriev/hostile-planets/models"
)

type Services struct {
	LobbyService   LobbyService
	AppInfoService AppInfoService
}

// NewServices wires the server services. storages may be nil to run without
// persistence. A missing token sign key is replaced by a random one.
func NewServices(storages *store.Storages, cfg *config.ServerConf, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	signKey := cfg.Session.TokenSignKey
	if signKey == "" {
		key, err := utils.GenerateSignKey()
		if err != nil {
			return nil, err
		}
		logger.Warn().Msg("session.token_sign_key is not set, resume tokens will not survive a restart")
		signKey = key
	}

	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	var players store.PlayerRepository
	if storages != nil {
		players = storages.PlayerRepository
	}

	return &Services{
		LobbyService: NewLobbyService(LobbyConfig{
			ServerName:    cfg.Name,
			TokenSignKey:  signKey,
			TokenDuration: cfg.Session.TokenDuration.Std(),
		}, game.NewRoster(), players, logger),
		AppInfoService: appInfo,
	}, nil
}

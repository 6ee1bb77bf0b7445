package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/game"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/internal/store"
	"github.com/MKhiriev/hostile-planets/internal/utils"
	"github.com/MKhiriev/hostile-planets/models"
)

// LobbyConfig carries the settings a [LobbyService] needs from the server
// configuration.
type LobbyConfig struct {
	ServerName    string
	TokenSignKey  string
	TokenDuration time.Duration
}

type lobbyService struct {
	cfg     LobbyConfig
	roster  *game.Roster
	players store.PlayerRepository
	now     func() time.Time

	logger *logger.Logger
}

// NewLobbyService builds a lobby over roster. players may be nil, in which
// case nothing is persisted.
func NewLobbyService(cfg LobbyConfig, roster *game.Roster, players store.PlayerRepository, logger *logger.Logger) LobbyService {
	return &lobbyService{
		cfg:     cfg,
		roster:  roster,
		players: players,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *lobbyService) Welcome() models.Welcome {
	return models.Welcome{Server: s.cfg.ServerName, MOTD: models.MOTD}
}

func (s *lobbyService) Join(ctx context.Context, conn game.Conn, req models.Join) (models.Joined, error) {
	log := logger.FromContext(ctx)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Joined{}, game.ErrInvalidName
	}

	takeover := false
	if req.Token != "" {
		token, err := utils.ValidateAndParseSessionToken(req.Token, s.cfg.TokenSignKey, s.cfg.ServerName)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("player", name).Msg("ignoring invalid resume token")
		case token.Player != name:
			log.Warn().Str("player", name).Str("token_player", token.Player).Msg("ignoring resume token of another player")
		default:
			takeover = true
		}
	}

	var known *models.Player
	if s.players != nil && s.roster.Presence(name) == models.PresenceUnknown {
		stored, err := s.players.Find(ctx, name)
		switch {
		case err == nil:
			known = &stored
		case !errors.Is(err, store.ErrPlayerNotFound):
			log.Err(err).Str("player", name).Msg("error loading player from roster store")
		}
	}

	res, err := s.roster.Join(name, conn, takeover, known)
	if err != nil {
		return models.Joined{}, err
	}

	if res.Replaced != nil {
		log.Info().Str("player", name).Str("replaced", res.Replaced.ID()).Msg("session taken over")
		_ = res.Replaced.Close(models.CloseReasonTakenOver)
	}

	if s.players != nil {
		if err = s.players.Save(ctx, res.Player); err != nil {
			log.Err(err).Str("player", name).Msg("error saving player")
		}
	}

	token, err := utils.GenerateSessionToken(s.cfg.ServerName, name, s.cfg.TokenDuration, s.cfg.TokenSignKey)
	if err != nil {
		s.roster.Leave(name, conn.ID())
		return models.Joined{}, fmt.Errorf("error issuing session token: %w", err)
	}

	log.Info().Str("player", name).Bool("takeover", takeover).Msg("player joined")
	return models.Joined{Player: res.Player, Token: token.String()}, nil
}

func (s *lobbyService) Leave(ctx context.Context, name, connID string) {
	if !s.roster.Leave(name, connID) {
		return
	}
	logger.FromContext(ctx).Info().Str("player", name).Msg("player left")

	if s.players != nil {
		p, _ := s.roster.Player(name)
		if err := s.players.Save(ctx, p); err != nil {
			logger.FromContext(ctx).Err(err).Str("player", name).Msg("error saving player on leave")
		}
	}

	s.BroadcastPlayers(ctx)
}

func (s *lobbyService) Heartbeat(ctx context.Context, name, connID string) {
	s.roster.Touch(name, connID)
}

func (s *lobbyService) Move(ctx context.Context, name string, move models.Move) (models.Unit, error) {
	// a session replaced by a takeover must not steer the new one's scout
	connID, _ := utils.GetSessionIDFromContext(ctx)
	unit, err := s.roster.Move(name, connID, move.DX, move.DY)
	if err != nil {
		return models.Unit{}, err
	}
	logger.FromContext(ctx).Debug().Str("player", name).Int("x", unit.Position.X).Int("y", unit.Position.Y).Msg("scout moved")
	return unit, nil
}

func (s *lobbyService) Players() []models.Player {
	return s.roster.Players()
}

func (s *lobbyService) Presence(ctx context.Context, name string) models.Presence {
	presence := s.roster.Presence(name)
	if presence != models.PresenceUnknown || s.players == nil {
		return presence
	}

	if _, err := s.players.Find(ctx, name); err == nil {
		return models.PresenceKnownOffline
	}
	return models.PresenceUnknown
}

func (s *lobbyService) Online() int {
	return s.roster.Online()
}

func (s *lobbyService) BroadcastPlayers(ctx context.Context) {
	env, err := models.NewEnvelope(models.MessagePlayers, s.roster.Players())
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("error building players broadcast")
		return
	}

	for _, conn := range s.roster.Conns() {
		if err = conn.Send(ctx, env); err != nil {
			logger.FromContext(ctx).Debug().Err(err).Str("session", conn.ID()).Msg("error broadcasting players")
		}
	}
}

func (s *lobbyService) ReapStale(ctx context.Context, timeout time.Duration) int {
	stale := s.roster.Stale(s.now().Add(-timeout))
	for _, conn := range stale {
		logger.FromContext(ctx).Info().Str("session", conn.ID()).Dur("timeout", timeout).Msg("closing silent session")
		_ = conn.Close("heartbeat timeout")
	}
	return len(stale)
}

func (s *lobbyService) FlushPositions(ctx context.Context) error {
	if s.players == nil {
		return nil
	}

	var errs []error
	for _, p := range s.roster.Players() {
		if !p.Connected {
			continue
		}
		if err := s.players.Touch(ctx, p.Name, p.LastSeen); err != nil {
			errs = append(errs, fmt.Errorf("player %q: %w", p.Name, err))
			continue
		}
		scout, ok := p.Scout()
		if !ok {
			continue
		}
		if err := s.players.SavePosition(ctx, p.Name, scout); err != nil {
			errs = append(errs, fmt.Errorf("player %q: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *lobbyService) CloseAll(reason string) {
	for _, conn := range s.roster.Conns() {
		_ = conn.Close(reason)
	}
}

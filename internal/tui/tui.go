// Package tui implements the terminal main loop of the game client.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/hostile-planets/internal/assets"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Game is the client state and the actions the terminal UI needs.
type Game interface {
	Address() string
	Player() string
	Welcome() string
	ServerName() string
	Scout() (models.Unit, bool)
	Models() []*assets.Model
	Connected() <-chan struct{}
	Events() <-chan models.Event

	Players(ctx context.Context) ([]models.Player, error)
	Move(ctx context.Context, dx, dy int) error
}

type TUI struct {
	game   Game
	logger *logger.Logger
}

func New(game Game, log *logger.Logger) *TUI {
	return &TUI{game: game, logger: log}
}

// Run shows the game screen until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	model := newGameModel(ctx, t.game)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		t.logger.Error().Err(err).Msg("terminal UI failed")
	}
	return err
}

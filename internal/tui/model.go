package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/assets"
	"github.com/MKhiriev/hostile-planets/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	statusTTL     = 2 * time.Second
	maxNameLength = 24
)

type gameModel struct {
	ctx  context.Context
	game Game

	spinner   spinner.Model
	connected bool
	welcome   string
	server    string
	scout     models.Unit
	hasScout  bool
	players   []models.Player
	models    []*assets.Model

	status string
	errMsg string
}

func newGameModel(ctx context.Context, game Game) gameModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := gameModel{
		ctx:     ctx,
		game:    game,
		spinner: s,
		models:  game.Models(),
	}

	select {
	case <-game.Connected():
		m.connected = true
		m.welcome = game.Welcome()
		m.server = game.ServerName()
		m.scout, m.hasScout = game.Scout()
	default:
	}
	return m
}

func (m gameModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.game.Events()))
}

func waitForEvent(events <-chan models.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func (m gameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		wasConnected := m.connected
		m = m.applyEvent(msg.event)
		next := waitForEvent(m.game.Events())
		if wasConnected && !m.connected {
			return m, tea.Batch(next, m.spinner.Tick)
		}
		return m, next
	case eventsClosedMsg:
		return m, nil
	case playersLoadedMsg:
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.players = msg.players
		m.status = fmt.Sprintf("%d player(s) on the server", len(msg.players))
		return m, cmdClearStatus()
	case moveSentMsg:
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
		}
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = "Server address copied"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case spinner.TickMsg:
		if m.connected {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m gameModel) applyEvent(ev models.Event) gameModel {
	switch ev.Kind {
	case models.EventConnected:
		m.connected = true
		m.welcome = ev.Message
		m.server = m.game.ServerName()
		m.scout, m.hasScout = ev.Player.Scout()
		m.errMsg = ""
	case models.EventDisconnected:
		m.connected = false
		m.errMsg = humanizeServerUnavailableError(ev.Err)
	case models.EventPlayers:
		m.players = ev.Players
	case models.EventMoved:
		if ev.Unit.Type == models.UnitTypeScout {
			m.scout, m.hasScout = ev.Unit, true
		}
	case models.EventServerError:
		m.errMsg = ev.Message
	case models.EventModel:
		m.models = m.game.Models()
		m.status = ev.Message
	}
	return m
}

func (m gameModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.refresh):
		return m, m.cmdLoadPlayers()
	case key.Matches(msg, keys.copy):
		return m, cmdCopyToClipboard(m.game.Address())
	}

	if !m.connected {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.up):
		return m, m.cmdMove(0, -1)
	case key.Matches(msg, keys.down):
		return m, m.cmdMove(0, 1)
	case key.Matches(msg, keys.left):
		return m, m.cmdMove(-1, 0)
	case key.Matches(msg, keys.right):
		return m, m.cmdMove(1, 0)
	}
	return m, nil
}

func (m gameModel) cmdLoadPlayers() tea.Cmd {
	ctx := m.ctx
	game := m.game
	return func() tea.Msg {
		players, err := game.Players(ctx)
		return playersLoadedMsg{players: players, err: err}
	}
}

func (m gameModel) cmdMove(dx, dy int) tea.Cmd {
	ctx := m.ctx
	game := m.game
	return func() tea.Msg {
		return moveSentMsg{err: game.Move(ctx, dx, dy)}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m gameModel) View() string {
	title := "Hostile Planets"
	if m.server != "" {
		title += " - " + m.server
	}

	var body strings.Builder
	if !m.connected {
		fmt.Fprintf(&body, "%s Connecting to %s as %s...\n", m.spinner.View(), m.game.Address(), m.game.Player())
	} else {
		fmt.Fprintf(&body, "%s\n\n", m.welcome)
		fmt.Fprintf(&body, "Player: %s @ %s\n", m.game.Player(), m.game.Address())
		if m.hasScout {
			fmt.Fprintf(&body, "Scout:  %s at (%d, %d)\n", m.scout.Name, m.scout.Position.X, m.scout.Position.Y)
		}
	}

	panels := []string{panelBoxStyle.Render(m.viewPlayers())}
	if len(m.models) > 0 {
		panels = append(panels, panelBoxStyle.Render(m.viewModels()))
	}
	body.WriteString("\n")
	body.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	body.WriteString("\n")

	if m.status != "" {
		body.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		body.WriteString("\n" + errorStyle.Render("Error: "+m.errMsg) + "\n")
	}

	return renderPage(title, body.String(), "arrows move  r refresh  c copy address  q quit")
}

func (m gameModel) viewPlayers() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Players"))
	b.WriteString("\n")
	if len(m.players) == 0 {
		b.WriteString("none yet")
		return b.String()
	}
	for _, p := range m.players {
		name := fitText(p.Name, maxNameLength)
		if p.Connected {
			b.WriteString(onlineStyle.Render("● " + name))
		} else {
			b.WriteString(offlineStyle.Render("○ " + name))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m gameModel) viewModels() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Models"))
	for _, model := range m.models {
		b.WriteString("\n")
		b.WriteString(fitText(model.String(), 2*maxNameLength))
	}
	return b.String()
}

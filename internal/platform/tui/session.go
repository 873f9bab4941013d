package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewScoreboard
	viewOnline
)

// SessionModel manages the full flow: menu -> game -> menu, plus the
// match history screen. It is used both locally and for SSH sessions;
// SSH sessions also get the online lobby.
type SessionModel struct {
	env      registry.Env
	opts     Options
	config   core.RuntimeConfig
	view     sessionView
	menu     MenuModel
	game     GameModel
	board    ScoreboardModel
	online   OnlineModel
	notice   string
	quitting bool
}

// NewSessionModel creates a session starting at the menu.
func NewSessionModel(env registry.Env, cfg core.RuntimeConfig, opts Options) SessionModel {
	env = env.WithDefaults()
	opts = opts.withDefaults()
	m := SessionModel{
		env:    env,
		opts:   opts,
		config: cfg,
	}
	m.resetMenu()
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.opts.Online != nil {
		return tea.Batch(m.menu.Init(), waitForSessionEvent(m.opts.Online))
	}
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}
	if evt, ok := msg.(multiplayer.SessionEvent); ok {
		return m.handleSessionEvent(evt)
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScoreboard:
		return m.updateScoreboard(msg)
	case viewOnline:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		// Last tick of a game that just ended
		return m, nil
	}

	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)
	if _, ok := msg.(tea.KeyMsg); ok {
		m.notice = ""
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.board = NewScoreboardModel(m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.view = viewScoreboard
		return m, m.board.Init()

	case m.menu.Selected() != nil && m.menu.Selected().GameID == onlineItemID && m.opts.Online != nil:
		m.online = NewOnlineModel(m.opts.Online, m.menu.Selected().Difficulty, m.config.ScreenW, m.config.ScreenH)
		m.view = viewOnline
		return m, m.online.Init()

	case m.menu.Selected() != nil:
		sel := m.menu.Selected()
		env := m.env
		env.Difficulty = sel.Difficulty
		game, err := registry.Create(sel.GameID, env)
		if err != nil {
			m.opts.Logger.Error("could not start game", "game", sel.GameID, "err", err)
			m.notice = "could not start game: " + err.Error()
			m.resetMenu()
			return m, nil
		}
		m.game = NewGameModel(game, m.config, m.opts)
		m.view = viewGame
		start := m.game.Init()
		if notice := m.menu.Notice(); notice != "" {
			next, show := m.game.showNotice(notice)
			m.game = next.(GameModel)
			return m, tea.Batch(start, show)
		}
		return m, start
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(GameModel)

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.resetMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	m.board = next.(ScoreboardModel)

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.resetMenu()
		return m, nil
	}
	return m, cmd
}

// handleSessionEvent passes coordinator events to the online screen and
// keeps the reader armed. Events for a screen that is no longer shown are
// dropped.
func (m SessionModel) handleSessionEvent(evt multiplayer.SessionEvent) (tea.Model, tea.Cmd) {
	read := waitForSessionEvent(m.opts.Online)
	if m.view != viewOnline {
		return m, read
	}
	next, cmd := m.online.Update(evt)
	m.online = next.(OnlineModel)
	return m, tea.Batch(cmd, read)
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.online.Update(msg)
	m.online = next.(OnlineModel)

	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.online.BackToMenu() {
		m.resetMenu()
		return m, nil
	}
	return m, cmd
}

func (m *SessionModel) resetMenu() {
	m.view = viewMenu
	var extra []MenuItem
	if m.opts.Online != nil {
		extra = append(extra, MenuItem{GameID: onlineItemID, Title: "Pong Online (SSH)"})
	}
	m.menu = NewMenuModel(m.opts.Store, m.opts.Logger, m.config.ScreenW, m.config.ScreenH, extra...)
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScoreboard:
		return m.board.View()
	case viewOnline:
		return m.online.View()
	default:
		view := m.menu.View()
		if m.notice != "" {
			view += "\n" + centerText(noticeStyle.Render(m.notice), m.config.ScreenW)
		}
		return view
	}
}

// RunSession starts the interactive menu in the local terminal.
func RunSession(env registry.Env, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(NewSessionModel(env, cfg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

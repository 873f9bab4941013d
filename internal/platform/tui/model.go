package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pong/internal/audio"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/games/pong"
	"github.com/vovakirdan/tui-pong/internal/registry"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

const noticeDuration = 3 * time.Second

// Options carries the collaborators a game model may use. Every field is
// optional: a nil Audio plays nothing and a nil Store skips saving.
// Online is only set for SSH sessions.
type Options struct {
	Audio        *audio.Manager
	Store        *storage.Store
	Logger       *log.Logger
	HistoryLimit int
	Online       *OnlineLink
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = storage.DefaultHistoryLimit
	}
	return o
}

// GameModel is the Bubble Tea model that drives one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	keys       *KeyMapper
	input      core.MultiInputFrame
	state      core.GameState
	saved      bool
	notice     string
	noticeSeq  int
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for the given game.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts Options) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		opts:   opts.withDefaults(),
		config: cfg,
		keys:   NewKeyMapper(game.ID() == pong.IDVersus),
		input:  core.NewMultiInputFrame(),
	}
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.opts.Logger.Info("match started", "game", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The playfield is resolution independent, so a resize only
		// changes how it is projected.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "m" {
		on := m.opts.Audio.Toggle()
		if on {
			return m.showNotice("sound on")
		}
		return m.showNotice("sound off")
	}

	res := m.keys.MapKey(msg)
	switch res.Action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		if m.state.GameOver || m.state.Paused {
			m.backToMenu = true
		}
		return m, nil
	case core.ActionNone:
		return m, nil
	}

	m.input.Set(res.Player, res.Action)
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.input)
	m.input.Clear()
	m.state = result.State
	m.opts.Audio.HandleEvents(result.Events)

	var cmds []tea.Cmd
	if !m.state.GameOver {
		m.saved = false
	} else if !m.saved {
		m.saved = true
		if err := m.saveResult(); err != nil {
			m.opts.Logger.Error("could not save match result", "game", m.game.ID(), "err", err)
			next, cmd := m.showNotice("could not save match result")
			m = next.(GameModel)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.config.TickRate))
	return m, tea.Batch(cmds...)
}

// saveResult persists the finished match. Games without a record and
// models without a store are skipped silently.
func (m GameModel) saveResult() error {
	rec, ok := m.game.(registry.Recorder)
	if !ok {
		return nil
	}
	match, ok := rec.MatchRecord()
	if !ok {
		return nil
	}
	m.opts.Logger.Info("match finished",
		"game", match.GameMode,
		"score", []int{match.Player1Score, match.Player2Score},
		"winner", match.Winner,
		"hits", match.TotalHits,
	)
	if m.opts.Store == nil {
		return nil
	}
	_, err := m.opts.Store.SaveMatch(match, m.opts.HistoryLimit)
	return err
}

func (m GameModel) showNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	return m, expireNotice(m.noticeSeq, noticeDuration)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return overlayNotice(RenderScreen(m.screen), m.notice, m.screen.Width())
}

// Notice returns the transient message currently shown, if any.
func (m GameModel) Notice() string {
	return m.notice
}

// State returns the state from the last tick.
func (m GameModel) State() core.GameState {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the terminal until the user quits.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := standaloneModel{NewGameModel(game, cfg, opts)}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// standaloneModel exits the program where a session would return to the menu.
type standaloneModel struct {
	GameModel
}

func (s standaloneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.GameModel.Update(msg)
	s.GameModel = next.(GameModel)
	if s.BackToMenu() {
		return s, tea.Quit
	}
	return s, cmd
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
)

// onlineItemID is the menu entry that opens the online lobby.
const onlineItemID = "pong_online"

const joinCodeLength = 6

// OnlineLink connects a session to the server's match coordinator.
type OnlineLink struct {
	Coordinator *multiplayer.Coordinator
	Session     *multiplayer.ChannelSession
}

// waitForSessionEvent reads the next coordinator event for the session.
// Exactly one read is kept pending per session.
func waitForSessionEvent(link *OnlineLink) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-link.Session.Events():
			return evt
		case <-link.Session.Done():
			return nil
		}
	}
}

// OnlineState is a step of the host/join/play flow.
type OnlineState int

const (
	OnlineStateChoose OnlineState = iota
	OnlineStateHosting
	OnlineStateEnterCode
	OnlineStateJoining
	OnlineStatePlaying
	OnlineStateEnded
)

// OnlineModel lets a player host or join a versus match on the server and
// then play their side of it. The match itself runs in the coordinator;
// this model only shows frames and forwards keys.
type OnlineModel struct {
	link       *OnlineLink
	difficulty string
	keys       *KeyMapper
	state      OnlineState
	width      int
	height     int

	code    string
	input   string
	errText string

	side   core.PlayerID
	frame  *core.Screen
	result multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the lobby screen. Hosted matches use difficulty.
func NewOnlineModel(link *OnlineLink, difficulty string, width, height int) OnlineModel {
	return OnlineModel{
		link:       link,
		difficulty: difficulty,
		keys:       NewKeyMapper(false),
		width:      width,
		height:     height,
	}
}

// Init does nothing; the session keeps the event reader running.
func (m OnlineModel) Init() tea.Cmd {
	return nil
}

// Update handles keys and coordinator events.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case multiplayer.LobbyCreatedEvent:
		m.code = msg.Code
		m.state = OnlineStateHosting

	case multiplayer.LobbyErrorEvent:
		m.errText = msg.Message
		switch m.state {
		case OnlineStateJoining:
			m.state = OnlineStateEnterCode
		case OnlineStateHosting:
			m.state = OnlineStateChoose
			m.code = ""
		}

	case multiplayer.MatchStartedEvent:
		m.side = msg.Side
		m.code = msg.Code
		m.errText = ""
		m.frame = nil
		m.state = OnlineStatePlaying

	case multiplayer.FrameEvent:
		if m.state == OnlineStatePlaying {
			m.frame = msg.Screen
		}

	case multiplayer.MatchEndedEvent:
		m.result = msg
		m.state = OnlineStateEnded
	}
	return m, nil
}

func (m OnlineModel) send(msg multiplayer.Message) {
	m.link.Coordinator.Send(msg)
}

func (m OnlineModel) sessionID() multiplayer.SessionID {
	return m.link.Session.ID()
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChoose:
		switch key {
		case "h", "H", "1":
			m.errText = ""
			m.send(multiplayer.CreateLobbyMsg{
				SessionID:  m.sessionID(),
				Difficulty: m.difficulty,
				Width:      m.width,
				Height:     m.height,
			})
		case "j", "J", "2":
			m.errText = ""
			m.input = ""
			m.state = OnlineStateEnterCode
		case "esc", "b":
			m.backToMenu = true
		case "q":
			m.quitting = true
			return m, tea.Quit
		}

	case OnlineStateHosting:
		switch key {
		case "esc", "b":
			m.leave()
			m.backToMenu = true
		case "q":
			m.leave()
			m.quitting = true
			return m, tea.Quit
		}

	case OnlineStateEnterCode:
		switch key {
		case "esc":
			m.state = OnlineStateChoose
		case "enter":
			if len(m.input) == joinCodeLength {
				m.errText = ""
				m.state = OnlineStateJoining
				m.send(multiplayer.JoinLobbyMsg{
					SessionID: m.sessionID(),
					Code:      m.input,
					Width:     m.width,
					Height:    m.height,
				})
			}
		case "backspace":
			if m.input != "" {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(key) == 1 && len(m.input) < joinCodeLength {
				c := strings.ToUpper(key)[0]
				if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
					m.input += string(c)
				}
			}
		}

	case OnlineStatePlaying:
		return m.handlePlayKey(msg)

	case OnlineStateEnded:
		if key == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
	}
	return m, nil
}

func (m OnlineModel) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res := m.keys.MapKey(msg)
	switch res.Action {
	case core.ActionQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.leave()
		m.backToMenu = true
	case core.ActionUp, core.ActionDown:
		// Pause and restart would stop the opponent too.
		in := core.NewInputFrame()
		in.Set(res.Action)
		m.send(multiplayer.PlayerInputMsg{SessionID: m.sessionID(), Input: in})
	}
	return m, nil
}

// leave closes a hosted lobby or forfeits a running match.
func (m OnlineModel) leave() {
	switch m.state {
	case OnlineStateHosting:
		m.send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID()})
	case OnlineStatePlaying:
		m.send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID()})
	}
}

// View renders the current step.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}
	if m.state == OnlineStatePlaying && m.frame != nil {
		return RenderScreen(m.frame) + "\n" + dimStyle.Render(centerText(m.sideHint(), m.frame.Width()))
	}

	var lines []string
	switch m.state {
	case OnlineStateChoose:
		lines = []string{
			"Difficulty: " + strings.ToUpper(m.difficulty),
			"",
			"[H] Host a match",
			"[J] Join a match",
		}
	case OnlineStateHosting:
		lines = []string{
			"Share this code with your opponent:",
			"",
			fmt.Sprintf("[ %s ]", m.code),
			"",
			"Waiting for a player to join...",
		}
	case OnlineStateEnterCode:
		code := m.input + strings.Repeat("_", joinCodeLength-len(m.input))
		lines = []string{"Enter the match code:", "", fmt.Sprintf("[ %s ]", code)}
	case OnlineStateJoining:
		lines = []string{"Joining " + m.input + "..."}
	case OnlineStatePlaying:
		lines = []string{"Match " + m.code + " starting...", "", m.sideHint()}
	case OnlineStateEnded:
		lines = m.resultLines()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  O N L I N E  ", m.width)))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(centerText(noticeStyle.Render(m.errText), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText(m.controls(), m.width)))
	b.WriteString("\n")
	return b.String()
}

func (m OnlineModel) sideHint() string {
	side := "LEFT"
	if m.side == core.Player2 {
		side = "RIGHT"
	}
	return fmt.Sprintf("You are %s  |  W/S or Up/Down: Move  |  Esc: Forfeit", side)
}

func (m OnlineModel) resultLines() []string {
	outcome := "You lost"
	if m.result.Winner == m.side {
		outcome = "You won"
	}
	lines := []string{outcome, "", fmt.Sprintf("%d - %d", m.result.Score1, m.result.Score2)}
	if m.result.Reason != multiplayer.MatchEndCompleted {
		lines = append(lines, "", m.result.Reason.String())
	}
	return lines
}

func (m OnlineModel) controls() string {
	switch m.state {
	case OnlineStateChoose:
		return "H: Host  |  J: Join  |  Esc: Back  |  Q: Quit"
	case OnlineStateHosting:
		return "Esc: Cancel  |  Q: Quit"
	case OnlineStateEnterCode:
		return "Enter: Join  |  Esc: Back"
	case OnlineStateEnded:
		return "Any key: Menu  |  Q: Quit"
	}
	return ""
}

// State returns the current step.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if the player left the online screen.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the player asked to quit.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

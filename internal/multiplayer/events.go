package multiplayer

import "github.com/vovakirdan/tui-pong/internal/core"

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent tells the host its join code.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby operation or an expired lobby.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// MatchStartedEvent is sent to both players once the joiner arrives.
type MatchStartedEvent struct {
	MatchID MatchID
	Code    string
	Side    core.PlayerID // Paddle this session controls
}

func (MatchStartedEvent) sessionEvent() {}

// FrameEvent carries one rendered tick. Screen must not be modified by
// receivers; both players share it.
type FrameEvent struct {
	MatchID MatchID
	Tick    uint64
	Screen  *core.Screen
	State   core.GameState
}

func (FrameEvent) sessionEvent() {}

// MatchEndedEvent is sent to both players when the match is over.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  core.PlayerID
	Score1  int
	Score2  int
}

func (MatchEndedEvent) sessionEvent() {}

// Message is sent from a session to the coordinator.
type Message interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a lobby hosted by the session. Width and Height
// are the host's terminal size.
type CreateLobbyMsg struct {
	SessionID  SessionID
	Difficulty string
	Width      int
	Height     int
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg joins the lobby with the given code, starting the match.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
	Width     int
	Height    int
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes the lobby the session is hosting.
type CancelLobbyMsg struct {
	SessionID SessionID
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits the session's current match.
type LeaveMatchMsg struct {
	SessionID SessionID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg carries one key's worth of input. The coordinator routes
// it to the paddle the session owns.
type PlayerInputMsg struct {
	SessionID SessionID
	Input     core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a connection closes.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}

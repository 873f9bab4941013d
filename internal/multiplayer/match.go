package multiplayer

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

// MatchResult is the outcome of a match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  core.PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
	Record  *core.MatchRecord // Set when the game finished normally and keeps records
}

type playerInput struct {
	side  core.PlayerID
	input core.InputFrame
}

// Match runs one authoritative game for two seated sessions. The game is
// only touched from the Run goroutine.
type Match struct {
	id      MatchID
	code    string
	game    registry.Game
	seats   [2]SessionHandle // Host first
	runtime core.RuntimeConfig

	inputs  chan playerInput
	leave   chan SessionID
	pending core.MultiInputFrame
	tick    uint64
}

func newMatch(id MatchID, code string, game registry.Game, seats [2]SessionHandle, runtime core.RuntimeConfig) *Match {
	return &Match{
		id:      id,
		code:    code,
		game:    game,
		seats:   seats,
		runtime: runtime,
		inputs:  make(chan playerInput, 64),
		leave:   make(chan SessionID, 2),
		pending: core.NewMultiInputFrame(),
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Code returns the lobby code the match was created from.
func (m *Match) Code() string {
	return m.code
}

// SideOf returns the paddle a session controls, or NoPlayer.
func (m *Match) SideOf(id SessionID) core.PlayerID {
	for i, s := range m.seats {
		if s.ID() == id {
			return seatSide(i)
		}
	}
	return core.NoPlayer
}

// SendInput queues input for a side. Input is dropped if the queue is full.
func (m *Match) SendInput(side core.PlayerID, in core.InputFrame) {
	select {
	case m.inputs <- playerInput{side: side, input: in}:
	default:
	}
}

// Leave forfeits the match on behalf of a session.
func (m *Match) Leave(id SessionID) {
	select {
	case m.leave <- id:
	default:
	}
}

// Run ticks the game until it ends, a player leaves or ctx is done. The
// bool is false when ctx stopped the match.
func (m *Match) Run(ctx context.Context) (MatchResult, bool) {
	rate := m.runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	m.broadcast(m.game.State())
	for {
		select {
		case <-ctx.Done():
			return MatchResult{}, false

		case id := <-m.leave:
			return m.forfeit(id, MatchEndForfeit), true

		case <-m.seats[0].Done():
			return m.forfeit(m.seats[0].ID(), MatchEndDisconnect), true

		case <-m.seats[1].Done():
			return m.forfeit(m.seats[1].ID(), MatchEndDisconnect), true

		case pi := <-m.inputs:
			for a, pressed := range pi.input.Actions {
				if pressed {
					m.pending.Set(pi.side, a)
				}
			}

		case <-ticker.C:
			if res, over := m.step(); over {
				return res, true
			}
		}
	}
}

func (m *Match) step() (MatchResult, bool) {
	res := m.game.Step(m.pending)
	m.pending.Clear()
	m.tick++
	m.broadcast(res.State)

	if !res.State.GameOver {
		return MatchResult{}, false
	}
	result := m.result(MatchEndCompleted, res.State.Winner)
	if rec, ok := m.game.(registry.Recorder); ok {
		if r, ok := rec.MatchRecord(); ok {
			result.Record = &r
		}
	}
	return result, true
}

func (m *Match) broadcast(state core.GameState) {
	scr := core.NewScreen(m.runtime.ScreenW, m.runtime.ScreenH)
	m.game.Render(scr)
	evt := FrameEvent{MatchID: m.id, Tick: m.tick, Screen: scr, State: state}
	for _, s := range m.seats {
		s.Send(evt)
	}
}

func (m *Match) forfeit(leaver SessionID, reason MatchEndReason) MatchResult {
	return m.result(reason, m.SideOf(leaver).Opponent())
}

func (m *Match) result(reason MatchEndReason, winner core.PlayerID) MatchResult {
	state := m.game.State()
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  winner,
		Score1:  state.Score,
		Score2:  state.Score2,
		Ticks:   m.tick,
	}
}

// Package multiplayer pairs two SSH sessions into one authoritative versus
// match. Sessions talk to a Coordinator through messages and get events
// back through a SessionHandle. Nothing here depends on Bubble Tea or Wish.
package multiplayer

import "github.com/vovakirdan/tui-pong/internal/core"

// SessionID uniquely identifies a connected session (one SSH connection).
type SessionID string

// MatchID uniquely identifies an online match.
type MatchID string

// seatSide maps a seat index to the paddle it controls.
// The host always plays the left paddle.
func seatSide(seat int) core.PlayerID {
	if seat == 0 {
		return core.Player1
	}
	return core.Player2
}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndCompleted  MatchEndReason = iota // Someone reached the winning score
	MatchEndDisconnect                       // A player's connection dropped
	MatchEndForfeit                          // A player left the match
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndCompleted:
		return "Match completed"
	case MatchEndDisconnect:
		return "Opponent disconnected"
	case MatchEndForfeit:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

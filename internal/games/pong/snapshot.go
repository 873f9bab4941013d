package pong

import (
	"hash/fnv"
	"math"
	"strconv"
)

// Snapshot captures the simulation state for determinism checks.
// Positions are rounded to hundredths of a pixel so the hash is stable.
type Snapshot struct {
	Tick          int
	BallX, BallY  int
	BallVX        int
	BallVY        int
	BallSpeed     int
	LeftY         int
	LeftHeight    int
	RightY        int
	RightHeight   int
	Score1        int
	Score2        int
	GameOver      bool
	Serving       bool
	Pickups       []int // Type, X, Y per pickup
	Effects       []int // Type, Target, Remaining per effect
	PendingTimers int
}

func fixed(v float64) int {
	return int(math.Round(v * 100))
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:          g.tickCount,
		BallX:         fixed(g.ball.X),
		BallY:         fixed(g.ball.Y),
		BallVX:        fixed(g.ball.VX),
		BallVY:        fixed(g.ball.VY),
		BallSpeed:     fixed(g.ball.Speed),
		LeftY:         fixed(g.paddles.Left.Y),
		LeftHeight:    fixed(g.paddles.Left.Height),
		RightY:        fixed(g.paddles.Right.Y),
		RightHeight:   fixed(g.paddles.Right.Height),
		Score1:        g.score1,
		Score2:        g.score2,
		GameOver:      g.gameOver,
		Serving:       g.serving,
		PendingTimers: g.timers.Pending(),
	}
	for _, p := range g.powerups.Pickups() {
		snap.Pickups = append(snap.Pickups, int(p.Type), fixed(p.X), fixed(p.Y))
	}
	for _, e := range g.powerups.Effects() {
		snap.Effects = append(snap.Effects, int(e.Type), int(e.Target), fixed(e.Remaining))
	}
	return snap
}

// Hash returns an FNV-1a hash of the snapshot for determinism testing.
func (snap Snapshot) Hash() uint64 {
	h := fnv.New64a()
	write := func(v int) {
		_, _ = h.Write(strconv.AppendInt(nil, int64(v), 10))
		_, _ = h.Write([]byte{','})
	}

	for _, v := range []int{
		snap.Tick, snap.BallX, snap.BallY, snap.BallVX, snap.BallVY, snap.BallSpeed,
		snap.LeftY, snap.LeftHeight, snap.RightY, snap.RightHeight,
		snap.Score1, snap.Score2, boolInt(snap.GameOver), boolInt(snap.Serving), snap.PendingTimers,
	} {
		write(v)
	}
	for _, v := range snap.Pickups {
		write(v)
	}
	for _, v := range snap.Effects {
		write(v)
	}
	return h.Sum64()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package pong

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testRuntime = core.RuntimeConfig{
	ScreenW:  80,
	ScreenH:  24,
	TickRate: 60,
	Seed:     42,
}

func newTestGame(t *testing.T, mode Mode, mutate func(*config.PongConfig)) *Game {
	t.Helper()
	cfg := config.DefaultPongConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	g, err := NewWithConfig(mode, cfg, config.DifficultyNormal)
	require.NoError(t, err)
	g.Reset(testRuntime)
	return g
}

// bothUp parks both keyboard paddles at the top so every serve scores.
func bothUp() core.MultiInputFrame {
	in := core.NewMultiInputFrame()
	in.Set(core.Player1, core.ActionUp)
	in.Set(core.Player2, core.ActionUp)
	return in
}

func TestGameDeterminism(t *testing.T) {
	run := func() Snapshot {
		g := newTestGame(t, ModeDemo, nil)
		for range 3000 {
			g.Step(core.NewMultiInputFrame())
		}
		return g.Snapshot()
	}

	snap1 := run()
	snap2 := run()

	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	assert.Equal(t, snap1, snap2)
}

func TestServeWaitsForDelay(t *testing.T) {
	g := newTestGame(t, ModeVersus, nil)
	require.True(t, g.Serving())
	require.Equal(t, 1, g.PendingTimers())

	var served bool
	for range 30 {
		res := g.Step(core.NewMultiInputFrame())
		served = served || hasEvent(res.Events, core.EventServe, core.Player1) || hasEvent(res.Events, core.EventServe, core.Player2)
	}
	assert.False(t, served, "serve must wait for the delay")
	assert.False(t, g.Ball().Moving())

	for range 40 {
		res := g.Step(core.NewMultiInputFrame())
		served = served || hasEvent(res.Events, core.EventServe, core.Player1) || hasEvent(res.Events, core.EventServe, core.Player2)
	}
	assert.True(t, served)
	assert.False(t, g.Serving())
	assert.True(t, g.Ball().Moving())
	assert.Zero(t, g.PendingTimers())
}

func TestResetCancelsPendingTimers(t *testing.T) {
	g := newTestGame(t, ModeVersus, nil)
	g.Reset(testRuntime)
	g.Reset(testRuntime)
	assert.Equal(t, 1, g.PendingTimers(), "only the fresh serve should be queued")

	// Play until a point has been scored and the next serve is pending.
	for range 2000 {
		g.Step(bothUp())
		if g.State().Score+g.State().Score2 > 0 {
			break
		}
	}
	require.True(t, g.Serving())

	g.Reset(testRuntime)
	assert.Equal(t, 1, g.PendingTimers())
	assert.Zero(t, g.State().Score)
	assert.Zero(t, g.State().Score2)
}

func TestMatchCompletesWithRecord(t *testing.T) {
	g := newTestGame(t, ModeVersus, func(c *config.PongConfig) {
		c.PowerUps.Enabled = false
	})

	scores := 0
	gameOvers := 0
	for range 20000 {
		res := g.Step(bothUp())
		for _, e := range res.Events {
			switch e.Kind {
			case core.EventScore:
				scores++
			case core.EventGameOver:
				gameOvers++
			}
		}
		if res.State.GameOver {
			break
		}
	}

	state := g.State()
	require.True(t, state.GameOver, "match should finish when no paddle can reach the ball")
	assert.Equal(t, 1, gameOvers)
	assert.Equal(t, state.Score+state.Score2, scores)
	assert.Equal(t, 7, max(state.Score, state.Score2))
	assert.Zero(t, g.PendingTimers(), "game over clears deferred actions")

	rec, ok := g.MatchRecord()
	require.True(t, ok)
	assert.Equal(t, "versus", rec.GameMode)
	assert.Equal(t, state.Score, rec.Player1Score)
	assert.Equal(t, state.Score2, rec.Player2Score)
	assert.Equal(t, state.Winner.String(), rec.Winner)
	assert.Zero(t, rec.TotalHits)
	assert.Greater(t, rec.GameDuration, 0.0)
	_, err := uuid.Parse(rec.MatchID)
	assert.NoError(t, err)

	// Restart begins a new match
	g.Step(core.SingleInput(core.ActionRestart))
	assert.False(t, g.State().GameOver)
	_, ok = g.MatchRecord()
	assert.False(t, ok)
}

func TestDemoInvariantsHold(t *testing.T) {
	g := newTestGame(t, ModeDemo, nil)
	b := g.Ball()

	hits := 0
	for i := range 8000 {
		res := g.Step(core.NewMultiInputFrame())

		for _, p := range []*Paddle{g.Paddles().Left, g.Paddles().Right} {
			require.GreaterOrEqual(t, p.Y, 0.0, "tick %d", i)
			require.LessOrEqual(t, p.Y, 600-p.Height+1e-9, "tick %d", i)
		}
		for _, id := range []core.PlayerID{core.Player1, core.Player2} {
			ai := g.AI(id)
			h := g.Paddles().Get(id).Height / 2
			require.GreaterOrEqual(t, ai.TargetY(), h, "tick %d", i)
			require.LessOrEqual(t, ai.TargetY(), 600-h, "tick %d", i)
		}
		for _, e := range res.Events {
			if e.Kind != core.EventPaddleHit {
				continue
			}
			hits++
			require.NotZero(t, b.VX, "tick %d", i)
			require.GreaterOrEqual(t, b.ActualSpeed(), b.MinSpeed-1e-6, "tick %d", i)
			require.LessOrEqual(t, b.ActualSpeed(), b.MaxSpeed+1e-6, "tick %d", i)
		}
		if res.State.GameOver {
			g.Step(core.SingleInput(core.ActionRestart))
		}
	}
	assert.Positive(t, hits, "AI paddles should return the ball at least once")
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := newTestGame(t, ModeDemo, nil)
	for range 100 {
		g.Step(core.NewMultiInputFrame())
	}

	res := g.Step(core.SingleInput(core.ActionPause))
	require.True(t, res.State.Paused)
	before := g.Snapshot()

	for range 50 {
		g.Step(core.NewMultiInputFrame())
	}
	assert.Equal(t, before.Hash(), g.Snapshot().Hash())

	res = g.Step(core.SingleInput(core.ActionPause))
	assert.False(t, res.State.Paused)
}

func TestKeyboardOnlyMovesHumanSides(t *testing.T) {
	g := newTestGame(t, ModeCPU, nil)
	start := g.Paddles().Left.Y

	in := core.NewMultiInputFrame()
	in.Set(core.Player1, core.ActionUp)
	for range 10 {
		g.Step(in)
	}
	assert.Less(t, g.Paddles().Left.Y, start)
	assert.NotNil(t, g.AI(core.Player2))
	assert.Nil(t, g.AI(core.Player1))
}

func TestSetAIDifficulty(t *testing.T) {
	g := newTestGame(t, ModeDemo, nil)
	require.NoError(t, g.SetAIDifficulty(AIHard))
	assert.Equal(t, AIHard, g.AI(core.Player1).Difficulty())
	assert.Equal(t, AIHard, g.AI(core.Player2).Difficulty())

	assert.Error(t, g.SetAIDifficulty("nope"))
	assert.Equal(t, AIHard, g.AI(core.Player1).Difficulty())
}

func TestPresetPicksAITier(t *testing.T) {
	g, err := NewWithConfig(ModeCPU, config.DefaultPongConfig(), config.DifficultyEasy)
	require.NoError(t, err)
	g.Reset(testRuntime)
	assert.Equal(t, AIEasy, g.AI(core.Player2).Difficulty())
}

func TestNewWithConfigRejectsInvalid(t *testing.T) {
	cfg := config.DefaultPongConfig()
	cfg.Ball.MaxSpeed = 1
	_, err := NewWithConfig(ModeCPU, cfg, config.DifficultyNormal)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRenderDrawsScoreAndLabels(t *testing.T) {
	g := newTestGame(t, ModeCPU, nil)
	scr := core.NewScreen(80, 24)
	g.Render(scr)

	top := scr.Row(0)
	assert.Contains(t, top, "0  :  0")
	assert.Contains(t, top, "P1")
	assert.Contains(t, top, "CPU")

	paddleCells := 0
	for y := range 24 {
		paddleCells += strings.Count(scr.Row(y), string(PaddleChar))
	}
	assert.Positive(t, paddleCells)
}

func TestRenderGameOverMessage(t *testing.T) {
	g := newTestGame(t, ModeVersus, func(c *config.PongConfig) {
		c.Gameplay.WinScore = 1
		c.PowerUps.Enabled = false
	})
	for range 2000 {
		if g.Step(bothUp()).State.GameOver {
			break
		}
	}
	require.True(t, g.State().GameOver)

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	assert.Contains(t, scr.String(), "WINS!")
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{IDCPU, IDVersus, IDDemo} {
		assert.True(t, registry.Exists(id), id)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeCPU, false},
		{"cpu", ModeCPU, false},
		{"versus", ModeVersus, false},
		{"demo", ModeDemo, false},
		{"online", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestModeForIDRoundTrips(t *testing.T) {
	for _, m := range []Mode{ModeCPU, ModeVersus, ModeDemo} {
		got, ok := ModeForID(m.ID())
		require.True(t, ok, "ModeForID(%q)", m.ID())
		assert.Equal(t, m, got)
	}
	_, ok := ModeForID("breakout")
	assert.False(t, ok)
}

func hasEventKind(events []core.Event, kind core.EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func ballEffects(m *PowerUpManager) int {
	n := 0
	for _, e := range m.Effects() {
		if !e.Type.affectsPaddle() {
			n++
		}
	}
	return n
}

func TestSpeedEffectEndsWithRally(t *testing.T) {
	g := newTestGame(t, ModeVersus, nil)
	for g.Serving() {
		g.Step(bothUp())
	}

	b := g.Ball()
	placePickup(g.PowerUps(), PowerUpSpeed, b.X, b.Y)
	res := g.Step(bothUp())
	require.True(t, hasEventKind(res.Events, core.EventPowerUpCollected))
	require.Equal(t, 1, ballEffects(g.PowerUps()))

	scored := false
	for range 600 {
		if hasEventKind(g.Step(bothUp()).Events, core.EventScore) {
			scored = true
			break
		}
	}
	require.True(t, scored)
	require.True(t, g.Serving())

	assert.Zero(t, ballEffects(g.PowerUps()), "speed effect must not outlive the rally")
	mult, left := b.Modifier()
	assert.Equal(t, 1.0, mult)
	assert.Zero(t, left)

	for g.Serving() {
		res := g.Step(bothUp())
		for _, e := range res.Events {
			assert.False(t, e.Kind == core.EventEffectEnded && e.Detail == PowerUpSpeed.String(),
				"no effect-ended event for a cleared speed effect")
		}
	}
	assert.InDelta(t, b.EffectiveSpeed(), b.ActualSpeed(), 1e-6)
}

func TestFastBallCannotTunnelAtLowTickRate(t *testing.T) {
	slow := testRuntime
	slow.TickRate = 30

	for offset := 0.0; offset < 30; offset += 3 {
		g := newTestGame(t, ModeVersus, func(c *config.PongConfig) {
			c.PowerUps.Enabled = false
		})
		g.Reset(slow)
		for g.Serving() {
			g.Step(core.NewMultiInputFrame())
		}

		left := g.Paddles().Left
		b := g.Ball()
		b.Reset(400+offset, left.CenterY(), -1, b.MaxSpeed, 0)

		hit := false
		for range 30 {
			res := g.Step(core.NewMultiInputFrame())
			require.False(t, hasEventKind(res.Events, core.EventScore),
				"offset %v: ball passed through the paddle", offset)
			if hasEvent(res.Events, core.EventPaddleHit, core.Player1) {
				hit = true
				break
			}
		}
		assert.True(t, hit, "offset %v: left paddle should return the ball", offset)
	}
}

func TestBallSubstepsScaleWithTravel(t *testing.T) {
	g := newTestGame(t, ModeVersus, nil)
	b := g.Ball()

	b.VX = 360
	assert.Equal(t, 1, g.ballSubsteps(1.0/60))
	b.VX = -900
	assert.Equal(t, 3, g.ballSubsteps(1.0/30), "30px of travel against a 14px depth")
	b.VX = 0
	assert.Equal(t, 1, g.ballSubsteps(1.0/30))
}

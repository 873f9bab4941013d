// Package pong implements Pong with a scripted AI opponent and power-ups.
// Player 1 owns the left paddle, Player 2 the right one. Depending on the
// mode either side may be driven by the keyboard or by an AIController.
package pong

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

// Mode selects who controls each paddle.
type Mode string

const (
	ModeCPU    Mode = "cpu"    // Player 1 keyboard vs AI
	ModeVersus Mode = "versus" // Two keyboards
	ModeDemo   Mode = "demo"   // AI vs AI
)

// Registry IDs for each mode.
const (
	IDCPU    = "pong"
	IDVersus = "pong_versus"
	IDDemo   = "pong_demo"
)

// ParseMode maps a CLI argument to a mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCPU, ModeVersus, ModeDemo:
		return Mode(s), nil
	case "":
		return ModeCPU, nil
	default:
		return "", fmt.Errorf("pong: unknown mode %q (want cpu, versus or demo)", s)
	}
}

// ModeForID maps a registry ID back to its mode.
func ModeForID(id string) (Mode, bool) {
	for _, m := range []Mode{ModeCPU, ModeVersus, ModeDemo} {
		if m.ID() == id {
			return m, true
		}
	}
	return "", false
}

// ID returns the registry ID for the mode.
func (m Mode) ID() string {
	switch m {
	case ModeVersus:
		return IDVersus
	case ModeDemo:
		return IDDemo
	default:
		return IDCPU
	}
}

// Visual characters for rendering
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '┊'
)

const (
	serveTimer = "serve"
	keyHold    = 0.12 // Seconds a key press keeps a paddle moving
)

// Game implements the Pong game logic.
type Game struct {
	mode   Mode
	cfg    config.PongConfig
	preset config.DifficultyPreset
	aiTier AIDifficulty

	runtime    core.RuntimeConfig
	field      core.Playfield
	rng        *rand.Rand
	logger     *log.Logger
	timers     *core.TimerQueue
	difficulty *config.DifficultyManager

	ball     *Ball
	paddles  Paddles
	ais      map[core.PlayerID]*AIController
	powerups *PowerUpManager

	// Keyboard state for human-controlled sides
	keyDir  map[core.PlayerID]int
	keyLeft map[core.PlayerID]float64

	score1   int
	score2   int
	gameOver bool
	paused   bool
	winner   core.PlayerID
	serving  bool

	tickCount    int
	elapsed      float64
	totalHits    int
	rally        int
	longestRally int
	matchID      string
	record       *core.MatchRecord

	events []core.Event
}

// New creates a game for the mode, loading configuration from env.
func New(mode Mode, env registry.Env) (*Game, error) {
	cfg, err := config.LoadPong(env.ConfigPath)
	if err != nil {
		return nil, err
	}
	preset, err := config.ParsePreset(env.Difficulty)
	if err != nil {
		return nil, err
	}
	g, err := NewWithConfig(mode, cfg, preset)
	if err != nil {
		return nil, err
	}
	if env.Logger != nil {
		g.logger = env.Logger
	}
	return g, nil
}

// NewWithConfig creates a game from an already loaded configuration.
func NewWithConfig(mode Mode, cfg config.PongConfig, preset config.DifficultyPreset) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	config.ApplyPongPreset(&cfg, preset)

	tier, err := ParseAIDifficulty(cfg.AI.Difficulty)
	if err != nil {
		return nil, err
	}

	return &Game{
		mode:       mode,
		cfg:        cfg,
		preset:     preset,
		aiTier:     tier,
		logger:     log.New(io.Discard),
		timers:     core.NewTimerQueue(),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.mode.ID()
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return modeTitle(g.mode)
}

func modeTitle(m Mode) string {
	switch m {
	case ModeVersus:
		return "Pong (2 Players)"
	case ModeDemo:
		return "Pong (Demo)"
	default:
		return "Pong vs CPU"
	}
}

// Mode returns the control mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Reset initializes or restarts the game. Pending timers from the previous
// match are cancelled.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed)) //nolint:gosec // deterministic gameplay
	g.timers.Clear()
	g.field = core.Playfield{Width: g.cfg.Field.Width, Height: g.cfg.Field.Height}

	pc := g.cfg.Paddles
	g.paddles = Paddles{
		Left:  NewPaddle(core.Player1, pc.Offset, pc.Width, pc.Height, pc.Speed, pc.DeadZone, g.field.Height),
		Right: NewPaddle(core.Player2, g.field.Width-pc.Offset-pc.Width, pc.Width, pc.Height, pc.Speed, pc.DeadZone, g.field.Height),
	}
	g.ball = NewBall(g.cfg.Ball, g.field)

	g.ais = make(map[core.PlayerID]*AIController)
	for _, id := range g.aiSides() {
		ai, err := NewAIController(g.aiTier, g.field, g.rng)
		if err != nil {
			continue // Tier was validated in the constructor
		}
		ai.SetBall(g.ball)
		ai.SetPaddle(g.paddles.Get(id))
		g.ais[id] = ai
	}

	if g.powerups == nil {
		g.powerups = NewPowerUpManager(g.cfg.PowerUps, g.field, g.rng)
	} else {
		g.powerups.rng = g.rng
		g.powerups.Reset(g.paddles)
	}

	g.keyDir = make(map[core.PlayerID]int)
	g.keyLeft = make(map[core.PlayerID]float64)

	g.score1 = 0
	g.score2 = 0
	g.gameOver = false
	g.paused = false
	g.winner = core.NoPlayer
	g.tickCount = 0
	g.elapsed = 0
	g.totalHits = 0
	g.rally = 0
	g.longestRally = 0
	g.record = nil
	g.matchID = uuid.NewString()

	// First serve goes to a random side
	first := core.Player1
	if g.rng.Intn(2) == 1 {
		first = core.Player2
	}
	g.scheduleServe(first)
}

// aiSides lists the sides driven by the AI in this mode.
func (g *Game) aiSides() []core.PlayerID {
	switch g.mode {
	case ModeVersus:
		return nil
	case ModeDemo:
		return []core.PlayerID{core.Player1, core.Player2}
	default:
		return []core.PlayerID{core.Player2}
	}
}

// humanSides lists the keyboard-driven sides in this mode.
func (g *Game) humanSides() []core.PlayerID {
	switch g.mode {
	case ModeVersus:
		return []core.PlayerID{core.Player1, core.Player2}
	case ModeDemo:
		return nil
	default:
		return []core.PlayerID{core.Player1}
	}
}

// scheduleServe parks the ball and queues a serve toward receiver.
// Ball speed effects end with the rally.
func (g *Game) scheduleServe(receiver core.PlayerID) {
	g.serving = true
	g.ball.Park(g.field.CenterX(), g.field.CenterY())
	if g.powerups != nil {
		g.powerups.DropBallEffects()
	}
	g.timers.CancelNamed(serveTimer)
	g.timers.Schedule(serveTimer, g.cfg.Gameplay.ServeDelay, func() {
		g.serve(receiver)
	})
}

func (g *Game) serve(receiver core.PlayerID) {
	dir := 1
	if receiver == core.Player1 {
		dir = -1
	}
	speed := g.difficulty.Speed(g.cfg.Ball.BaseSpeed, g.score1+g.score2, g.tickCount)
	maxAngle := g.cfg.Ball.ServeAngle * math.Pi / 180
	angle := (g.rng.Float64()*2 - 1) * maxAngle

	g.ball.Reset(g.field.CenterX(), g.field.CenterY(), dir, speed, angle)
	g.serving = false
	g.rally = 0
	g.events = append(g.events, core.Event{Kind: core.EventServe, Player: receiver})
}

// Step advances the game by one tick.
func (g *Game) Step(in core.MultiInputFrame) core.StepResult {
	g.events = nil

	if g.gameOver {
		if in.Any(core.ActionRestart) {
			g.Reset(g.runtime)
		}
		return core.StepResult{State: g.State()}
	}

	if in.Any(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	dt := g.runtime.TickSeconds()
	g.tickCount++
	g.elapsed += dt

	g.applyInput(in, dt)
	g.timers.Advance(dt)

	g.moveBall(dt)

	for _, id := range g.aiSides() {
		if ai := g.ais[id]; ai != nil {
			ai.Update(dt)
		}
	}
	g.paddles.Left.Update(dt)
	g.paddles.Right.Update(dt)

	if !g.gameOver && !g.serving {
		g.events = append(g.events, g.powerups.Update(dt, g.ball, g.paddles)...)
	}

	return core.StepResult{State: g.State(), Events: g.events}
}

// moveBall advances the ball in substeps no longer than half the paddle's
// collision depth so a fast ball cannot tunnel through a paddle at low
// tick rates.
func (g *Game) moveBall(dt float64) {
	steps := g.ballSubsteps(dt)
	sub := dt / float64(steps)
	for range steps {
		scorer, bounced := g.ball.Update(sub)
		if bounced {
			g.events = append(g.events, core.Event{Kind: core.EventWallBounce})
		}
		if scorer != core.NoPlayer {
			g.pointScored(scorer)
			return
		}
		for _, p := range []*Paddle{g.paddles.Left, g.paddles.Right} {
			if g.ball.HandlePaddleCollision(p) {
				g.totalHits++
				g.rally++
				g.longestRally = max(g.longestRally, g.rally)
				g.events = append(g.events, core.Event{Kind: core.EventPaddleHit, Player: p.Side})
			}
		}
	}
}

const maxBallSubsteps = 64

func (g *Game) ballSubsteps(dt float64) int {
	depth := (g.paddles.Left.Width + 2*g.ball.Radius) / 2
	travel := math.Abs(g.ball.VX) * dt
	if depth <= 0 || travel <= depth {
		return 1
	}
	return min(int(math.Ceil(travel/depth)), maxBallSubsteps)
}

// applyInput steers keyboard paddles. Terminals report key repeats rather
// than key state, so each press holds the direction for keyHold seconds.
func (g *Game) applyInput(in core.MultiInputFrame, dt float64) {
	for _, id := range g.humanSides() {
		frame := in.Player(id)
		switch {
		case frame.Has(core.ActionUp):
			g.keyDir[id] = -1
			g.keyLeft[id] = keyHold
		case frame.Has(core.ActionDown):
			g.keyDir[id] = 1
			g.keyLeft[id] = keyHold
		default:
			g.keyLeft[id] -= dt
			if g.keyLeft[id] <= 0 {
				g.keyDir[id] = 0
			}
		}
		g.paddles.Get(id).SetDirection(g.keyDir[id])
	}
}

func (g *Game) pointScored(scorer core.PlayerID) {
	if scorer == core.Player1 {
		g.score1++
	} else {
		g.score2++
	}
	g.events = append(g.events, core.Event{Kind: core.EventScore, Player: scorer})
	g.logger.Debug("point", "scorer", scorer, "score", fmt.Sprintf("%d-%d", g.score1, g.score2), "rally", g.rally)

	if g.score1 >= g.cfg.Gameplay.WinScore || g.score2 >= g.cfg.Gameplay.WinScore {
		g.finish(scorer)
		return
	}
	g.scheduleServe(scorer.Opponent())
}

func (g *Game) finish(winner core.PlayerID) {
	g.gameOver = true
	g.winner = winner
	g.serving = false
	g.timers.Clear()
	g.ball.Park(g.field.CenterX(), g.field.CenterY())
	collected := g.powerups.Collected()
	g.powerups.Reset(g.paddles)

	g.record = &core.MatchRecord{
		MatchID:           g.matchID,
		GameMode:          string(g.mode),
		Difficulty:        g.difficultyLabel(),
		Player1Score:      g.score1,
		Player2Score:      g.score2,
		Winner:            winner.String(),
		GameDuration:      math.Round(g.elapsed*100) / 100,
		TotalHits:         g.totalHits,
		LongestRally:      g.longestRally,
		PowerUpsCollected: collected,
		PlayedAt:          time.Now().UTC(),
	}
	g.logger.Debug("match over", "match", g.matchID, "winner", winner, "hits", g.totalHits)
	g.events = append(g.events, core.Event{Kind: core.EventGameOver, Player: winner})
}

func (g *Game) difficultyLabel() string {
	if g.mode == ModeVersus {
		return string(g.preset)
	}
	return string(g.aiTier)
}

// MatchRecord returns the summary of a finished match.
func (g *Game) MatchRecord() (core.MatchRecord, bool) {
	if g.record == nil {
		return core.MatchRecord{}, false
	}
	return *g.record, true
}

// SetAIDifficulty changes the tier of every AI-controlled paddle.
func (g *Game) SetAIDifficulty(d AIDifficulty) error {
	if _, ok := ProfileFor(d); !ok {
		return fmt.Errorf("pong: unknown AI difficulty %q", d)
	}
	for _, ai := range g.ais {
		if err := ai.SetDifficulty(d); err != nil {
			return err
		}
	}
	g.aiTier = d
	return nil
}

// Ball returns the ball in play.
func (g *Game) Ball() *Ball {
	return g.ball
}

// Paddles returns both paddles.
func (g *Game) Paddles() Paddles {
	return g.paddles
}

// AI returns the controller for a side, or nil for a keyboard side.
func (g *Game) AI(id core.PlayerID) *AIController {
	return g.ais[id]
}

// PowerUps returns the power-up manager.
func (g *Game) PowerUps() *PowerUpManager {
	return g.powerups
}

// Serving reports whether the ball is waiting for the serve timer.
func (g *Game) Serving() bool {
	return g.serving
}

// PendingTimers returns the number of deferred actions queued.
func (g *Game) PendingTimers() int {
	return g.timers.Pending()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score1,
		Score2:   g.score2,
		Winner:   g.winner,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Register each mode with the registry
func init() {
	for _, m := range []Mode{ModeCPU, ModeVersus, ModeDemo} {
		registry.Register(m.ID(), modeTitle(m), func(env registry.Env) (registry.Game, error) {
			g, err := New(m, env)
			if err != nil {
				return nil, err
			}
			return g, nil
		})
	}
}

package pong

import (
	"math/rand"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// PowerUpType represents the kinds of pickup that can spawn.
type PowerUpType int

const (
	PowerUpGrow   PowerUpType = iota // Enlarge the beneficiary's paddle
	PowerUpShrink                    // Shrink the opponent's paddle
	PowerUpSpeed                     // Speed up the ball
	PowerUpSlow                      // Slow down the ball
	powerUpCount
)

// String returns the config key for the type.
func (t PowerUpType) String() string {
	switch t {
	case PowerUpGrow:
		return "grow"
	case PowerUpShrink:
		return "shrink"
	case PowerUpSpeed:
		return "speed"
	case PowerUpSlow:
		return "slow"
	default:
		return "unknown"
	}
}

// Glyph returns the display character for a pickup type.
func (t PowerUpType) Glyph() rune {
	switch t {
	case PowerUpGrow:
		return '+'
	case PowerUpShrink:
		return '-'
	case PowerUpSpeed:
		return '»'
	case PowerUpSlow:
		return '«'
	default:
		return '?'
	}
}

// Color returns the render color for a pickup type.
func (t PowerUpType) Color() core.Color {
	switch t {
	case PowerUpGrow:
		return core.ColorGreen
	case PowerUpShrink:
		return core.ColorRed
	case PowerUpSpeed:
		return core.ColorOrange
	case PowerUpSlow:
		return core.ColorCyan
	default:
		return core.ColorDefault
	}
}

func (t PowerUpType) affectsPaddle() bool {
	return t == PowerUpGrow || t == PowerUpShrink
}

// PowerUp is a pickup waiting on the field.
type PowerUp struct {
	Type   PowerUpType
	X, Y   float64
	Radius float64
	Life   float64 // Seconds until it vanishes uncollected
}

// ActiveEffect is a collected power-up still in force.
type ActiveEffect struct {
	Type          PowerUpType
	Target        core.PlayerID // Paddle owner; NoPlayer for ball effects
	Remaining     float64
	RestoreHeight float64 // Paddle height before the effect, for size effects
}

// Paddles groups both paddles for lookup by side.
type Paddles struct {
	Left  *Paddle
	Right *Paddle
}

// Get returns the paddle owned by id, or nil.
func (ps Paddles) Get(id core.PlayerID) *Paddle {
	switch id {
	case core.Player1:
		return ps.Left
	case core.Player2:
		return ps.Right
	default:
		return nil
	}
}

// PowerUpManager spawns pickups, detects collection and tracks active effects.
type PowerUpManager struct {
	cfg   config.PongPowerUps
	field core.Playfield
	rng   *rand.Rand

	spawnTimer float64
	pickups    []PowerUp
	effects    []ActiveEffect
	collected  int
}

// NewPowerUpManager creates a manager with its first spawn already scheduled.
func NewPowerUpManager(cfg config.PongPowerUps, field core.Playfield, rng *rand.Rand) *PowerUpManager {
	m := &PowerUpManager{cfg: cfg, field: field, rng: rng}
	m.spawnTimer = m.nextInterval()
	return m
}

// Pickups returns the pickups currently on the field.
func (m *PowerUpManager) Pickups() []PowerUp {
	return m.pickups
}

// Effects returns the effects currently in force.
func (m *PowerUpManager) Effects() []ActiveEffect {
	return m.effects
}

// Collected returns how many pickups have been collected since Reset.
func (m *PowerUpManager) Collected() int {
	return m.collected
}

// Update ages effects and pickups, collects pickups touched by the ball and
// spawns new ones on the timer. Returns the events that happened.
func (m *PowerUpManager) Update(dt float64, ball *Ball, paddles Paddles) []core.Event {
	if !m.cfg.Enabled {
		return nil
	}
	var events []core.Event

	events = m.tickEffects(dt, paddles, events)
	events = m.agePickups(dt, events)
	if ball != nil {
		events = m.collect(ball, paddles, events)
	}

	m.spawnTimer -= dt
	if m.spawnTimer <= 0 {
		m.spawnTimer = m.nextInterval()
		if len(m.pickups) < m.cfg.MaxActive {
			p := m.spawn()
			events = append(events, core.Event{Kind: core.EventPowerUpSpawned, Detail: p.Type.String()})
		}
	}

	return events
}

func (m *PowerUpManager) tickEffects(dt float64, paddles Paddles, events []core.Event) []core.Event {
	kept := m.effects[:0]
	for _, e := range m.effects {
		e.Remaining -= dt
		if e.Remaining > 0 {
			kept = append(kept, e)
			continue
		}
		// Ball modifiers lapse on the ball's own timer.
		if e.Type.affectsPaddle() {
			if p := paddles.Get(e.Target); p != nil {
				p.SetHeight(e.RestoreHeight)
			}
		}
		events = append(events, core.Event{Kind: core.EventEffectEnded, Player: e.Target, Detail: e.Type.String()})
	}
	m.effects = kept
	return events
}

func (m *PowerUpManager) agePickups(dt float64, events []core.Event) []core.Event {
	kept := m.pickups[:0]
	for _, p := range m.pickups {
		p.Life -= dt
		if p.Life <= 0 {
			events = append(events, core.Event{Kind: core.EventPowerUpExpired, Detail: p.Type.String()})
			continue
		}
		kept = append(kept, p)
	}
	m.pickups = kept
	return events
}

func (m *PowerUpManager) collect(ball *Ball, paddles Paddles, events []core.Event) []core.Event {
	// The side the ball is heading toward benefits.
	var beneficiary core.PlayerID
	switch {
	case ball.VX > 0:
		beneficiary = core.Player2
	case ball.VX < 0:
		beneficiary = core.Player1
	default:
		return events
	}

	kept := m.pickups[:0]
	for _, p := range m.pickups {
		if !core.CirclesOverlap(ball.X, ball.Y, ball.Radius, p.X, p.Y, p.Radius) {
			kept = append(kept, p)
			continue
		}
		m.apply(p.Type, beneficiary, ball, paddles)
		m.collected++
		events = append(events, core.Event{Kind: core.EventPowerUpCollected, Player: beneficiary, Detail: p.Type.String()})
	}
	m.pickups = kept
	return events
}

func (m *PowerUpManager) apply(t PowerUpType, beneficiary core.PlayerID, ball *Ball, paddles Paddles) {
	duration := m.duration(t)

	switch t {
	case PowerUpGrow, PowerUpShrink:
		target := beneficiary
		factor := m.cfg.GrowFactor
		if t == PowerUpShrink {
			target = beneficiary.Opponent()
			factor = m.cfg.ShrinkFactor
		}
		p := paddles.Get(target)
		if p == nil {
			return
		}
		m.restorePaddle(target, p)
		restore := p.Height
		p.SetHeight(restore * factor)
		m.effects = append(m.effects, ActiveEffect{
			Type:          t,
			Target:        target,
			Remaining:     duration,
			RestoreHeight: restore,
		})

	case PowerUpSpeed, PowerUpSlow:
		mult := m.cfg.SpeedMultiplier
		if t == PowerUpSlow {
			mult = m.cfg.SlowMultiplier
		}
		m.DropBallEffects()
		ball.ApplySpeedModifier(mult, duration)
		m.effects = append(m.effects, ActiveEffect{
			Type:      t,
			Target:    core.NoPlayer,
			Remaining: duration,
		})
	}
}

// restorePaddle undoes any size effect on the paddle so a new one starts
// from the unmodified height.
func (m *PowerUpManager) restorePaddle(target core.PlayerID, p *Paddle) {
	kept := m.effects[:0]
	for _, e := range m.effects {
		if e.Type.affectsPaddle() && e.Target == target {
			p.SetHeight(e.RestoreHeight)
			continue
		}
		kept = append(kept, e)
	}
	m.effects = kept
}

// DropBallEffects forgets ball effects without emitting events. Used when
// the ball's modifier is replaced or cleared by a new serve.
func (m *PowerUpManager) DropBallEffects() {
	kept := m.effects[:0]
	for _, e := range m.effects {
		if !e.Type.affectsPaddle() {
			continue
		}
		kept = append(kept, e)
	}
	m.effects = kept
}

func (m *PowerUpManager) duration(t PowerUpType) float64 {
	if d, ok := m.cfg.Durations[t.String()]; ok && d > 0 {
		return d
	}
	return 5
}

func (m *PowerUpManager) spawn() PowerUp {
	p := PowerUp{
		Type:   m.pickType(),
		X:      m.field.Width * (0.3 + 0.4*m.rng.Float64()),
		Y:      m.cfg.Radius + m.rng.Float64()*(m.field.Height-2*m.cfg.Radius),
		Radius: m.cfg.Radius,
		Life:   m.cfg.Lifetime,
	}
	m.pickups = append(m.pickups, p)
	return p
}

// pickType draws a type weighted by the configured rarities. Types are
// walked in a fixed order so a seeded rng always yields the same sequence.
func (m *PowerUpManager) pickType() PowerUpType {
	total := 0
	for t := range powerUpCount {
		total += max(m.cfg.Weights[t.String()], 0)
	}
	if total <= 0 {
		return PowerUpGrow
	}

	r := m.rng.Intn(total)
	for t := range powerUpCount {
		w := max(m.cfg.Weights[t.String()], 0)
		if r < w {
			return t
		}
		r -= w
	}
	return PowerUpGrow
}

func (m *PowerUpManager) nextInterval() float64 {
	lo, hi := m.cfg.SpawnIntervalMin, m.cfg.SpawnIntervalMax
	if hi <= lo {
		return lo
	}
	return lo + m.rng.Float64()*(hi-lo)
}

// Reset restores every paddle effect and clears all pickups and effects.
func (m *PowerUpManager) Reset(paddles Paddles) {
	for _, e := range m.effects {
		if !e.Type.affectsPaddle() {
			continue
		}
		if p := paddles.Get(e.Target); p != nil {
			p.SetHeight(e.RestoreHeight)
		}
	}
	m.effects = m.effects[:0]
	m.pickups = m.pickups[:0]
	m.collected = 0
	m.spawnTimer = m.nextInterval()
}

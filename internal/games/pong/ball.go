package pong

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

// Ball is the puck in play. Speed is the nominal scalar speed; the actual
// velocity magnitude is Speed times the active speed modifier, clamped to
// [MinSpeed, MaxSpeed].
type Ball struct {
	X, Y   float64
	VX, VY float64
	Speed  float64
	Radius float64

	MinSpeed           float64
	MaxSpeed           float64
	SpeedIncrement     float64
	MaxBounceAngle     float64 // Radians
	MinHorizontalSpeed float64
	HitCooldown        float64

	field    core.Playfield
	cooldown float64

	modifier     float64
	modifierLeft float64

	scored core.PlayerID
}

// NewBall creates a ball at rest in the centre of the field.
func NewBall(cfg config.PongBall, field core.Playfield) *Ball {
	return &Ball{
		X:                  field.CenterX(),
		Y:                  field.CenterY(),
		Speed:              cfg.BaseSpeed,
		Radius:             cfg.Radius,
		MinSpeed:           cfg.MinSpeed,
		MaxSpeed:           cfg.MaxSpeed,
		SpeedIncrement:     cfg.SpeedIncrement,
		MaxBounceAngle:     cfg.MaxBounceAngle * math.Pi / 180,
		MinHorizontalSpeed: cfg.MinHorizontalSpeed,
		HitCooldown:        cfg.HitCooldown,
		field:              field,
		modifier:           1,
	}
}

// Reset re-serves the ball from (x, y) toward dir (-1 left, 1 right) at
// the given speed and angle (radians from horizontal). Clears the score
// latch, the cooldown and any speed modifier.
func (b *Ball) Reset(x, y float64, dir int, speed, angle float64) {
	b.X, b.Y = x, y
	b.Speed = core.ClampF(speed, b.MinSpeed, b.MaxSpeed)
	b.cooldown = 0
	b.modifier = 1
	b.modifierLeft = 0
	b.scored = core.NoPlayer

	d := 1.0
	if dir < 0 {
		d = -1
	}
	b.VX = d * b.Speed * math.Cos(angle)
	b.VY = b.Speed * math.Sin(angle)
}

// Park stops the ball in place until the next Reset and drops any
// speed modifier.
func (b *Ball) Park(x, y float64) {
	b.X, b.Y = x, y
	b.VX, b.VY = 0, 0
	b.modifier = 1
	b.modifierLeft = 0
}

// Moving reports whether the ball has a velocity.
func (b *Ball) Moving() bool {
	return b.VX != 0 || b.VY != 0
}

// ActualSpeed returns the magnitude of the velocity vector.
func (b *Ball) ActualSpeed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// EffectiveSpeed returns the speed the ball should be travelling at given
// its nominal speed and the active modifier.
func (b *Ball) EffectiveSpeed() float64 {
	return core.ClampF(b.Speed*b.modifier, b.MinSpeed, b.MaxSpeed)
}

// Modifier returns the active speed multiplier and its remaining time.
func (b *Ball) Modifier() (mult, remaining float64) {
	return b.modifier, b.modifierLeft
}

// Update advances the ball by dt. It bounces off the top and bottom walls
// and returns the player who scored when the centre leaves the field on
// the left or right. A goal is reported once until the next Reset.
// The second result is true when a wall bounce happened.
func (b *Ball) Update(dt float64) (core.PlayerID, bool) {
	if b.cooldown > 0 {
		b.cooldown = max(b.cooldown-dt, 0)
	}
	if b.modifierLeft > 0 {
		b.modifierLeft -= dt
		if b.modifierLeft <= 0 {
			b.modifierLeft = 0
			b.modifier = 1
			b.rescale(b.EffectiveSpeed())
		}
	}

	b.X += b.VX * dt
	b.Y += b.VY * dt

	bounced := false
	if b.Y-b.Radius < 0 {
		b.Y = b.Radius
		b.VY = math.Abs(b.VY)
		bounced = true
	} else if b.Y+b.Radius > b.field.Height {
		b.Y = b.field.Height - b.Radius
		b.VY = -math.Abs(b.VY)
		bounced = true
	}

	if b.scored != core.NoPlayer {
		return core.NoPlayer, bounced
	}
	switch {
	case b.X < 0:
		b.scored = core.Player2
		return core.Player2, bounced
	case b.X > b.field.Width:
		b.scored = core.Player1
		return core.Player1, bounced
	}
	return core.NoPlayer, bounced
}

// Scored returns the latched scorer, or NoPlayer while the rally is live.
func (b *Ball) Scored() core.PlayerID {
	return b.scored
}

// HandlePaddleCollision reflects the ball off p if they overlap.
// The outgoing angle is proportional to where the ball struck the paddle,
// the nominal speed grows by SpeedIncrement up to MaxSpeed and the
// horizontal component never drops below MinHorizontalSpeed.
// Returns true if a hit was registered.
func (b *Ball) HandlePaddleCollision(p *Paddle) bool {
	if p == nil || b.cooldown > 0 || b.scored != core.NoPlayer {
		return false
	}
	if !core.CircleIntersectsBox(b.X, b.Y, b.Radius, p.Box()) {
		return false
	}

	// Outgoing direction points away from the paddle's side of the field.
	dir := 1.0
	if p.Side == core.Player2 {
		dir = -1
	}
	if b.VX*dir > 0 {
		return false // Already leaving
	}

	angle := p.RelativeHitPosition(b.Y) * b.MaxBounceAngle
	b.Speed = min(b.Speed+b.SpeedIncrement, b.MaxSpeed)
	speed := b.EffectiveSpeed()

	b.VX = dir * speed * math.Cos(angle)
	b.VY = speed * math.Sin(angle)

	minH := min(b.MinHorizontalSpeed, speed)
	if math.Abs(b.VX) < minH {
		b.VX = dir * minH
		vySign := core.Sign(b.VY)
		if vySign == 0 {
			vySign = 1
		}
		b.VY = vySign * math.Sqrt(max(speed*speed-minH*minH, 0))
	}

	if dir > 0 {
		b.X = p.X + p.Width + b.Radius
	} else {
		b.X = p.X - b.Radius
	}
	b.cooldown = b.HitCooldown
	return true
}

// ApplySpeedModifier scales the ball's speed by mult for duration seconds.
// A new modifier replaces the current one. When it lapses the ball returns
// to its nominal speed.
func (b *Ball) ApplySpeedModifier(mult, duration float64) {
	if mult <= 0 || duration <= 0 {
		return
	}
	b.modifier = mult
	b.modifierLeft = duration
	b.rescale(b.EffectiveSpeed())
}

// rescale keeps the direction of travel and sets the magnitude.
func (b *Ball) rescale(speed float64) {
	cur := b.ActualSpeed()
	if cur == 0 {
		return
	}
	k := speed / cur
	b.VX *= k
	b.VY *= k
}

package pong

import (
	"math"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Paddle is one player's bat. X is fixed; Y is the top edge and always
// stays within [0, fieldHeight-Height].
type Paddle struct {
	Side     core.PlayerID
	X        float64
	Y        float64
	Width    float64
	Height   float64
	VY       float64
	Speed    float64 // Keyboard speed, pixels per second
	DeadZone float64

	originalHeight float64
	fieldHeight    float64

	target    float64
	hasTarget bool
}

// NewPaddle creates a paddle vertically centred in a field of the given height.
func NewPaddle(side core.PlayerID, x, width, height, speed, deadZone, fieldHeight float64) *Paddle {
	p := &Paddle{
		Side:           side,
		X:              x,
		Width:          width,
		Height:         height,
		Speed:          speed,
		DeadZone:       deadZone,
		originalHeight: height,
		fieldHeight:    fieldHeight,
	}
	p.Center()
	return p
}

// Center places the paddle in the middle of the field and stops it.
func (p *Paddle) Center() {
	p.Y = (p.fieldHeight - p.Height) / 2
	p.Stop()
}

// Stop clears any movement intent.
func (p *Paddle) Stop() {
	p.VY = 0
	p.hasTarget = false
}

// CenterY returns the vertical centre of the paddle.
func (p *Paddle) CenterY() float64 {
	return p.Y + p.Height/2
}

// Box returns the paddle's collision rectangle.
func (p *Paddle) Box() core.Box {
	return core.Box{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// MaxY returns the largest legal value of Y.
func (p *Paddle) MaxY() float64 {
	return max(p.fieldHeight-p.Height, 0)
}

// MoveTowards sets movement intent so the paddle centre approaches targetY.
// Inside the dead zone the paddle stops. Update never steps past the target,
// so calling this every tick with the same target settles without overshoot.
func (p *Paddle) MoveTowards(targetY, speed float64) {
	diff := targetY - p.CenterY()
	if math.Abs(diff) <= p.DeadZone {
		p.Stop()
		return
	}
	p.target = targetY
	p.hasTarget = true
	p.VY = core.Sign(diff) * math.Abs(speed)
}

// SetDirection drives the paddle from keyboard input: -1 up, 1 down, 0 stop.
func (p *Paddle) SetDirection(dir int) {
	p.hasTarget = false
	switch {
	case dir < 0:
		p.VY = -p.Speed
	case dir > 0:
		p.VY = p.Speed
	default:
		p.VY = 0
	}
}

// Update integrates velocity and clamps to the field, zeroing VY at a clamp.
func (p *Paddle) Update(dt float64) {
	if p.VY == 0 {
		return
	}

	step := p.VY * dt
	if p.hasTarget {
		remaining := p.target - p.CenterY()
		if math.Abs(step) >= math.Abs(remaining) {
			step = remaining
			p.VY = 0
			p.hasTarget = false
		}
	}

	p.Y += step
	p.clamp()
}

func (p *Paddle) clamp() {
	maxY := p.MaxY()
	if p.Y < 0 {
		p.Y = 0
		p.Stop()
	} else if p.Y > maxY {
		p.Y = maxY
		p.Stop()
	}
}

// RelativeHitPosition maps ballY onto [-1, 1]: -1 at the top edge,
// 0 at the centre, 1 at the bottom edge.
func (p *Paddle) RelativeHitPosition(ballY float64) float64 {
	if p.Height <= 0 {
		return 0
	}
	return core.ClampF((ballY-p.CenterY())/(p.Height/2), -1, 1)
}

// SetHeight resizes the paddle around its centre and re-clamps it.
// Callers that intend to undo the change must record Height first.
func (p *Paddle) SetHeight(h float64) {
	h = core.ClampF(h, 1, p.fieldHeight)
	cy := p.CenterY()
	p.Height = h
	p.Y = cy - h/2
	p.clamp()
}

// ResetSize restores the height the paddle was created with.
func (p *Paddle) ResetSize() {
	p.SetHeight(p.originalHeight)
}

package pong

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
)

var testField = core.Playfield{Width: 800, Height: 600}

func newTestBall() *Ball {
	return NewBall(config.DefaultPongConfig().Ball, testField)
}

func TestBallScoresOnceOnLeftEdge(t *testing.T) {
	b := newTestBall()
	b.X, b.Y = 0, 100
	b.VX, b.VY = -5, 0

	scorer, _ := b.Update(1.0 / 60)
	assert.Equal(t, core.Player2, scorer)

	for range 10 {
		scorer, _ = b.Update(1.0 / 60)
		assert.Equal(t, core.NoPlayer, scorer, "goal must be reported once")
	}
	assert.Equal(t, core.Player2, b.Scored())

	b.Reset(400, 300, 1, 360, 0)
	assert.Equal(t, core.NoPlayer, b.Scored(), "Reset should clear the latch")
}

func TestBallScoresOnRightEdge(t *testing.T) {
	b := newTestBall()
	b.X, b.Y = 799, 300
	b.VX, b.VY = 360, 0

	scorer, _ := b.Update(1.0 / 60)
	assert.Equal(t, core.Player1, scorer)
}

func TestBallWallBounce(t *testing.T) {
	b := newTestBall()
	b.Reset(400, 10, 1, 360, 0)
	b.VY = -300

	_, bounced := b.Update(1.0 / 60)
	require.True(t, bounced)
	assert.Equal(t, b.Radius, b.Y)
	assert.Greater(t, b.VY, 0.0)

	b.Y = 595
	b.VY = 300
	_, bounced = b.Update(1.0 / 60)
	require.True(t, bounced)
	assert.Equal(t, 600-b.Radius, b.Y)
	assert.Less(t, b.VY, 0.0)
}

func TestPaddleCollisionKeepsSpeedInBounds(t *testing.T) {
	for _, start := range []float64{240, 360, 880, 900} {
		for _, mult := range []float64{1, 0.5, 1.4} {
			for hit := -1.0; hit <= 1.0; hit += 0.25 {
				p := newTestPaddle()
				b := newTestBall()
				b.Reset(p.X+p.Width+b.Radius-1, p.CenterY()+hit*p.Height/2, -1, start, 0.1)
				b.ApplySpeedModifier(mult, 10)

				require.True(t, b.HandlePaddleCollision(p), "start=%v mult=%v hit=%v", start, mult, hit)

				speed := b.ActualSpeed()
				assert.GreaterOrEqual(t, speed, b.MinSpeed-1e-9)
				assert.LessOrEqual(t, speed, b.MaxSpeed+1e-9)
				assert.Greater(t, b.VX, 0.0, "ball should leave toward the right")
				assert.GreaterOrEqual(t, b.X-b.Radius, p.X+p.Width, "ball should sit outside the paddle")
			}
		}
	}
}

func TestPaddleCollisionAngleFollowsHitPosition(t *testing.T) {
	p := NewPaddle(core.Player2, 764, 12, 100, 420, 4, 600)
	b := newTestBall()
	b.Reset(p.X-b.Radius+1, p.CenterY(), 1, 360, 0)

	require.True(t, b.HandlePaddleCollision(p))
	assert.InDelta(t, 0, b.VY, 1e-9, "centre hit returns flat")
	assert.Less(t, b.VX, 0.0)
	assert.Equal(t, 390.0, b.Speed, "nominal speed should grow by the increment")

	b2 := newTestBall()
	b2.Reset(p.X-b2.Radius+1, p.Y+p.Height*0.75, 1, 360, 0)
	require.True(t, b2.HandlePaddleCollision(p))
	assert.Greater(t, b2.VY, 0.0, "lower half hit deflects downward")
}

func TestPaddleCollisionForcesMinimumHorizontalSpeed(t *testing.T) {
	p := newTestPaddle()
	b := newTestBall()
	b.MaxBounceAngle = 89 * math.Pi / 180
	b.Reset(p.X+p.Width+b.Radius-1, p.Y+p.Height, -1, 360, 0)

	require.True(t, b.HandlePaddleCollision(p))
	assert.InDelta(t, b.MinHorizontalSpeed, b.VX, 1e-9)
	assert.InDelta(t, 390, b.ActualSpeed(), 1e-9, "magnitude is preserved when vx is forced")
	assert.Greater(t, b.VY, 0.0)
}

func TestPaddleCollisionCooldown(t *testing.T) {
	p := newTestPaddle()
	b := newTestBall()
	b.Reset(p.X+p.Width+b.Radius-1, p.CenterY(), -1, 360, 0)
	require.True(t, b.HandlePaddleCollision(p))

	// Force it back into the paddle moving left again
	b.X = p.X + p.Width
	b.VX = -b.VX
	assert.False(t, b.HandlePaddleCollision(p), "hit during cooldown must be ignored")

	b.Park(p.X+p.Width, p.CenterY())
	b.Update(b.HitCooldown + 0.01)
	b.VX = -360
	assert.True(t, b.HandlePaddleCollision(p))
}

func TestPaddleCollisionIgnoresBallMovingAway(t *testing.T) {
	p := newTestPaddle()
	b := newTestBall()
	b.Reset(p.X+p.Width+b.Radius-1, p.CenterY(), 1, 360, 0)

	assert.False(t, b.HandlePaddleCollision(p))
}

func TestSpeedModifierLapses(t *testing.T) {
	b := newTestBall()
	b.Reset(400, 300, 1, 360, 0.2)

	b.ApplySpeedModifier(1.4, 1)
	assert.InDelta(t, 504, b.ActualSpeed(), 1e-9)

	for range 70 {
		b.Update(1.0 / 60)
	}
	mult, left := b.Modifier()
	assert.Equal(t, 1.0, mult)
	assert.Equal(t, 0.0, left)
	assert.InDelta(t, 360, b.ActualSpeed(), 1e-9)
}

// Package core provides fundamental types and utilities for the arcade platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an integer cell rectangle used for drawing on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned rectangle in playfield (logical pixel) space.
type Box struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 {
	return b.Y + b.H/2
}

// Intersects reports whether two boxes overlap. Touching edges do not count.
func (b Box) Intersects(other Box) bool {
	if b.X >= other.Right() || other.X >= b.Right() {
		return false
	}
	if b.Y >= other.Bottom() || other.Y >= b.Bottom() {
		return false
	}
	return true
}

// CircleIntersectsBox reports whether a circle at (cx, cy) with radius r
// overlaps the box. Uses the closest-point test.
func CircleIntersectsBox(cx, cy, r float64, b Box) bool {
	nx := ClampF(cx, b.X, b.Right())
	ny := ClampF(cy, b.Y, b.Bottom())
	dx := cx - nx
	dy := cy - ny
	return dx*dx+dy*dy <= r*r
}

// CirclesOverlap reports whether two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x1 - x2
	dy := y1 - y2
	rr := r1 + r2
	return dx*dx+dy*dy <= rr*rr
}

// Playfield is the bounded 2D area in which ball and paddle motion happens.
type Playfield struct {
	Width  float64
	Height float64
}

// CenterX returns the horizontal midpoint.
func (p Playfield) CenterX() float64 {
	return p.Width / 2
}

// CenterY returns the vertical midpoint.
func (p Playfield) CenterY() float64 {
	return p.Height / 2
}

// Fold mirrors y across the [0, Height] boundaries until it lies in range.
// It approximates the path of a bouncing ball for prediction purposes.
func (p Playfield) Fold(y float64) float64 {
	return FoldInto(y, 0, p.Height)
}

// FoldInto reflects v repeatedly across lo and hi until lo <= v <= hi.
func FoldInto(v, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return lo
	}
	// Reduce to one period first so huge overshoots stay cheap.
	period := 2 * span
	off := math.Mod(v-lo, period)
	if off < 0 {
		off += period
	}
	v = lo + off
	for v < lo || v > hi {
		if v > hi {
			v = 2*hi - v
		} else {
			v = 2*lo - v
		}
	}
	return v
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Sign returns -1, 0 or 1 following the sign of f.
func Sign(f float64) float64 {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

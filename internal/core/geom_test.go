package core

import (
	"math"
	"testing"
)

func TestBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{"overlapping", Box{0, 0, 10, 10}, Box{5, 5, 10, 10}, true},
		{"separate horizontal", Box{0, 0, 10, 10}, Box{15, 0, 10, 10}, false},
		{"separate vertical", Box{0, 0, 10, 10}, Box{0, 15, 10, 10}, false},
		{"touching edge", Box{0, 0, 10, 10}, Box{10, 0, 10, 10}, false},
		{"contained", Box{0, 0, 20, 20}, Box{5, 5, 5, 5}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCircleIntersectsBox(t *testing.T) {
	paddle := Box{X: 20, Y: 100, W: 12, H: 100}

	tests := []struct {
		name     string
		cx, cy   float64
		expected bool
	}{
		{"touching face", 40, 150, true},
		{"just outside face", 40.5, 150, false},
		{"corner hit", 36, 96, true},
		{"corner miss", 40, 92, false},
		{"inside", 25, 150, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CircleIntersectsBox(tc.cx, tc.cy, 8, paddle); got != tc.expected {
				t.Errorf("CircleIntersectsBox(%v, %v) = %v, expected %v", tc.cx, tc.cy, got, tc.expected)
			}
		})
	}
}

func TestCirclesOverlap(t *testing.T) {
	if !CirclesOverlap(0, 0, 5, 8, 0, 3) {
		t.Error("circles at exact touching distance should overlap")
	}
	if CirclesOverlap(0, 0, 5, 9, 0, 3) {
		t.Error("separate circles should not overlap")
	}
}

func TestFoldInto(t *testing.T) {
	tests := []struct {
		v, expected float64
	}{
		{50, 50},     // already inside
		{0, 0},       // at lower bound
		{100, 100},   // at upper bound
		{120, 80},    // one reflection off the top bound
		{-30, 30},    // one reflection off the lower bound
		{250, 50},    // two reflections
		{-250, 50},   // negative multi-period
		{1030, 30},   // many periods
		{-100, 100},  // lands exactly on bound
		{200, 0},     // exactly one period away from the bottom
		{399.5, 0.5}, // just short of two periods
	}

	for _, tc := range tests {
		got := FoldInto(tc.v, 0, 100)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("FoldInto(%v, 0, 100) = %v, expected %v", tc.v, got, tc.expected)
		}
	}
}

func TestFoldIntoDegenerateSpan(t *testing.T) {
	if got := FoldInto(42, 10, 10); got != 10 {
		t.Errorf("FoldInto with empty span = %v, expected 10", got)
	}
}

func TestPlayfieldFold(t *testing.T) {
	p := Playfield{Width: 800, Height: 600}
	if got := p.Fold(700); got != 500 {
		t.Errorf("Fold(700) = %v, expected 500", got)
	}
	if p.CenterX() != 400 || p.CenterY() != 300 {
		t.Errorf("center = (%v, %v), expected (400, 300)", p.CenterX(), p.CenterY())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestSignLerpAbs(t *testing.T) {
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(2) != 1 {
		t.Error("Sign returned unexpected values")
	}
	if Lerp(10, 20, 0.25) != 12.5 {
		t.Errorf("Lerp(10, 20, 0.25) = %v, expected 12.5", Lerp(10, 20, 0.25))
	}
	if Abs(-5) != 5 || Abs(5) != 5 || Abs(0) != 0 {
		t.Error("Abs returned unexpected values")
	}
}

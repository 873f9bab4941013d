// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// PongConfig contains all configuration for the Pong game.
// Distances are logical playfield pixels, speeds are pixels per second
// and durations are seconds.
type PongConfig struct {
	Field      PongField        `yaml:"field"`
	Ball       PongBall         `yaml:"ball"`
	Paddles    PongPaddles      `yaml:"paddles"`
	Gameplay   PongGameplay     `yaml:"gameplay"`
	PowerUps   PongPowerUps     `yaml:"powerups"`
	AI         PongAI           `yaml:"ai"`
	Sound      PongSound        `yaml:"sound"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PongField defines the logical playfield size.
type PongField struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PongBall defines ball physics.
type PongBall struct {
	Radius             float64 `yaml:"radius"`
	BaseSpeed          float64 `yaml:"base_speed"`
	MinSpeed           float64 `yaml:"min_speed"`
	MaxSpeed           float64 `yaml:"max_speed"`
	SpeedIncrement     float64 `yaml:"speed_increment"`      // Added on every paddle hit
	MaxBounceAngle     float64 `yaml:"max_bounce_angle"`     // Degrees
	MinHorizontalSpeed float64 `yaml:"min_horizontal_speed"` // Floor for |vx| after a paddle hit
	HitCooldown        float64 `yaml:"hit_cooldown"`
	ServeAngle         float64 `yaml:"serve_angle"` // Max random serve angle, degrees
}

// PongPaddles defines paddle geometry and motion.
type PongPaddles struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Offset   float64 `yaml:"offset"` // Distance from the side wall
	Speed    float64 `yaml:"speed"`
	DeadZone float64 `yaml:"dead_zone"`
}

// PongGameplay defines match rules.
type PongGameplay struct {
	WinScore     int     `yaml:"win_score"`
	ServeDelay   float64 `yaml:"serve_delay"`
	HistoryLimit int     `yaml:"history_limit"` // Stored match results to keep
}

// PongPowerUps defines power-up spawning and effects.
type PongPowerUps struct {
	Enabled          bool               `yaml:"enabled"`
	SpawnIntervalMin float64            `yaml:"spawn_interval_min"`
	SpawnIntervalMax float64            `yaml:"spawn_interval_max"`
	MaxActive        int                `yaml:"max_active"`
	Lifetime         float64            `yaml:"lifetime"`
	Radius           float64            `yaml:"radius"`
	Weights          map[string]int     `yaml:"weights"`
	Durations        map[string]float64 `yaml:"durations"`
	GrowFactor       float64            `yaml:"grow_factor"`
	ShrinkFactor     float64            `yaml:"shrink_factor"`
	SpeedMultiplier  float64            `yaml:"speed_multiplier"`
	SlowMultiplier   float64            `yaml:"slow_multiplier"`
}

// PongAI selects the default opponent tier.
type PongAI struct {
	Difficulty string `yaml:"difficulty"` // easy, medium, hard
}

// PongSound configures sound effects.
type PongSound struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`      // 0.0 - 1.0
	SamplesDir string  `yaml:"samples_dir"` // Optional directory of <effect>.wav files
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to serve speed at max difficulty
}

// Validate checks the config for values the simulation cannot run with.
func (c PongConfig) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Field.Width > 0 && c.Field.Height > 0, "field size must be positive")
	check(c.Ball.Radius > 0, "ball.radius must be positive")
	check(c.Ball.MinSpeed > 0, "ball.min_speed must be positive")
	check(c.Ball.MinSpeed <= c.Ball.BaseSpeed && c.Ball.BaseSpeed <= c.Ball.MaxSpeed,
		"ball speeds must satisfy min_speed <= base_speed <= max_speed")
	check(c.Ball.MinHorizontalSpeed > 0 && c.Ball.MinHorizontalSpeed <= c.Ball.MinSpeed,
		"ball.min_horizontal_speed must be in (0, min_speed]")
	check(c.Ball.MaxBounceAngle > 0 && c.Ball.MaxBounceAngle < 90, "ball.max_bounce_angle must be in (0, 90)")
	check(c.Paddles.Width > 0 && c.Paddles.Height > 0, "paddle size must be positive")
	check(c.Paddles.Height < c.Field.Height, "paddles.height must be smaller than field height")
	check(c.Paddles.Speed > 0, "paddles.speed must be positive")
	check(c.Paddles.DeadZone >= 0, "paddles.dead_zone must not be negative")
	check(c.Gameplay.WinScore > 0, "gameplay.win_score must be positive")
	check(c.Gameplay.HistoryLimit > 0, "gameplay.history_limit must be positive")

	if c.PowerUps.Enabled {
		pu := c.PowerUps
		check(pu.SpawnIntervalMin > 0 && pu.SpawnIntervalMin <= pu.SpawnIntervalMax,
			"powerups spawn interval must satisfy 0 < min <= max")
		check(pu.MaxActive > 0, "powerups.max_active must be positive")
		check(pu.Lifetime > 0, "powerups.lifetime must be positive")
		total := 0
		for name, w := range pu.Weights {
			check(w >= 0, "powerups.weights.%s must not be negative", name)
			total += w
		}
		check(total > 0, "powerups.weights must have a positive total")
		check(pu.GrowFactor > 1, "powerups.grow_factor must be greater than 1")
		check(pu.ShrinkFactor > 0 && pu.ShrinkFactor < 1, "powerups.shrink_factor must be in (0, 1)")
		check(pu.SpeedMultiplier > 1, "powerups.speed_multiplier must be greater than 1")
		check(pu.SlowMultiplier > 0 && pu.SlowMultiplier < 1, "powerups.slow_multiplier must be in (0, 1)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset normalizes user input into a preset. "medium" is accepted
// as an alias for normal; empty input yields normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "medium":
		return DifficultyNormal, nil
	case "easy":
		return DifficultyEasy, nil
	case "hard":
		return DifficultyHard, nil
	case "fixed":
		return DifficultyFixed, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

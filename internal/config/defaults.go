package config

import (
	_ "embed"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

// DefaultPongConfig returns the default Pong configuration.
// It mirrors defaults/pong.yaml and is used when the embedded file cannot be parsed.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Field: PongField{
			Width:  800,
			Height: 600,
		},
		Ball: PongBall{
			Radius:             8,
			BaseSpeed:          360,
			MinSpeed:           240,
			MaxSpeed:           900,
			SpeedIncrement:     30,
			MaxBounceAngle:     60,
			MinHorizontalSpeed: 180,
			HitCooldown:        0.1,
			ServeAngle:         20,
		},
		Paddles: PongPaddles{
			Width:    12,
			Height:   100,
			Offset:   24,
			Speed:    420,
			DeadZone: 4,
		},
		Gameplay: PongGameplay{
			WinScore:     7,
			ServeDelay:   1.0,
			HistoryLimit: 50,
		},
		PowerUps: PongPowerUps{
			Enabled:          true,
			SpawnIntervalMin: 6,
			SpawnIntervalMax: 10,
			MaxActive:        2,
			Lifetime:         8,
			Radius:           14,
			Weights: map[string]int{
				"grow":   35,
				"speed":  30,
				"shrink": 20,
				"slow":   15,
			},
			Durations: map[string]float64{
				"grow":   8,
				"shrink": 8,
				"speed":  5,
				"slow":   5,
			},
			GrowFactor:      1.5,
			ShrinkFactor:    0.6,
			SpeedMultiplier: 1.4,
			SlowMultiplier:  0.7,
		},
		AI: PongAI{
			Difficulty: "medium",
		},
		Sound: PongSound{
			Enabled: true,
			Volume:  0.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 36000, // 10 minutes at 60fps
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "pong":
		return defaultPongYAML
	default:
		return nil
	}
}

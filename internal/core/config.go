package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickSeconds returns the fixed simulation step in seconds.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int      // Player 1 score
	Score2   int      // Player 2 score
	Winner   PlayerID // Set once GameOver is true
	GameOver bool
	Paused   bool
}

// EventKind classifies things that happened during a tick.
type EventKind int

const (
	EventPaddleHit EventKind = iota
	EventWallBounce
	EventScore
	EventServe
	EventPowerUpSpawned
	EventPowerUpCollected
	EventPowerUpExpired
	EventEffectEnded
	EventGameOver
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventPaddleHit:
		return "paddle_hit"
	case EventWallBounce:
		return "wall_bounce"
	case EventScore:
		return "score"
	case EventServe:
		return "serve"
	case EventPowerUpSpawned:
		return "powerup_spawned"
	case EventPowerUpCollected:
		return "powerup_collected"
	case EventPowerUpExpired:
		return "powerup_expired"
	case EventEffectEnded:
		return "effect_ended"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a notable occurrence emitted by a game step.
// The platform uses events for sound and notifications.
type Event struct {
	Kind   EventKind
	Player PlayerID // Side the event concerns, if any
	Detail string   // Free-form detail (power-up type, etc.)
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}

package audio

import "github.com/vovakirdan/tui-pong/internal/core"

// Effect names a sound effect.
type Effect string

const (
	EffectPaddleHit  Effect = "paddle_hit"
	EffectWallBounce Effect = "wall_bounce"
	EffectScore      Effect = "score"
	EffectServe      Effect = "serve"
	EffectPowerUp    Effect = "powerup"
	EffectPowerDown  Effect = "powerdown"
	EffectGameOver   Effect = "game_over"
)

// AllEffects lists every effect, in the order samples are looked up.
var AllEffects = []Effect{
	EffectPaddleHit,
	EffectWallBounce,
	EffectScore,
	EffectServe,
	EffectPowerUp,
	EffectPowerDown,
	EffectGameOver,
}

// EffectFor maps a game event to its sound. Events without a sound
// return false.
func EffectFor(ev core.Event) (Effect, bool) {
	switch ev.Kind {
	case core.EventPaddleHit:
		return EffectPaddleHit, true
	case core.EventWallBounce:
		return EffectWallBounce, true
	case core.EventScore:
		return EffectScore, true
	case core.EventServe:
		return EffectServe, true
	case core.EventPowerUpCollected:
		return EffectPowerUp, true
	case core.EventEffectEnded:
		return EffectPowerDown, true
	case core.EventGameOver:
		return EffectGameOver, true
	default:
		return "", false
	}
}

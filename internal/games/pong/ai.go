package pong

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// AIDifficulty names an opponent tier.
type AIDifficulty string

const (
	AIEasy   AIDifficulty = "easy"
	AIMedium AIDifficulty = "medium"
	AIHard   AIDifficulty = "hard"
)

// AIProfile holds the tuning for one tier.
type AIProfile struct {
	ReactionTime    float64 // Seconds between target recomputations
	Accuracy        float64 // 0..1, higher shrinks the error offset
	PredictionDepth float64 // 0..1, weight of the folded intercept over the short-horizon guess
	MaxSpeed        float64 // Paddle speed cap, pixels per second
	ErrorFrequency  float64 // Chance that a redraw produces a non-zero error
	Aggression      float64 // 0..1, offset toward the paddle edge on approach
}

var aiProfiles = map[AIDifficulty]AIProfile{
	AIEasy: {
		ReactionTime:    0.30,
		Accuracy:        0.60,
		PredictionDepth: 0.40,
		MaxSpeed:        260,
		ErrorFrequency:  0.70,
		Aggression:      0.10,
	},
	AIMedium: {
		ReactionTime:    0.18,
		Accuracy:        0.80,
		PredictionDepth: 0.70,
		MaxSpeed:        380,
		ErrorFrequency:  0.40,
		Aggression:      0.25,
	},
	AIHard: {
		ReactionTime:    0.08,
		Accuracy:        0.95,
		PredictionDepth: 0.95,
		MaxSpeed:        520,
		ErrorFrequency:  0.15,
		Aggression:      0.40,
	},
}

// ProfileFor returns the tuning table entry for a tier.
func ProfileFor(d AIDifficulty) (AIProfile, bool) {
	p, ok := aiProfiles[d]
	return p, ok
}

// ParseAIDifficulty accepts a tier name in any case.
func ParseAIDifficulty(s string) (AIDifficulty, error) {
	d := AIDifficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := aiProfiles[d]; !ok {
		return "", fmt.Errorf("pong: unknown AI difficulty %q", s)
	}
	return d, nil
}

const (
	errorRedrawMin   = 1.0
	errorRedrawMax   = 3.0
	errorScale       = 120.0 // Pixels of offset at zero accuracy
	fallbackHorizon  = 0.25  // Seconds of straight-line lookahead for the fallback guess
	defensivePull    = 0.5   // Share of the way back to centre when the ball moves away
	urgencyDistance  = 150.0 // Distance at which the AI moves at full speed
	minUrgencyFactor = 0.35
)

// AIController drives one paddle from the ball's state.
// It is a timer-driven loop: every ReactionTime it recomputes the target,
// and every tick it steers the paddle toward the last target.
type AIController struct {
	ball   *Ball
	paddle *Paddle
	field  core.Playfield
	rng    *rand.Rand

	difficulty AIDifficulty
	profile    AIProfile

	targetY       float64
	reactionTimer float64
	errorOffset   float64
	errorTimer    float64
}

// NewAIController creates a controller at the given tier.
// The rng is owned by the caller so whole matches stay deterministic.
func NewAIController(d AIDifficulty, field core.Playfield, rng *rand.Rand) (*AIController, error) {
	ai := &AIController{field: field, rng: rng, targetY: field.CenterY()}
	if err := ai.SetDifficulty(d); err != nil {
		return nil, err
	}
	return ai, nil
}

// SetBall attaches the ball to track.
func (ai *AIController) SetBall(b *Ball) {
	ai.ball = b
}

// SetPaddle attaches the paddle to drive.
func (ai *AIController) SetPaddle(p *Paddle) {
	ai.paddle = p
	if p != nil {
		ai.targetY = p.CenterY()
	}
}

// SetDifficulty swaps the whole profile at once. Unknown tiers leave the
// controller untouched.
func (ai *AIController) SetDifficulty(d AIDifficulty) error {
	p, ok := aiProfiles[d]
	if !ok {
		return fmt.Errorf("pong: unknown AI difficulty %q", d)
	}
	ai.difficulty = d
	ai.profile = p
	ai.reactionTimer = 0
	ai.errorOffset = 0
	ai.errorTimer = 0
	return nil
}

// Difficulty returns the current tier.
func (ai *AIController) Difficulty() AIDifficulty {
	return ai.difficulty
}

// Profile returns the active tuning.
func (ai *AIController) Profile() AIProfile {
	return ai.profile
}

// TargetY returns the most recently computed target for the paddle centre.
func (ai *AIController) TargetY() float64 {
	if ai.paddle == nil {
		return ai.targetY
	}
	return ai.clampTarget(ai.targetY)
}

// Update advances the controller's timers and steers the paddle.
// It does nothing until both a ball and a paddle are attached.
func (ai *AIController) Update(dt float64) {
	if ai.ball == nil || ai.paddle == nil {
		return
	}

	ai.errorTimer -= dt
	if ai.errorTimer <= 0 {
		ai.redrawError()
	}

	ai.reactionTimer -= dt
	if ai.reactionTimer <= 0 {
		ai.reactionTimer += ai.profile.ReactionTime
		if ai.reactionTimer <= 0 {
			ai.reactionTimer = ai.profile.ReactionTime
		}
		ai.targetY = ai.computeTarget()
	}
	// The paddle may have been resized since the last recompute.
	ai.targetY = ai.clampTarget(ai.targetY)

	distance := math.Abs(ai.targetY - ai.paddle.CenterY())
	urgency := core.ClampF(distance/urgencyDistance, minUrgencyFactor, 1)
	ai.paddle.MoveTowards(ai.targetY, ai.profile.MaxSpeed*urgency)
}

func (ai *AIController) redrawError() {
	ai.errorTimer = errorRedrawMin + ai.rng.Float64()*(errorRedrawMax-errorRedrawMin)
	if ai.rng.Float64() >= ai.profile.ErrorFrequency {
		ai.errorOffset = 0
		return
	}
	ai.errorOffset = (ai.rng.Float64()*2 - 1) * (1 - ai.profile.Accuracy) * errorScale
}

// computeTarget predicts where the paddle centre should be.
func (ai *AIController) computeTarget() float64 {
	b := ai.ball
	p := ai.paddle
	center := ai.field.CenterY()

	faceX := p.X
	if p.Side == core.Player1 {
		faceX = p.X + p.Width
	}
	approaching := (faceX-b.X)*b.VX > 0

	var target float64
	if approaching {
		t := (faceX - b.X) / b.VX
		intercept := ai.field.Fold(b.Y + b.VY*t)
		shortHorizon := ai.field.Fold(b.Y + b.VY*min(t, fallbackHorizon))
		target = core.Lerp(shortHorizon, intercept, ai.profile.PredictionDepth)

		// Aim slightly off-centre to return the ball at an angle.
		edge := core.Sign(intercept - center)
		target -= edge * ai.profile.Aggression * p.Height / 2
	} else {
		target = core.Lerp(p.CenterY(), center, defensivePull)
	}

	target += ai.errorOffset
	return ai.clampTarget(target)
}

func (ai *AIController) clampTarget(y float64) float64 {
	half := ai.paddle.Height / 2
	return core.ClampF(y, half, ai.field.Height-half)
}

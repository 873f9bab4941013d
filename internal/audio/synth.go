// Package audio turns game events into short sound effects.
// Effects are synthesized with beep generators unless a WAV sample bank
// provides a recording. Output goes to an optional Sink; without one the
// manager stays silent.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate every effect is rendered at.
const SampleRate = beep.SampleRate(44100)

// Wave selects an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
)

// tone is a finite oscillator with a linear attack/release envelope.
type tone struct {
	freq    float64
	wave    Wave
	rate    beep.SampleRate
	phase   float64
	pos     int
	total   int
	attack  int
	release int
}

// Tone returns a streamer playing freq for d with short fades at both ends.
func Tone(freq float64, d time.Duration, wave Wave) beep.Streamer {
	total := SampleRate.N(d)
	return &tone{
		freq:    freq,
		wave:    wave,
		rate:    SampleRate,
		total:   total,
		attack:  min(SampleRate.N(5*time.Millisecond), total/4),
		release: min(SampleRate.N(30*time.Millisecond), total/2),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var val float64
		switch t.wave {
		case WaveSquare:
			if t.phase < 0.5 {
				val = 0.6
			} else {
				val = -0.6
			}
		case WaveTriangle:
			val = 4*math.Abs(t.phase-0.5) - 1
		default:
			val = math.Sin(2 * math.Pi * t.phase)
		}
		val *= t.envelope()

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) envelope() float64 {
	if t.attack > 0 && t.pos < t.attack {
		return float64(t.pos) / float64(t.attack)
	}
	if left := t.total - t.pos; t.release > 0 && left < t.release {
		return float64(left) / float64(t.release)
	}
	return 1
}

func (t *tone) Err() error { return nil }

// withVolume scales a streamer linearly; zero or less mutes it.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Synthesize builds the fallback sound for an effect.
func Synthesize(e Effect) beep.Streamer {
	switch e {
	case EffectPaddleHit:
		return Tone(440, 60*time.Millisecond, WaveSquare)
	case EffectWallBounce:
		return Tone(220, 45*time.Millisecond, WaveSquare)
	case EffectScore:
		return beep.Seq(
			Tone(523.25, 90*time.Millisecond, WaveTriangle),
			Tone(392, 160*time.Millisecond, WaveTriangle),
		)
	case EffectServe:
		return Tone(660, 40*time.Millisecond, WaveSine)
	case EffectPowerUp:
		return beep.Mix(
			withVolume(Tone(880, 140*time.Millisecond, WaveSine), 0.7),
			withVolume(Tone(1320, 140*time.Millisecond, WaveSine), 0.3),
		)
	case EffectPowerDown:
		return Tone(180, 120*time.Millisecond, WaveTriangle)
	case EffectGameOver:
		return beep.Seq(
			Tone(523.25, 120*time.Millisecond, WaveTriangle),
			Tone(659.25, 120*time.Millisecond, WaveTriangle),
			Tone(783.99, 260*time.Millisecond, WaveTriangle),
		)
	default:
		return beep.Silence(0)
	}
}

package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pong/internal/core"
)

type captureSink struct {
	played []beep.Streamer
}

func (c *captureSink) Play(s beep.Streamer) {
	c.played = append(c.played, s)
}

// drain streams s to the end and returns the number of samples and the peak.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for range 10000 {
		n, ok := s.Stream(buf)
		for i := range n {
			peak = max(peak, abs(buf[i][0]), abs(buf[i][1]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never finished")
	return 0, 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestToneLengthAndRange(t *testing.T) {
	n, peak := drain(t, Tone(440, 100*time.Millisecond, WaveSine))
	assert.Equal(t, SampleRate.N(100*time.Millisecond), n)
	assert.LessOrEqual(t, peak, 1.0+1e-9)
	assert.Positive(t, peak)
}

func TestSynthesizeEveryEffectIsFinite(t *testing.T) {
	for _, e := range AllEffects {
		n, peak := drain(t, Synthesize(e))
		assert.Positive(t, n, e)
		assert.LessOrEqual(t, peak, 1.0+1e-9, e)
	}
}

func TestEffectForEvents(t *testing.T) {
	tests := []struct {
		kind core.EventKind
		want Effect
		ok   bool
	}{
		{core.EventPaddleHit, EffectPaddleHit, true},
		{core.EventWallBounce, EffectWallBounce, true},
		{core.EventScore, EffectScore, true},
		{core.EventPowerUpCollected, EffectPowerUp, true},
		{core.EventGameOver, EffectGameOver, true},
		{core.EventPowerUpSpawned, "", false},
	}
	for _, tt := range tests {
		got, ok := EffectFor(core.Event{Kind: tt.kind})
		assert.Equal(t, tt.ok, ok, tt.kind.String())
		assert.Equal(t, tt.want, got, tt.kind.String())
	}
}

func TestManagerWithoutSinkIsMuted(t *testing.T) {
	m := NewManager(nil, nil, 0.5, nil)
	assert.True(t, m.Muted())
	assert.False(t, m.Toggle(), "cannot unmute without a sink")

	// Must not panic
	m.Play(EffectScore)
	m.HandleEvents([]core.Event{{Kind: core.EventScore}})

	var nilManager *Manager
	assert.True(t, nilManager.Muted())
	nilManager.HandleEvents([]core.Event{{Kind: core.EventScore}})
}

func TestManagerPlaysOncePerEffectPerTick(t *testing.T) {
	sink := &captureSink{}
	m := NewManager(sink, nil, 1, nil)

	m.HandleEvents([]core.Event{
		{Kind: core.EventWallBounce},
		{Kind: core.EventPaddleHit, Player: core.Player1},
		{Kind: core.EventPaddleHit, Player: core.Player2},
		{Kind: core.EventPowerUpSpawned},
	})
	assert.Len(t, sink.played, 2)

	assert.False(t, m.Toggle())
	m.Play(EffectScore)
	assert.Len(t, sink.played, 2, "muted manager must not play")

	assert.True(t, m.Toggle())
	m.Play(EffectScore)
	assert.Len(t, sink.played, 3)
}

func writeTestWAV(t *testing.T, path string, rate beep.SampleRate) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(rate.N(50*time.Millisecond), Tone(440, time.Second, WaveSine)), format))
}

func TestLoadBankUsesSamplesAndSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, filepath.Join(dir, "score.wav"), SampleRate)
	writeTestWAV(t, filepath.Join(dir, "paddle_hit.wav"), beep.SampleRate(22050))

	bank, err := LoadBank(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, bank.Len())
	assert.True(t, bank.Has(EffectScore))
	assert.True(t, bank.Has(EffectPaddleHit))
	assert.False(t, bank.Has(EffectGameOver))

	s, ok := bank.Streamer(EffectPaddleHit)
	require.True(t, ok)
	n, _ := drain(t, s)
	assert.InDelta(t, SampleRate.N(50*time.Millisecond), n, 20, "sample should be resampled to the output rate")

	sink := &captureSink{}
	m := NewManager(sink, bank, 1, nil)
	m.Play(EffectGameOver) // Falls back to synthesis
	m.Play(EffectScore)
	assert.Len(t, sink.played, 2)
}

func TestLoadBankRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "score.wav"), []byte("not a wav"), 0o644))

	_, err := LoadBank(dir)
	assert.Error(t, err)
}

func TestNilBankFallsBack(t *testing.T) {
	var b *Bank
	assert.False(t, b.Has(EffectScore))
	_, ok := b.Streamer(EffectScore)
	assert.False(t, ok)
	assert.Zero(t, b.Len())
}

package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Bank holds recorded samples keyed by effect, resampled to SampleRate.
type Bank struct {
	buffers map[Effect]*beep.Buffer
}

// LoadBank reads <effect>.wav files from dir. Missing files are skipped so
// the manager falls back to synthesized tones for them. A file that exists
// but cannot be decoded is an error.
func LoadBank(dir string) (*Bank, error) {
	b := &Bank{buffers: make(map[Effect]*beep.Buffer)}
	for _, e := range AllEffects {
		path := filepath.Join(dir, string(e)+".wav")
		buf, err := loadWAV(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		b.buffers[e] = buf
	}
	return b, nil
}

func loadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: cannot decode %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		src = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("audio: cannot read %s: %w", path, err)
	}
	return buf, nil
}

// Has reports whether a sample is loaded for the effect.
func (b *Bank) Has(e Effect) bool {
	if b == nil {
		return false
	}
	_, ok := b.buffers[e]
	return ok
}

// Streamer returns a fresh streamer over the effect's sample.
func (b *Bank) Streamer(e Effect) (beep.Streamer, bool) {
	if b == nil {
		return nil, false
	}
	buf, ok := b.buffers[e]
	if !ok {
		return nil, false
	}
	return buf.Streamer(0, buf.Len()), true
}

// Len returns the number of loaded samples.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.buffers)
}

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Sink is an audio output. Play must not block.
type Sink interface {
	Play(s beep.Streamer)
}

// SpeakerSink plays through the default audio device.
// Effects are added to a single mixer that stays attached to the speaker.
type SpeakerSink struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// NewSpeakerSink initializes the audio device. It fails on machines
// without a usable device; callers then run without a sink.
func NewSpeakerSink() (*SpeakerSink, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: cannot initialize speaker: %w", err)
	}
	s := &SpeakerSink{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

// Play mixes s into the output.
func (s *SpeakerSink) Play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (s *SpeakerSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
}

package audio

import (
	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Manager plays effects for game events. Both the sink and the bank are
// optional: a nil sink mutes the manager and a missing sample falls back
// to a synthesized tone.
type Manager struct {
	sink    Sink
	bank    *Bank
	volume  float64
	enabled bool
	logger  *log.Logger
}

// NewManager creates a manager. logger may be nil.
func NewManager(sink Sink, bank *Bank, volume float64, logger *log.Logger) *Manager {
	return &Manager{
		sink:    sink,
		bank:    bank,
		volume:  min(max(volume, 0), 1),
		enabled: sink != nil,
		logger:  logger,
	}
}

// Muted reports whether effects are currently dropped.
func (m *Manager) Muted() bool {
	return m == nil || m.sink == nil || !m.enabled
}

// SetEnabled turns playback on or off. It has no effect without a sink.
func (m *Manager) SetEnabled(enabled bool) {
	if m == nil {
		return
	}
	m.enabled = enabled && m.sink != nil
}

// Toggle flips playback and returns the new state.
func (m *Manager) Toggle() bool {
	m.SetEnabled(m.Muted())
	return !m.Muted()
}

// Play emits one effect.
func (m *Manager) Play(e Effect) {
	if m.Muted() {
		return
	}
	m.sink.Play(withVolume(m.source(e), m.volume))
}

func (m *Manager) source(e Effect) beep.Streamer {
	if s, ok := m.bank.Streamer(e); ok {
		return s
	}
	return Synthesize(e)
}

// HandleEvents plays the sounds for a tick's events. Several events of the
// same kind in one tick play once.
func (m *Manager) HandleEvents(events []core.Event) {
	if m.Muted() {
		return
	}
	played := make(map[Effect]bool, len(events))
	for _, ev := range events {
		e, ok := EffectFor(ev)
		if !ok || played[e] {
			continue
		}
		played[e] = true
		if m.logger != nil {
			m.logger.Debug("sound", "effect", e)
		}
		m.Play(e)
	}
}

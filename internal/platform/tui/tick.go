// Package tui runs Pong inside Bubble Tea, locally or over SSH.
// It owns the tick loop, key mapping, sound dispatch and result saving;
// games themselves never see Bubble Tea.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// noticeExpiredMsg clears a transient notice once it has been shown long enough.
type noticeExpiredMsg struct{ seq int }

// tickCmd returns a command that sends a tick after one simulation step.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func expireNotice(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

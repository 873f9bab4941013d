package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

// onlineServer runs a coordinator with two connected sessions.
func onlineServer(t *testing.T) (host, joiner *OnlineLink) {
	t.Helper()
	sessions := multiplayer.NewSessionRegistry()
	cfg := multiplayer.DefaultCoordinatorConfig()
	cfg.TickRate = 100
	coord := multiplayer.NewCoordinator(cfg, registry.Env{}, func(registry.Env) (registry.Game, error) {
		return &stubGame{id: "versus"}, nil
	}, sessions)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		coord.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	link := func(id string) *OnlineLink {
		s := multiplayer.NewChannelSession(multiplayer.SessionID(id), 1024)
		sessions.Register(s)
		t.Cleanup(s.Close)
		return &OnlineLink{Coordinator: coord, Session: s}
	}
	return link("host"), link("joiner")
}

// deliver feeds events to the model until one of type T has been applied.
func deliver[T multiplayer.SessionEvent](t *testing.T, m OnlineModel, link *OnlineLink) OnlineModel {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-link.Session.Events():
			next, _ := m.Update(evt)
			m = next.(OnlineModel)
			if _, ok := evt.(T); ok {
				return m
			}
		case <-deadline:
			var zero T
			t.Fatalf("no %T within deadline", zero)
			return m
		}
	}
}

func press(m OnlineModel, keys ...tea.KeyMsg) OnlineModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(OnlineModel)
	}
	return m
}

func typeCode(code string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(code))
	for _, r := range code {
		keys = append(keys, runeKey(r))
	}
	return keys
}

func TestOnlineHostAndJoinPlayMatch(t *testing.T) {
	hostLink, joinLink := onlineServer(t)
	host := NewOnlineModel(hostLink, "hard", 80, 24)
	joiner := NewOnlineModel(joinLink, "normal", 80, 24)

	host = press(host, runeKey('h'))
	host = deliver[multiplayer.LobbyCreatedEvent](t, host, hostLink)
	if host.State() != OnlineStateHosting || len(host.code) != joinCodeLength {
		t.Fatalf("state = %v code = %q, expected hosting with a code", host.State(), host.code)
	}
	if !strings.Contains(host.View(), host.code) {
		t.Error("host view should show the join code")
	}

	joiner = press(joiner, runeKey('j'))
	joiner = press(joiner, typeCode(strings.ToLower(host.code))...)
	if joiner.input != host.code {
		t.Fatalf("typed code = %q, expected %q", joiner.input, host.code)
	}
	joiner = press(joiner, tea.KeyMsg{Type: tea.KeyEnter})
	if joiner.State() != OnlineStateJoining {
		t.Fatalf("state = %v, expected joining", joiner.State())
	}

	host = deliver[multiplayer.MatchStartedEvent](t, host, hostLink)
	joiner = deliver[multiplayer.MatchStartedEvent](t, joiner, joinLink)
	if host.side != core.Player1 || joiner.side != core.Player2 {
		t.Fatalf("sides = %v/%v, expected player1/player2", host.side, joiner.side)
	}

	joiner = deliver[multiplayer.FrameEvent](t, joiner, joinLink)
	if !strings.Contains(joiner.View(), "You are RIGHT") {
		t.Errorf("joiner view should name its side: %q", joiner.View())
	}

	joiner = press(joiner, tea.KeyMsg{Type: tea.KeyEsc})
	if !joiner.BackToMenu() {
		t.Error("esc during a match should forfeit and leave")
	}

	host = deliver[multiplayer.MatchEndedEvent](t, host, hostLink)
	if host.State() != OnlineStateEnded {
		t.Fatalf("state = %v, expected ended", host.State())
	}
	view := host.View()
	if !strings.Contains(view, "You won") || !strings.Contains(view, "Opponent left") {
		t.Errorf("result view = %q", view)
	}
	host = press(host, tea.KeyMsg{Type: tea.KeyEnter})
	if !host.BackToMenu() {
		t.Error("any key after the match should return to the menu")
	}
}

func TestOnlineJoinUnknownCode(t *testing.T) {
	_, joinLink := onlineServer(t)
	m := NewOnlineModel(joinLink, "normal", 80, 24)

	m = press(m, runeKey('2'))
	m = press(m, typeCode("abc")...)
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != OnlineStateEnterCode {
		t.Fatalf("a short code must not be sent, state = %v", m.State())
	}

	m = press(m, typeCode("d-e!f9")...)
	if m.input != "ABCDEF" {
		t.Fatalf("input = %q, expected only letters and digits up to six", m.input)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = press(m, runeKey('9'), tea.KeyMsg{Type: tea.KeyEnter})

	m = deliver[multiplayer.LobbyErrorEvent](t, m, joinLink)
	if m.State() != OnlineStateEnterCode {
		t.Errorf("state = %v, expected code entry after a failed join", m.State())
	}
	if !strings.Contains(m.View(), "Lobby not found") {
		t.Error("view should show the join error")
	}
}

func TestSessionOpensOnlineLobby(t *testing.T) {
	hostLink, _ := onlineServer(t)
	s := NewSessionModel(registry.Env{}, testConfig(), Options{Online: hostLink})
	if !strings.Contains(s.View(), "Pong Online") {
		t.Fatal("SSH sessions should offer the online entry")
	}

	for range registry.List() {
		next, _ := s.Update(tea.KeyMsg{Type: tea.KeyDown})
		s = next.(SessionModel)
	}
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.view != viewOnline {
		t.Fatalf("view = %v, expected the online lobby", s.view)
	}

	next, _ = s.Update(runeKey('h'))
	s = next.(SessionModel)
	evt := <-hostLink.Session.Events()
	next, cmd := s.Update(evt)
	s = next.(SessionModel)
	if cmd == nil {
		t.Error("the event reader should be re-armed")
	}
	if s.online.State() != OnlineStateHosting {
		t.Fatalf("state = %v, expected hosting", s.online.State())
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.view != viewMenu {
		t.Errorf("view = %v, expected the menu after cancelling", s.view)
	}
}

func TestLocalSessionHasNoOnlineEntry(t *testing.T) {
	s := NewSessionModel(registry.Env{}, testConfig(), Options{})
	if strings.Contains(s.View(), "Pong Online") {
		t.Error("local sessions cannot reach the coordinator")
	}
}

package multiplayer

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

// Lobby is a hosted game waiting for an opponent.
type Lobby struct {
	Code       string
	Difficulty string
	Host       SessionHandle
	CreatedAt  time.Time

	width  int
	height int
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // Unjoined lobbies expire after this long
	CleanupPeriod time.Duration // How often expired lobbies are swept
	TickRate      int           // Match simulation rate (Hz)
	HistoryLimit  int           // Passed to the result saver
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		TickRate:      60,
		HistoryLimit:  50,
	}
}

// GameFactory builds the game for a new match.
type GameFactory func(env registry.Env) (registry.Game, error)

// ResultSaver persists finished matches.
type ResultSaver interface {
	SaveMatch(rec core.MatchRecord, limit int) (int64, error)
}

// Coordinator owns lobbies and running matches. Messages are handled on
// the Run goroutine; each match ticks on its own goroutine.
type Coordinator struct {
	config   CoordinatorConfig
	env      registry.Env
	factory  GameFactory
	sessions *SessionRegistry
	saver    ResultSaver
	logger   *log.Logger

	mu           sync.RWMutex
	lobbies      map[string]*Lobby
	matches      map[MatchID]*Match
	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgs chan Message
	done chan struct{}
	wg   sync.WaitGroup
}

// NewCoordinator creates a coordinator. Call Run to start it.
func NewCoordinator(cfg CoordinatorConfig, env registry.Env, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	return &Coordinator{
		config:       cfg,
		env:          env,
		factory:      factory,
		sessions:     sessions,
		logger:       env.Logger.WithPrefix("online"),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*Match),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgs:         make(chan Message, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver stores finished matches through saver.
func (c *Coordinator) SetResultSaver(saver ResultSaver) {
	c.saver = saver
}

// Send queues a message for the Run goroutine. It is a no-op once Run
// has returned.
func (c *Coordinator) Send(msg Message) {
	select {
	case c.msgs <- msg:
	case <-c.done:
	}
}

// Run handles messages until ctx is cancelled, then stops every running
// match and waits for them.
func (c *Coordinator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		close(c.done)
		c.wg.Wait()
	}()

	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-c.msgs:
			c.handle(ctx, msg)
		case now := <-ticker.C:
			c.expireLobbies(now)
		}
	}
}

func (c *Coordinator) handle(ctx context.Context, msg Message) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(ctx, m)
	case CancelLobbyMsg:
		c.closeLobbyOf(m.SessionID)
	case LeaveMatchMsg:
		if match := c.matchOf(m.SessionID); match != nil {
			match.Leave(m.SessionID)
		}
	case PlayerInputMsg:
		if match := c.matchOf(m.SessionID); match != nil {
			match.SendInput(match.SideOf(m.SessionID), m.Input)
		}
	case SessionDisconnectedMsg:
		c.closeLobbyOf(m.SessionID)
		if match := c.matchOf(m.SessionID); match != nil {
			match.Leave(m.SessionID)
		}
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	code := c.uniqueCode()
	c.lobbies[code] = &Lobby{
		Code:       code,
		Difficulty: msg.Difficulty,
		Host:       session,
		CreatedAt:  time.Now(),
		width:      msg.Width,
		height:     msg.Height,
	}
	c.sessionLobby[msg.SessionID] = code
	c.logger.Info("lobby created", "code", code, "host", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(ctx context.Context, msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, ok := c.lobbies[code]
	if !ok {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}

	delete(c.lobbies, code)
	delete(c.sessionLobby, lobby.Host.ID())

	env := c.env
	env.Difficulty = lobby.Difficulty
	game, err := c.factory(env)
	if err != nil {
		c.logger.Error("could not create game", "code", code, "err", err)
		for _, s := range []SessionHandle{lobby.Host, session} {
			s.Send(LobbyErrorEvent{Message: "Failed to create game"})
		}
		return
	}

	// Both players see the same frame, so it must fit the smaller terminal.
	// The last row is left for the side hint.
	runtime := core.RuntimeConfig{
		ScreenW:  max(min(lobby.width, msg.Width), 20),
		ScreenH:  max(min(lobby.height, msg.Height)-1, 10),
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}
	game.Reset(runtime)

	match := newMatch(MatchID(uuid.NewString()), code, game, [2]SessionHandle{lobby.Host, session}, runtime)
	c.matches[match.id] = match
	for _, s := range match.seats {
		c.sessionMatch[s.ID()] = match.id
	}
	for i, s := range match.seats {
		s.Send(MatchStartedEvent{MatchID: match.id, Code: code, Side: seatSide(i)})
	}
	c.logger.Info("match started", "match", match.id, "code", code,
		"player1", lobby.Host.ID(), "player2", session.ID())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if res, ok := match.Run(ctx); ok {
			c.finishMatch(match, res)
		}
	}()
}

func (c *Coordinator) finishMatch(match *Match, res MatchResult) {
	c.mu.Lock()
	delete(c.matches, match.id)
	for _, s := range match.seats {
		delete(c.sessionMatch, s.ID())
	}
	c.mu.Unlock()

	c.logger.Info("match finished", "match", match.id, "reason", res.Reason,
		"winner", res.Winner, "score", fmt.Sprintf("%d-%d", res.Score1, res.Score2))

	if res.Record != nil && c.saver != nil {
		if _, err := c.saver.SaveMatch(*res.Record, c.config.HistoryLimit); err != nil {
			c.logger.Error("could not save match", "match", match.id, "err", err)
		}
	}

	evt := MatchEndedEvent{
		MatchID: match.id,
		Reason:  res.Reason,
		Winner:  res.Winner,
		Score1:  res.Score1,
		Score2:  res.Score2,
	}
	for _, s := range match.seats {
		s.Send(evt)
	}
}

// closeLobbyOf removes the lobby the session is hosting, if any.
func (c *Coordinator) closeLobbyOf(id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, ok := c.sessionLobby[id]
	if !ok {
		return
	}
	delete(c.lobbies, code)
	delete(c.sessionLobby, id)
	c.logger.Info("lobby closed", "code", code)
}

func (c *Coordinator) matchOf(id SessionID) *Match {
	c.mu.RLock()
	defer c.mu.RUnlock()
	matchID, ok := c.sessionMatch[id]
	if !ok {
		return nil
	}
	return c.matches[matchID]
}

// busy reports whether the session hosts a lobby or plays a match.
// Caller holds c.mu.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

func (c *Coordinator) expireLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) <= c.config.LobbyTimeout {
			continue
		}
		lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
		delete(c.sessionLobby, lobby.Host.ID())
		delete(c.lobbies, code)
		c.logger.Info("lobby expired", "code", code)
	}
}

// uniqueCode returns a join code no open lobby uses. Caller holds c.mu.
func (c *Coordinator) uniqueCode() string {
	for {
		code := newJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// newJoinCode creates a 6-character code from the base32 alphabet.
func newJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

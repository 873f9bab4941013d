package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/games/pong"
	"github.com/vovakirdan/tui-pong/internal/multiplayer"
	"github.com/vovakirdan/tui-pong/internal/registry"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate for every session.
	TickRate int

	// HistoryLimit caps the stored match results.
	HistoryLimit int

	// LobbyTimeout closes online lobbies nobody joined.
	LobbyTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		IdleTimeout:  30 * time.Minute,
		TickRate:     60,
		HistoryLimit: storage.DefaultHistoryLimit,
		LobbyTimeout: multiplayer.DefaultCoordinatorConfig().LobbyTimeout,
	}
}

// SSHServer serves Pong sessions over SSH. Remote players have no local
// audio device, so sessions always run muted. All sessions share the
// results store and the coordinator that pairs them for online matches.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	env      registry.Env
	store    *storage.Store
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
	logger   *log.Logger
}

// NewSSHServer creates a server. store may be nil, in which case results
// are not recorded.
func NewSSHServer(cfg SSHServerConfig, env registry.Env, store *storage.Store) (*SSHServer, error) {
	env = env.WithDefaults()
	srv := &SSHServer{
		config:   cfg,
		env:      env,
		store:    store,
		sessions: multiplayer.NewSessionRegistry(),
		logger:   env.Logger.WithPrefix("ssh"),
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.TickRate
	coordCfg.HistoryLimit = cfg.HistoryLimit
	if cfg.LobbyTimeout > 0 {
		coordCfg.LobbyTimeout = cfg.LobbyTimeout
	}
	srv.coord = multiplayer.NewCoordinator(coordCfg, env, func(env registry.Env) (registry.Game, error) {
		return registry.Create(pong.IDVersus, env)
	}, srv.sessions)
	if store != nil {
		srv.coord.SetResultSaver(store)
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a session model for each SSH connection.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	logger := s.logger.With("user", sess.User())
	env := s.env
	env.Logger = logger

	online := multiplayer.NewChannelSession(multiplayer.SessionID(sess.User()+"-"+uuid.NewString()[:8]), 0)
	s.sessions.Register(online)
	go func() {
		<-sess.Context().Done()
		online.Close()
		s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: online.ID()})
		s.sessions.Unregister(online.ID())
	}()

	model := NewSessionModel(env, cfg, Options{
		Store:        s.store,
		Logger:       logger,
		HistoryLimit: s.config.HistoryLimit,
		Online:       &OnlineLink{Coordinator: s.coord, Session: online},
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully. A listener failure also ends Serve.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.coord.Run(ctx)
	})
	g.Go(func() error {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("tui: ssh server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pong/internal/audio"
	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

// newLogger creates the process logger at the configured level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "pong",
	}), nil
}

// fileLogger logs to --log-file so output does not corrupt the game screen.
// The returned closer must be called on exit.
func fileLogger() (*log.Logger, io.Closer, error) {
	path, err := expandHome(flagLogFile)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// runtimeConfig sizes the simulation to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the results database. Failure is not fatal: the game
// runs without history.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open results database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// newAudio builds the sound manager. Without a device, or with sound
// disabled, it returns a muted manager.
func newAudio(cfg config.PongSound, logger *log.Logger) (*audio.Manager, func()) {
	if !cfg.Enabled {
		return audio.NewManager(nil, nil, cfg.Volume, logger), func() {}
	}

	var bank *audio.Bank
	if cfg.SamplesDir != "" {
		dir, err := expandHome(cfg.SamplesDir)
		if err == nil {
			bank, err = audio.LoadBank(dir)
		}
		if err != nil {
			logger.Warn("could not load sound samples, using synthesized tones", "dir", cfg.SamplesDir, "err", err)
		}
	}

	sink, err := audio.NewSpeakerSink()
	if err != nil {
		logger.Warn("sound disabled", "err", err)
		return audio.NewManager(nil, bank, cfg.Volume, logger), func() {}
	}
	return audio.NewManager(sink, bank, cfg.Volume, logger), sink.Close
}

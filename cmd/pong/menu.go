package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/platform/tui"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a mode and difficulty interactively",
	Long: `Start in interactive menu mode.

Use Up/Down to pick a mode and Left/Right to pick a difficulty.
After a match you return to the menu. Tab opens the match history.
The last mode and difficulty are remembered.

Examples:
  pong menu
  pong menu --fps 30
  pong menu --db ./pong.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadPong(flagConfig)
	if err != nil {
		return err
	}

	logger, closer, err := fileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	sound, closeSound := newAudio(cfg.Sound, logger)
	defer closeSound()
	if flagMute {
		sound.SetEnabled(false)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	env := registry.Env{ConfigPath: flagConfig, Logger: logger}
	if err := tui.RunSession(env, runtimeConfig(), tui.Options{
		Audio:        sound,
		Store:        store,
		Logger:       logger,
		HistoryLimit: cfg.Gameplay.HistoryLimit,
	}); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}

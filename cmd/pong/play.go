package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/games/pong"
	"github.com/vovakirdan/tui-pong/internal/platform/tui"
	"github.com/vovakirdan/tui-pong/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagAI         string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play [cpu|versus|demo]",
	Short: "Play a match",
	Long: `Start a match in the given mode (default: cpu).

Modes:
  cpu     - You (left paddle) against the computer
  versus  - Two players on one keyboard
  demo    - Computer against computer

Controls:
  W/S        - Player 1 up/down
  Up/Down    - Player 2 in versus, Player 1 otherwise
  P/Space    - Pause
  M          - Toggle sound
  R          - Restart (after game over)
  Esc/B      - Leave (when paused or after game over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Slow serves, easy AI
  normal - Medium serves, medium AI
  hard   - Fast serves, hard AI
  fixed  - No progression, AI from the config file

Examples:
  pong play
  pong play versus
  pong play --difficulty hard
  pong play demo --ai hard
  pong play --config ./my-pong.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagAI, "ai", "", "Override the AI tier: easy, medium, hard")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with sound off")

	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with sound off")
}

func runPlay(_ *cobra.Command, args []string) error {
	mode := pong.ModeCPU
	if len(args) == 1 {
		m, err := pong.ParseMode(args[0])
		if err != nil {
			return err
		}
		mode = m
	}

	cfg, err := config.LoadPong(flagConfig)
	if err != nil {
		return err
	}

	logger, closer, err := fileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	env := registry.Env{
		ConfigPath: flagConfig,
		Difficulty: flagDifficulty,
		Logger:     logger,
	}
	game, err := registry.Create(mode.ID(), env)
	if err != nil {
		return err
	}

	if flagAI != "" {
		tier, err := pong.ParseAIDifficulty(flagAI)
		if err != nil {
			return err
		}
		pg, ok := game.(*pong.Game)
		if !ok {
			return errors.New("--ai is not supported by this game")
		}
		if err := pg.SetAIDifficulty(tier); err != nil {
			return err
		}
	}

	sound, closeSound := newAudio(cfg.Sound, logger)
	defer closeSound()
	if flagMute {
		sound.SetEnabled(false)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, runtimeConfig(), tui.Options{
		Audio:        sound,
		Store:        store,
		Logger:       logger,
		HistoryLimit: cfg.Gameplay.HistoryLimit,
	}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

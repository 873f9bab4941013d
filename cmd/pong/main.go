// pong is a terminal Pong with a scripted AI opponent and power-ups.
//
// Usage:
//
//	pong list                   - List available modes
//	pong play [cpu|versus|demo] - Play a match
//	pong menu                   - Pick a mode and difficulty interactively
//	pong serve                  - Start SSH server for remote play
//	pong scores [mode]          - Show recent match results
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.arcade/pong.db)
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Where logs go while the game owns the terminal
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register game modes
	_ "github.com/vovakirdan/tui-pong/internal/games/pong"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pong",
	Short: "Pong in your terminal",
	Long: `A terminal Pong with an AI opponent, local two-player matches,
an attract-mode demo and power-ups.

Available commands:
  list     - Show all modes
  play     - Play a match directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View recent match results

Examples:
  pong play
  pong play versus --difficulty hard
  pong menu
  pong serve --ssh :2222
  pong scores --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/pong.db", "Path to match results database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.arcade/pong.log", "Log file used while a game is running")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

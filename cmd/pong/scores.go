package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/games/pong"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresJSON  bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [cpu|versus|demo]",
	Short: "Show recent match results",
	Long: `Display the most recent match results for a mode (default: cpu).

Examples:
  pong scores
  pong scores versus --limit 5
  pong scores --json > history.json
  pong scores demo --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of matches to show")
	scoresCmd.Flags().BoolVar(&flagScoresJSON, "json", false, "Print results as JSON")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the stored results for the mode")
}

func runScores(_ *cobra.Command, args []string) error {
	mode := pong.ModeCPU
	if len(args) == 1 {
		m, err := pong.ParseMode(args[0])
		if err != nil {
			return err
		}
		mode = m
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearMatches(string(mode)); err != nil {
			return err
		}
		fmt.Printf("Cleared %s results.\n", mode)
		return nil
	}

	if flagScoresJSON {
		return store.ExportJSON(os.Stdout, string(mode), flagScoresLimit)
	}

	matches, err := store.RecentMatches(string(mode), flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Recent matches - %s\n\n", mode)
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'pong play %s' to play one!\n", mode)
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("Date", "Score", "Winner", "Difficulty", "Hits", "Rally", "Power-ups", "Time")
	for _, m := range matches {
		t.Row(
			m.PlayedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d-%d", m.Player1Score, m.Player2Score),
			m.Winner,
			m.Difficulty,
			strconv.Itoa(m.TotalHits),
			strconv.Itoa(m.LongestRally),
			strconv.Itoa(m.PowerUpsCollected),
			fmt.Sprintf("%.0fs", m.GameDuration),
		)
	}
	fmt.Println(t)

	stats, err := store.ModeStats(string(mode))
	if err == nil && stats.Matches > 0 {
		fmt.Println()
		fmt.Printf("Played: %d  Player 1 wins: %d  Player 2 wins: %d  Longest rally: %d\n",
			stats.Matches, stats.Player1Wins, stats.Player2Wins, stats.LongestRally)
	}
	return nil
}

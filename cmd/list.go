package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rinkstats/go-shift-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'shiftmetrics run' to process tracking exports.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-8s  %-8s  %10s  %10s  %8s  %8s\n",
		"GAME", "HOME", "AWAY", "INTERVALS", "SEQUENCES", "PAIRS", "COMBOS")
	fmt.Fprintf(os.Stdout, "%-8s  %-8s  %-8s  %10s  %10s  %8s  %8s\n",
		"────────", "────────", "────────", "──────────", "──────────", "────────", "────────")
	for _, g := range games {
		fmt.Fprintf(os.Stdout, "%-8d  %-8s  %-8s  %10d  %10d  %8d  %8d\n",
			g.GameID, g.HomeTeamID, g.AwayTeamID, g.Intervals, g.Sequences, g.Pairs, g.Combos)
	}
	return nil
}

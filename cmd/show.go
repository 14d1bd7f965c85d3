package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rinkstats/go-shift-metrics/internal/report"
	"github.com/rinkstats/go-shift-metrics/internal/storage"
)

var showLimit int

var showCmd = &cobra.Command{
	Use:   "show <game id>",
	Short: "Show stored analytics for one game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 15, "max pair/combo rows to print (0 = all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid game id %q", args[0])
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGame(gameID)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No stored output for game %d\n", gameID)
		return nil
	}

	summaries, err := db.GetPlayerSummaries(gameID)
	if err != nil {
		return fmt.Errorf("get player summaries: %w", err)
	}
	pairs, err := db.GetPairOverlaps(gameID)
	if err != nil {
		return fmt.Errorf("get pair overlaps: %w", err)
	}
	combos, err := db.GetLineCombos(gameID)
	if err != nil {
		return fmt.Errorf("get line combos: %w", err)
	}

	report.PrintGameHeader(os.Stdout, *game)
	report.PrintPlayerSummaryTable(os.Stdout, summaries)
	report.PrintPairTable(os.Stdout, pairs, showLimit)
	report.PrintComboTable(os.Stdout, combos, showLimit)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/rinkstats/go-shift-metrics/internal/config"
	"github.com/rinkstats/go-shift-metrics/internal/ingest"
	"github.com/rinkstats/go-shift-metrics/internal/model"
	"github.com/rinkstats/go-shift-metrics/internal/pipeline"
	"github.com/rinkstats/go-shift-metrics/internal/report"
	"github.com/rinkstats/go-shift-metrics/internal/storage"
)

var runMode string

var runCmd = &cobra.Command{
	Use:   "run [game id...]",
	Short: "Process tracking exports into derived analytics tables",
	Long: `Process per-game tracking exports (shifts, events, roster) into the derived
star schema: player shift intervals, sequences/plays, H2H/WOWY pair overlaps,
and line combinations. With no arguments, all games discovered under --input
are processed.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", "full", "pipeline mode: full, segmentation-only, or overlap-only")
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, err := pipeline.ParseMode(runMode)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	store := ingest.New(inputPath)
	gameIDs, err := gameIDsFromArgs(store, args)
	if err != nil {
		return err
	}
	if len(gameIDs) == 0 {
		fmt.Fprintln(os.Stdout, "No games found. Expecting <input>/<game id>/{shifts,events,roster}.csv.")
		return nil
	}

	schedule, err := store.LoadSchedule()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if workers > 0 {
		cfg.MaxWorkers = workers
	}

	pipe, err := pipeline.New(cfg, schedule, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return errors.Wrap(err, "create db dir")
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer db.Close()

	summary := pipe.RunAll(store, gameIDs, mode, func(out *model.GameOutput) error {
		return db.WriteGame(out)
	})

	report.PrintRunSummary(os.Stdout, summary)

	if summary.GamesFailed > 0 {
		for _, f := range summary.Failures {
			fmt.Fprintf(os.Stderr, "game %d failed (%s): %s\n", f.GameID, f.Category, f.Message)
		}
		return errors.Newf("%d of %d games failed", summary.GamesFailed, len(gameIDs))
	}
	return nil
}

func gameIDsFromArgs(store *ingest.Store, args []string) ([]int, error) {
	if len(args) == 0 {
		return store.DiscoverGames()
	}
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.Newf("invalid game id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

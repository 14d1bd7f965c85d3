package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/rinkstats/go-shift-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  games(game_id, home_team_id, away_team_id, periods, period_seconds)
  player_shift_intervals(key, game_id, player_id, venue, slot, jersey_number,
    shift_index, period, logical_shift_number, shift_segment, duration_seconds,
    cumulative_toi, goal_for, goal_against, malformed, team_id, ...)
  player_game_summaries(key, game_id, player_id, venue, logical_shifts,
    toi_seconds, playing_seconds, goals_for, goals_against, team_id)
  sequences(key, game_id, sequence_number, event_count, has_shot, has_goal,
    has_zone_entry, start_seconds, end_seconds, duration_seconds, event_chain)
  plays(key, sequence_key, game_id, sequence_number, play_number, event_count, ...)
  pair_overlaps(key, game_id, player1_id, player2_id, relation, shifts_together,
    toi_together_seconds, total_p1_shifts, p1_shifts_without_p2, ...)
  line_combos(key, game_id, venue, forward_combo, defense_combo, shifts,
    toi_seconds, corsi_for, corsi_against, team_id)

Note: player_id is NULL on intervals whose jersey never resolved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

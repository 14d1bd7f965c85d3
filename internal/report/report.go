// Package report renders run summaries and per-game analytics as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/rinkstats/go-shift-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// fmtTOI renders seconds as M:SS.
func fmtTOI(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// PrintRunSummary prints the per-run outcome: games processed/failed and
// warning counts per category.
func PrintRunSummary(w io.Writer, s model.RunSummary) {
	fmt.Fprintf(w, "\nGames processed: %d  |  failed: %d\n", s.GamesProcessed, s.GamesFailed)
	fmt.Fprintf(w, "Warnings: missing-parent=%d  malformed-interval=%d  segmentation-gap=%d\n\n",
		s.Warnings.MissingParent, s.Warnings.MalformedInterval, s.Warnings.SegmentationGap)
}

// PrintGameHeader prints a one-line header for a stored game.
func PrintGameHeader(w io.Writer, g model.Game) {
	fmt.Fprintf(w, "\nGame %d  |  %s (home) vs %s (away)\n\n", g.ID, g.HomeTeamID, g.AwayTeamID)
}

// PrintPlayerSummaryTable prints the per-player TOI table.
func PrintPlayerSummaryTable(w io.Writer, summaries []model.PlayerGameSummary) {
	table := newTable(w)
	table.Header("PLAYER", "VENUE", "SHIFTS", "ROWS", "TOI", "PLAY_TOI", "AVG_SHIFT", "GF", "GA")
	for _, s := range summaries {
		table.Append(
			s.PlayerName,
			s.Venue.String(),
			strconv.Itoa(s.LogicalShifts),
			strconv.Itoa(s.RawShiftRows),
			fmtTOI(s.TOISeconds),
			fmtTOI(s.PlayingSeconds),
			fmt.Sprintf("%.1fs", s.AvgShiftSeconds()),
			strconv.Itoa(s.GoalsFor),
			strconv.Itoa(s.GoalsAgainst),
		)
	}
	table.Render()
}

// PrintPairTable prints pair overlaps with the WOWY complements. limit caps
// the number of rows; 0 means all.
func PrintPairTable(w io.Writer, pairs []model.PairOverlap, limit int) {
	table := newTable(w)
	table.Header("P1", "P2", "REL", "TOGETHER", "TOI", "P1_W/O_P2", "P2_W/O_P1", "GF", "GA", "CORSI+/-")
	for i, p := range pairs {
		if limit > 0 && i >= limit {
			break
		}
		table.Append(
			p.Player1Name,
			p.Player2Name,
			p.Relation.String(),
			strconv.Itoa(p.ShiftsTogether),
			fmtTOI(p.TOITogetherSeconds),
			strconv.Itoa(p.P1ShiftsWithoutP2),
			strconv.Itoa(p.P2ShiftsWithoutP1),
			strconv.Itoa(p.GoalsFor),
			strconv.Itoa(p.GoalsAgainst),
			fmt.Sprintf("%+d", p.CorsiDiff()),
		)
	}
	table.Render()
	if limit > 0 && len(pairs) > limit {
		fmt.Fprintf(w, "(showing %d of %d pairs)\n", limit, len(pairs))
	}
}

// PrintComboTable prints line-combination aggregates. limit caps rows; 0 means all.
func PrintComboTable(w io.Writer, combos []model.LineCombo, limit int) {
	table := newTable(w)
	table.Header("VENUE", "FORWARDS", "DEFENSE", "SHIFTS", "TOI", "GF", "GA", "CF", "CA", "CF%")
	for i, c := range combos {
		if limit > 0 && i >= limit {
			break
		}
		table.Append(
			c.Venue.String(),
			c.ForwardCombo,
			c.DefenseCombo,
			strconv.Itoa(c.Shifts),
			fmtTOI(c.TOISeconds),
			strconv.Itoa(c.GoalsFor),
			strconv.Itoa(c.GoalsAgainst),
			strconv.Itoa(c.CorsiFor),
			strconv.Itoa(c.CorsiAgainst),
			fmt.Sprintf("%.1f%%", c.CorsiPct()),
		)
	}
	table.Render()
	if limit > 0 && len(combos) > limit {
		fmt.Fprintf(w, "(showing %d of %d combos)\n", limit, len(combos))
	}
}

package shifts

import (
	"testing"

	"github.com/rinkstats/go-shift-metrics/internal/model"
)

func interval(jersey, shiftIndex, period int, duration float64) model.PlayerShiftInterval {
	return model.PlayerShiftInterval{
		GameID:          1,
		Venue:           model.VenueHome,
		JerseyNumber:    jersey,
		ShiftIndex:      shiftIndex,
		Period:          period,
		DurationSeconds: duration,
		PlayingSeconds:  duration,
	}
}

func resolved(iv model.PlayerShiftInterval, playerID int, name string) model.PlayerShiftInterval {
	iv.PlayerID = &playerID
	iv.PlayerName = name
	return iv
}

// Raw shift_index run [3,4,5,9,10] in one period: logical shifts {3,4,5} and
// {9,10}, segments restarting at 1, cumulative duration resetting at shift 9.
func TestConsolidateSplitsOnIndexGap(t *testing.T) {
	var rows []model.PlayerShiftInterval
	for _, idx := range []int{3, 4, 5, 9, 10} {
		rows = append(rows, interval(12, idx, 1, 10))
	}

	out, warnings := Consolidate(rows)
	if warnings.MalformedInterval != 0 {
		t.Fatalf("unexpected malformed warnings: %d", warnings.MalformedInterval)
	}
	if len(out) != 5 {
		t.Fatalf("got %d rows, want 5", len(out))
	}

	wantLogical := []int{1, 1, 1, 2, 2}
	wantSegment := []int{1, 2, 3, 1, 2}
	wantCumTOI := []float64{10, 20, 30, 10, 20}
	for i, row := range out {
		if row.LogicalShiftNumber != wantLogical[i] {
			t.Errorf("row %d logical = %d, want %d", i, row.LogicalShiftNumber, wantLogical[i])
		}
		if row.ShiftSegment != wantSegment[i] {
			t.Errorf("row %d segment = %d, want %d", i, row.ShiftSegment, wantSegment[i])
		}
		if row.CumulativeTOI != wantCumTOI[i] {
			t.Errorf("row %d cumTOI = %.0f, want %.0f", i, row.CumulativeTOI, wantCumTOI[i])
		}
	}
}

func TestConsolidateSplitsOnPeriodChange(t *testing.T) {
	rows := []model.PlayerShiftInterval{
		interval(12, 20, 1, 15),
		interval(12, 21, 2, 15), // contiguous index but new period
	}
	out, _ := Consolidate(rows)
	if out[0].LogicalShiftNumber != 1 || out[1].LogicalShiftNumber != 2 {
		t.Errorf("period change must open a new logical shift, got %d then %d",
			out[0].LogicalShiftNumber, out[1].LogicalShiftNumber)
	}
}

func TestConsolidateIndependentPlayers(t *testing.T) {
	rows := []model.PlayerShiftInterval{
		interval(12, 1, 1, 10),
		interval(12, 2, 1, 10),
		interval(27, 2, 1, 10),
		interval(27, 5, 1, 10),
	}
	out, _ := Consolidate(rows)

	byJersey := map[int][]model.PlayerShiftInterval{}
	for _, row := range out {
		byJersey[row.JerseyNumber] = append(byJersey[row.JerseyNumber], row)
	}
	if got := byJersey[12][1].LogicalShiftNumber; got != 1 {
		t.Errorf("jersey 12 second row logical = %d, want 1", got)
	}
	if got := byJersey[27][1].LogicalShiftNumber; got != 2 {
		t.Errorf("jersey 27 second row logical = %d, want 2 (gap 2→5)", got)
	}
}

func TestConsolidateMalformedDuration(t *testing.T) {
	rows := []model.PlayerShiftInterval{
		interval(12, 1, 1, 10),
		interval(12, 2, 1, 0), // non-positive duration
		interval(12, 3, 1, 10),
	}
	out, warnings := Consolidate(rows)

	if warnings.MalformedInterval != 1 {
		t.Fatalf("malformed warnings = %d, want 1", warnings.MalformedInterval)
	}
	if !out[1].Malformed {
		t.Error("zero-duration row must be flagged malformed")
	}
	// Malformed row keeps its place in the walk but adds nothing to TOI.
	if out[1].ShiftSegment != 2 || out[2].ShiftSegment != 3 {
		t.Errorf("segments = %d,%d, want 2,3", out[1].ShiftSegment, out[2].ShiftSegment)
	}
	if out[2].CumulativeTOI != 20 {
		t.Errorf("cumTOI after malformed row = %.0f, want 20", out[2].CumulativeTOI)
	}
}

func TestSummarize(t *testing.T) {
	rows := []model.PlayerShiftInterval{
		resolved(interval(12, 3, 1, 10), 101, "Home Twelve"),
		resolved(interval(12, 4, 1, 10), 101, "Home Twelve"),
		resolved(interval(12, 9, 1, 10), 101, "Home Twelve"),
		interval(99, 3, 1, 10), // unresolved, excluded from summaries
	}
	out, _ := Consolidate(rows)
	summaries := Summarize(1, out)

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1 (unresolved excluded)", len(summaries))
	}
	s := summaries[0]
	if s.PlayerID != 101 || s.LogicalShifts != 2 || s.RawShiftRows != 3 {
		t.Errorf("summary = %+v, want player 101 with 2 logical shifts over 3 rows", s)
	}
	if s.TOISeconds != 30 {
		t.Errorf("TOI = %.0f, want 30", s.TOISeconds)
	}

	// A player's summed shift time can never exceed the game clock.
	game := model.Game{ID: 1}
	if s.TOISeconds > game.WallClockSeconds() {
		t.Errorf("TOI %.0f exceeds wall clock %.0f", s.TOISeconds, game.WallClockSeconds())
	}
}

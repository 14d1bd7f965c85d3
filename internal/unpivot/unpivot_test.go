package unpivot

import (
	"testing"

	"github.com/rinkstats/go-shift-metrics/internal/config"
	"github.com/rinkstats/go-shift-metrics/internal/model"
	"github.com/rinkstats/go-shift-metrics/internal/roster"
)

func testResolver(t *testing.T, gameID int) *roster.Resolver {
	t.Helper()
	cfg := config.Default()
	cfg.VenueSwapGames = nil
	return roster.New(gameID, []model.RosterEntry{
		{JerseyNumber: 12, Venue: "home", PlayerID: 101, PlayerName: "Home Twelve"},
		{JerseyNumber: 27, Venue: "home", PlayerID: 102, PlayerName: "Home TwentySeven"},
		{JerseyNumber: 31, Venue: "away", PlayerID: 202, PlayerName: "Away Goalie"},
	}, &cfg, nil)
}

func mustLayout(t *testing.T) []SlotDef {
	t.Helper()
	slots, err := Layout("standard")
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return slots
}

// One home skater, one away goalie, home goal during the shift: two rows, the
// home player credited for, the away player against, both carrying the shift
// duration.
func TestUnpivotGoalBroadcast(t *testing.T) {
	shift := model.RawShift{
		ShiftIndex: 1, Period: 1, DurationSeconds: 45,
		HomeForward1: 12, AwayGoalie: 31,
		HomeTeamPlus: 1,
	}
	intervals, warnings := Unpivot(1, []model.RawShift{shift}, testResolver(t, 1), mustLayout(t))

	if len(intervals) != 2 {
		t.Fatalf("got %d intervals, want 2", len(intervals))
	}
	if warnings.MissingParent != 0 {
		t.Errorf("unexpected missing-parent warnings: %d", warnings.MissingParent)
	}

	byVenue := map[model.Venue]model.PlayerShiftInterval{}
	for _, iv := range intervals {
		byVenue[iv.Venue] = iv
	}

	home := byVenue[model.VenueHome]
	if home.GoalFor != 1 || home.GoalAgainst != 0 {
		t.Errorf("home goal flags = (%d,%d), want (1,0)", home.GoalFor, home.GoalAgainst)
	}
	if home.PlayerID == nil || *home.PlayerID != 101 {
		t.Errorf("home player = %v, want 101", home.PlayerID)
	}

	away := byVenue[model.VenueAway]
	if away.GoalFor != 0 || away.GoalAgainst != 1 {
		t.Errorf("away goal flags = (%d,%d), want (0,1)", away.GoalFor, away.GoalAgainst)
	}
	if home.DurationSeconds != 45 || away.DurationSeconds != 45 {
		t.Error("shift duration must broadcast to both rows")
	}
}

// An export row that flags the goal only on the conceding bench must still
// credit the scoring bench.
func TestUnpivotGoalMinusOnly(t *testing.T) {
	shift := model.RawShift{
		ShiftIndex: 1, Period: 1, DurationSeconds: 45,
		HomeForward1: 12, AwayGoalie: 31,
		AwayTeamMinus: 1,
	}
	intervals, _ := Unpivot(1, []model.RawShift{shift}, testResolver(t, 1), mustLayout(t))

	byVenue := map[model.Venue]model.PlayerShiftInterval{}
	for _, iv := range intervals {
		byVenue[iv.Venue] = iv
	}
	if home := byVenue[model.VenueHome]; home.GoalFor != 1 || home.GoalAgainst != 0 {
		t.Errorf("home goal flags = (%d,%d), want (1,0)", home.GoalFor, home.GoalAgainst)
	}
	if away := byVenue[model.VenueAway]; away.GoalFor != 0 || away.GoalAgainst != 1 {
		t.Errorf("away goal flags = (%d,%d), want (0,1)", away.GoalFor, away.GoalAgainst)
	}
}

func TestUnpivotSkipsEmptySlots(t *testing.T) {
	shift := model.RawShift{ShiftIndex: 1, Period: 1, DurationSeconds: 30, HomeForward1: 12}
	intervals, _ := Unpivot(1, []model.RawShift{shift}, testResolver(t, 1), mustLayout(t))
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1 (zero slots skipped)", len(intervals))
	}
}

func TestUnpivotUnresolvedKeepsRow(t *testing.T) {
	shift := model.RawShift{ShiftIndex: 1, Period: 1, DurationSeconds: 30, HomeForward1: 99}
	intervals, warnings := Unpivot(1, []model.RawShift{shift}, testResolver(t, 1), mustLayout(t))

	if len(intervals) != 1 {
		t.Fatalf("unresolved jersey must keep its interval row")
	}
	if intervals[0].PlayerID != nil {
		t.Error("unresolved jersey must have nil player id")
	}
	if intervals[0].JerseyNumber != 99 {
		t.Errorf("jersey = %d, want 99", intervals[0].JerseyNumber)
	}
	if warnings.MissingParent != 1 {
		t.Errorf("missing-parent warnings = %d, want 1", warnings.MissingParent)
	}
}

// Re-pivoting the long rows must reproduce the original slot assignment.
func TestUnpivotRoundTrip(t *testing.T) {
	slots := mustLayout(t)
	shifts := []model.RawShift{
		{ShiftIndex: 1, Period: 1, DurationSeconds: 40, HomeForward1: 12, HomeForward2: 27, AwayGoalie: 31},
		{ShiftIndex: 2, Period: 1, DurationSeconds: 25, HomeForward1: 12, AwayGoalie: 31},
	}
	intervals, _ := Unpivot(1, shifts, testResolver(t, 1), slots)

	accessors := make(map[string]func(*model.RawShift) int, len(slots))
	for _, s := range slots {
		accessors[s.Name] = s.Jersey
	}
	byIndex := make(map[int]*model.RawShift)
	for i := range shifts {
		byIndex[shifts[i].ShiftIndex] = &shifts[i]
	}

	seen := 0
	for _, iv := range intervals {
		orig := byIndex[iv.ShiftIndex]
		if got := accessors[iv.Slot](orig); got != iv.JerseyNumber {
			t.Errorf("shift %d slot %s: re-pivot gives %d, interval says %d",
				iv.ShiftIndex, iv.Slot, got, iv.JerseyNumber)
		}
		seen++
	}
	if seen != 5 {
		t.Errorf("got %d interval rows, want 5", seen)
	}
}

package ingest

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/rinkstats/go-shift-metrics/internal/faults"
)

const (
	shiftsCSV = `shift_index,period,shift_duration_seconds,stoppage_time,home_forward_1,home_forward_2,away_goalie,home_team_plus
1,1,30,0,12,27,31,0
2,1,25,5,12,0,31,1
`
	eventsCSV = `event_index,period,event_type,team_venue,event_start_seconds,event_end_seconds
1,1,Faceoff,home,0,
2,1,Shot,home,3,4
3,1,Turnover,away,,
`
	rosterCSV = `jersey_number,venue,player_id,player_name
12,home,101,Home Twelve
27,home,102,Home TwentySeven
31,away,202,Away Goalie
`
	scheduleCSV = `game_id,home_team_id,away_team_id,periods,period_seconds
7,HOME,AWAY,3,1200
9,HOME2,AWAY2,3,1200
`
)

func writeGameDir(t *testing.T, root string, gameID int, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, strconv.Itoa(gameID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func fullGameFiles() map[string]string {
	return map[string]string{
		"shifts.csv": shiftsCSV,
		"events.csv": eventsCSV,
		"roster.csv": rosterCSV,
	}
}

func TestLoadGame(t *testing.T) {
	root := t.TempDir()
	writeGameDir(t, root, 7, fullGameFiles())

	in, err := New(root).LoadGame(7)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if len(in.Shifts) != 2 {
		t.Fatalf("got %d shifts, want 2", len(in.Shifts))
	}
	s := in.Shifts[0]
	if s.ShiftIndex != 1 || s.DurationSeconds != 30 || s.HomeForward1 != 12 || s.AwayGoalie != 31 {
		t.Errorf("shift = %+v", s)
	}
	if s.GameID != 7 {
		t.Errorf("shift game id = %d, want 7 (stamped by loader)", s.GameID)
	}
	if in.Shifts[1].HomeTeamPlus != 1 {
		t.Error("goal flag lost in parse")
	}

	if len(in.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(in.Events))
	}
	if !in.Events[0].HasStart() || in.Events[0].Start() != 0 {
		t.Errorf("event 1 start = %+v, want 0", in.Events[0].StartSeconds)
	}
	if in.Events[2].HasStart() {
		t.Error("blank start cell must parse to a missing timestamp")
	}
	if in.Events[1].End() != 4 {
		t.Errorf("event 2 end = %v, want 4", in.Events[1].End())
	}

	if len(in.Roster) != 3 {
		t.Fatalf("got %d roster rows, want 3", len(in.Roster))
	}
	if r := in.Roster[0]; r.JerseyNumber != 12 || r.PlayerID != 101 || r.Venue != "home" {
		t.Errorf("roster row = %+v", r)
	}
}

func TestLoadGameMissingTable(t *testing.T) {
	root := t.TempDir()
	files := fullGameFiles()
	delete(files, "events.csv")
	writeGameDir(t, root, 7, files)

	_, err := New(root).LoadGame(7)
	if err == nil {
		t.Fatal("missing events table must fail the game")
	}
	if !errors.Is(err, faults.ErrFatalInput) {
		t.Errorf("error not marked fatal-input: %v", err)
	}
	if faults.Category(err) != "fatal-input" {
		t.Errorf("category = %q, want fatal-input", faults.Category(err))
	}
}

func TestLoadGameMalformedCSV(t *testing.T) {
	root := t.TempDir()
	files := fullGameFiles()
	files["shifts.csv"] = "shift_index,period\n\"unterminated\n"
	writeGameDir(t, root, 7, files)

	_, err := New(root).LoadGame(7)
	if err == nil {
		t.Fatal("unparseable shifts table must fail the game")
	}
	if !errors.Is(err, faults.ErrFatalInput) {
		t.Errorf("error not marked fatal-input: %v", err)
	}
}

func TestDiscoverGames(t *testing.T) {
	root := t.TempDir()
	for _, id := range []int{9, 3, 27} {
		writeGameDir(t, root, id, fullGameFiles())
	}
	// Non-numeric and file entries are ignored.
	if err := os.MkdirAll(filepath.Join(root, "archive"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "schedule.csv"), []byte(scheduleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := New(root).DiscoverGames()
	if err != nil {
		t.Fatalf("DiscoverGames: %v", err)
	}
	want := []int{3, 9, 27}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestDiscoverGamesMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope")).DiscoverGames()
	if err == nil {
		t.Fatal("missing input root must error")
	}
}

func TestLoadSchedule(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "schedule.csv"), []byte(scheduleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	sched, err := New(root).LoadSchedule()
	if err != nil {
		t.Fatalf("LoadSchedule: %v", err)
	}
	if sched.Len() != 2 {
		t.Fatalf("Len = %d, want 2", sched.Len())
	}
	g, ok := sched.Game(7)
	if !ok || g.HomeTeamID != "HOME" || g.AwayTeamID != "AWAY" {
		t.Errorf("game 7 = %+v ok=%v", g, ok)
	}
	if _, ok := sched.Game(404); ok {
		t.Error("unknown game id should miss")
	}
}

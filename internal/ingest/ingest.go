// Package ingest loads the per-game tracking export tables. The loader
// collaborators hand us plain CSV tables: one directory per game id holding
// shifts.csv, events.csv, and roster.csv, plus a global schedule.csv.
package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gocarina/gocsv"

	"github.com/rinkstats/go-shift-metrics/internal/faults"
	"github.com/rinkstats/go-shift-metrics/internal/model"
)

const (
	shiftsFile   = "shifts.csv"
	eventsFile   = "events.csv"
	rosterFile   = "roster.csv"
	scheduleFile = "schedule.csv"
)

// GameInputs is the full raw input set for one game. The pipeline loads it
// whole before computing; there is no streaming.
type GameInputs struct {
	GameID int
	Shifts []model.RawShift
	Events []model.RawEvent
	Roster []model.RosterEntry
}

// Store reads tracking exports rooted at one input directory.
type Store struct {
	root string
}

// New returns a store over the given input root.
func New(root string) *Store {
	return &Store{root: root}
}

// DiscoverGames lists all game ids present under the input root (numeric
// directory names), ascending.
func (s *Store) DiscoverGames() ([]int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, "read input root %s", s.root)
	}
	var ids []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// LoadGame reads all three required tables for one game. A missing or
// unreadable table is a fatal-input error for that game.
func (s *Store) LoadGame(gameID int) (*GameInputs, error) {
	dir := filepath.Join(s.root, strconv.Itoa(gameID))

	in := &GameInputs{GameID: gameID}

	if err := readCSV(filepath.Join(dir, shiftsFile), &in.Shifts); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "game %d: shifts table", gameID), faults.ErrFatalInput)
	}
	if err := readCSV(filepath.Join(dir, eventsFile), &in.Events); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "game %d: events table", gameID), faults.ErrFatalInput)
	}
	if err := readCSV(filepath.Join(dir, rosterFile), &in.Roster); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "game %d: roster manifest", gameID), faults.ErrFatalInput)
	}

	for i := range in.Shifts {
		in.Shifts[i].GameID = gameID
	}
	for i := range in.Events {
		in.Events[i].GameID = gameID
	}
	return in, nil
}

// Schedule is the read-only cross-game reference used by key assignment. It
// is loaded once per run and safe for concurrent reads.
type Schedule struct {
	byID map[int]model.Game
}

// LoadSchedule reads the global schedule table.
func (s *Store) LoadSchedule() (*Schedule, error) {
	var rows []model.Game
	if err := readCSV(filepath.Join(s.root, scheduleFile), &rows); err != nil {
		return nil, errors.Wrap(err, "schedule table")
	}
	sched := &Schedule{byID: make(map[int]model.Game, len(rows))}
	for _, g := range rows {
		sched.byID[g.ID] = g
	}
	return sched, nil
}

// NewSchedule builds a schedule from in-memory rows, for tests and embedders.
func NewSchedule(games []model.Game) *Schedule {
	sched := &Schedule{byID: make(map[int]model.Game, len(games))}
	for _, g := range games {
		sched.byID[g.ID] = g
	}
	return sched
}

// Game implements keys.ScheduleRepo.
func (s *Schedule) Game(gameID int) (model.Game, bool) {
	g, ok := s.byID[gameID]
	return g, ok
}

// Len returns the number of scheduled games.
func (s *Schedule) Len() int {
	return len(s.byID)
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return errors.Wrapf(err, "parse %s", filepath.Base(path))
	}
	return nil
}

// Package unpivot converts the wide shift chart (one column per roster slot)
// into long per-player interval rows. The slot layout is a declared table, so
// roster-size variants are configuration rather than code changes.
package unpivot

import (
	"github.com/cockroachdb/errors"

	"github.com/rinkstats/go-shift-metrics/internal/model"
	"github.com/rinkstats/go-shift-metrics/internal/roster"
)

// SlotKind classifies a roster slot column.
type SlotKind int

const (
	KindForward SlotKind = iota
	KindDefense
	KindExtra
	KindGoalie
)

// SlotDef declares one roster slot column of the shift chart.
type SlotDef struct {
	Name   string
	Venue  model.Venue
	Kind   SlotKind
	Jersey func(*model.RawShift) int
}

// Layout returns the slot table for a named chart layout. The standard layout
// is 3 forwards + 2 defense + 1 extra + 1 goalie per bench.
func Layout(name string) ([]SlotDef, error) {
	switch name {
	case "standard":
		return standardLayout, nil
	default:
		return nil, errors.Newf("unknown slot layout %q", name)
	}
}

var standardLayout = []SlotDef{
	{"home_forward_1", model.VenueHome, KindForward, func(s *model.RawShift) int { return s.HomeForward1 }},
	{"home_forward_2", model.VenueHome, KindForward, func(s *model.RawShift) int { return s.HomeForward2 }},
	{"home_forward_3", model.VenueHome, KindForward, func(s *model.RawShift) int { return s.HomeForward3 }},
	{"home_defense_1", model.VenueHome, KindDefense, func(s *model.RawShift) int { return s.HomeDefense1 }},
	{"home_defense_2", model.VenueHome, KindDefense, func(s *model.RawShift) int { return s.HomeDefense2 }},
	{"home_extra", model.VenueHome, KindExtra, func(s *model.RawShift) int { return s.HomeExtra }},
	{"home_goalie", model.VenueHome, KindGoalie, func(s *model.RawShift) int { return s.HomeGoalie }},
	{"away_forward_1", model.VenueAway, KindForward, func(s *model.RawShift) int { return s.AwayForward1 }},
	{"away_forward_2", model.VenueAway, KindForward, func(s *model.RawShift) int { return s.AwayForward2 }},
	{"away_forward_3", model.VenueAway, KindForward, func(s *model.RawShift) int { return s.AwayForward3 }},
	{"away_defense_1", model.VenueAway, KindDefense, func(s *model.RawShift) int { return s.AwayDefense1 }},
	{"away_defense_2", model.VenueAway, KindDefense, func(s *model.RawShift) int { return s.AwayDefense2 }},
	{"away_extra", model.VenueAway, KindExtra, func(s *model.RawShift) int { return s.AwayExtra }},
	{"away_goalie", model.VenueAway, KindGoalie, func(s *model.RawShift) int { return s.AwayGoalie }},
}

// KindOf returns the slot kind for a slot name, or KindExtra if unknown.
func KindOf(slots []SlotDef, name string) SlotKind {
	for _, s := range slots {
		if s.Name == name {
			return s.Kind
		}
	}
	return KindExtra
}

// Unpivot produces one interval row per populated roster slot of every shift,
// broadcasting the shift-level fields onto each player. A zero/empty slot is
// skipped, not treated as a player. Unresolved jerseys keep their row with a
// nil player id and count as missing-parent warnings.
func Unpivot(gameID int, shiftRows []model.RawShift, res *roster.Resolver, slots []SlotDef) ([]model.PlayerShiftInterval, model.WarningCounts) {
	var warnings model.WarningCounts
	intervals := make([]model.PlayerShiftInterval, 0, len(shiftRows)*len(slots)/2)

	for i := range shiftRows {
		shift := &shiftRows[i]
		for _, slot := range slots {
			jersey := slot.Jersey(shift)
			if jersey <= 0 {
				continue
			}

			iv := model.PlayerShiftInterval{
				GameID:          gameID,
				Venue:           slot.Venue,
				Slot:            slot.Name,
				JerseyNumber:    jersey,
				ShiftIndex:      shift.ShiftIndex,
				Period:          shift.Period,
				DurationSeconds: shift.DurationSeconds,
				StoppageSeconds: shift.StoppageSeconds,
				PlayingSeconds:  shift.DurationSeconds - shift.StoppageSeconds,
				Situation:       shift.Situation,
				Strength:        shift.Strength,
			}
			if shift.GoalFor(slot.Venue) {
				iv.GoalFor = 1
			}
			if shift.GoalAgainst(slot.Venue) {
				iv.GoalAgainst = 1
			}

			if ref, ok := res.Resolve(slot.Venue, jersey); ok {
				id := ref.PlayerID
				iv.PlayerID = &id
				iv.PlayerName = ref.PlayerName
			} else {
				warnings.MissingParent++
			}

			intervals = append(intervals, iv)
		}
	}

	return intervals, warnings
}

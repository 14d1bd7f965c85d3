// Package overlap computes pairwise and group ice-time overlap from the
// consolidated shift intervals: H2H (cross-venue pairs), WOWY (teammate pairs
// with arithmetic "without" complements), and line-combination aggregates.
//
// Goals and shot attempts use on-ice attribution: an outcome flagged on a
// shift is credited to every player present on that shift, for both the for
// and against ledgers. This is a deliberate modeling choice, distinct from
// direct-participant attribution.
package overlap

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rinkstats/go-shift-metrics/internal/model"
	"github.com/rinkstats/go-shift-metrics/internal/unpivot"
)

// Input carries one game's worth of consolidated data.
type Input struct {
	GameID    int
	Shifts    []model.RawShift
	Intervals []model.PlayerShiftInterval
	Events    []model.RawEvent
	Slots     []unpivot.SlotDef
	// IsCorsi reports whether an event type counts as a shot attempt.
	IsCorsi func(eventType string) bool
}

type onIce struct {
	id    int
	name  string
	venue model.Venue
	kind  unpivot.SlotKind
}

// shiftState is everything known about one raw shift row during accumulation.
type shiftState struct {
	index     int
	duration  float64
	malformed bool

	goalForHome bool
	goalForAway bool

	corsiHome int
	corsiAway int

	players []onIce // resolved players only, both benches
	// unresolved tracks benches with at least one unresolved skater slot,
	// which disqualifies that bench's line combo for this shift.
	unresolvedHome bool
	unresolvedAway bool
}

// Compute builds the pair-overlap and line-combo tables for one game. Pairs
// are enumerated only within each shift's on-ice players (at most roster
// slots × 2), never across the full roster. Unresolved players are absent
// from every pair and combo row; their interval rows survive upstream.
func Compute(in Input) ([]model.PairOverlap, []model.LineCombo) {
	states := buildShiftStates(in)

	// Per-player totals counted in the same pass and in the same unit (raw
	// shift rows) as shiftsTogether, so the WOWY complements follow by
	// subtraction alone.
	totalShifts := make(map[int]int)
	names := make(map[int]string)
	venues := make(map[int]model.Venue)

	type pairKey struct{ p1, p2 int }
	pairs := make(map[pairKey]*model.PairOverlap)

	type comboKey struct {
		venue    model.Venue
		forwards string
		defense  string
	}
	combos := make(map[comboKey]*model.LineCombo)

	for si := range states {
		st := &states[si]

		for _, p := range st.players {
			totalShifts[p.id]++
			names[p.id] = p.name
			venues[p.id] = p.venue
		}

		// Pairwise accumulation within this shift only.
		for i := 0; i < len(st.players); i++ {
			for j := i + 1; j < len(st.players); j++ {
				a, b := st.players[i], st.players[j]
				if b.id < a.id {
					a, b = b, a
				}
				k := pairKey{a.id, b.id}
				po := pairs[k]
				if po == nil {
					rel := model.RelationTeammates
					if a.venue != b.venue {
						rel = model.RelationOpponents
					}
					po = &model.PairOverlap{
						GameID:      in.GameID,
						Player1ID:   a.id,
						Player1Name: a.name,
						Venue1:      a.venue,
						Player2ID:   b.id,
						Player2Name: b.name,
						Venue2:      b.venue,
						Relation:    rel,
					}
					pairs[k] = po
				}
				po.ShiftsTogether++
				if !st.malformed {
					po.TOITogetherSeconds += st.duration
				}
				if st.goalFor(a.venue) {
					po.GoalsFor++
				}
				if st.goalFor(a.venue.Opposite()) {
					po.GoalsAgainst++
				}
				po.ShotAttemptsFor += st.corsi(a.venue)
				po.ShotAttemptsAgainst += st.corsi(a.venue.Opposite())
			}
		}

		// Line combos, one per bench per shift, skipped when the bench has an
		// unresolved skater (the combo identity would be wrong).
		for _, venue := range []model.Venue{model.VenueHome, model.VenueAway} {
			if st.unresolvedBench(venue) {
				continue
			}
			fwd, def := st.comboIDs(venue)
			if len(fwd) == 0 && len(def) == 0 {
				continue
			}
			k := comboKey{venue, joinIDs(fwd), joinIDs(def)}
			lc := combos[k]
			if lc == nil {
				lc = &model.LineCombo{
					GameID:       in.GameID,
					Venue:        venue,
					ForwardCombo: k.forwards,
					DefenseCombo: k.defense,
				}
				combos[k] = lc
			}
			lc.Shifts++
			if !st.malformed {
				lc.TOISeconds += st.duration
			}
			if st.goalFor(venue) {
				lc.GoalsFor++
			}
			if st.goalFor(venue.Opposite()) {
				lc.GoalsAgainst++
			}
			lc.CorsiFor += st.corsi(venue)
			lc.CorsiAgainst += st.corsi(venue.Opposite())
		}
	}

	// Backfill totals and derive the WOWY complements by subtraction.
	out := make([]model.PairOverlap, 0, len(pairs))
	for _, po := range pairs {
		po.TotalP1Shifts = totalShifts[po.Player1ID]
		po.TotalP2Shifts = totalShifts[po.Player2ID]
		po.P1ShiftsWithoutP2 = po.TotalP1Shifts - po.ShiftsTogether
		po.P2ShiftsWithoutP1 = po.TotalP2Shifts - po.ShiftsTogether
		out = append(out, *po)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player1ID != out[j].Player1ID {
			return out[i].Player1ID < out[j].Player1ID
		}
		return out[i].Player2ID < out[j].Player2ID
	})

	comboOut := make([]model.LineCombo, 0, len(combos))
	for _, lc := range combos {
		comboOut = append(comboOut, *lc)
	}
	sort.Slice(comboOut, func(i, j int) bool {
		a, b := comboOut[i], comboOut[j]
		if a.Venue != b.Venue {
			return a.Venue < b.Venue
		}
		if a.ForwardCombo != b.ForwardCombo {
			return a.ForwardCombo < b.ForwardCombo
		}
		return a.DefenseCombo < b.DefenseCombo
	})

	return out, comboOut
}

func (st *shiftState) goalFor(v model.Venue) bool {
	switch v {
	case model.VenueHome:
		return st.goalForHome
	case model.VenueAway:
		return st.goalForAway
	}
	return false
}

func (st *shiftState) corsi(v model.Venue) int {
	switch v {
	case model.VenueHome:
		return st.corsiHome
	case model.VenueAway:
		return st.corsiAway
	}
	return 0
}

func (st *shiftState) unresolvedBench(v model.Venue) bool {
	if v == model.VenueHome {
		return st.unresolvedHome
	}
	return st.unresolvedAway
}

// comboIDs returns sorted forward and defense player ids for one bench.
func (st *shiftState) comboIDs(v model.Venue) (fwd, def []int) {
	for _, p := range st.players {
		if p.venue != v {
			continue
		}
		switch p.kind {
		case unpivot.KindForward:
			fwd = append(fwd, p.id)
		case unpivot.KindDefense:
			def = append(def, p.id)
		}
	}
	sort.Ints(fwd)
	sort.Ints(def)
	return fwd, def
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "-")
}

// buildShiftStates indexes intervals, goal flags, and timeline-mapped corsi
// events by raw shift index.
func buildShiftStates(in Input) []shiftState {
	shiftRows := make([]model.RawShift, len(in.Shifts))
	copy(shiftRows, in.Shifts)
	sort.Slice(shiftRows, func(i, j int) bool { return shiftRows[i].ShiftIndex < shiftRows[j].ShiftIndex })

	states := make([]shiftState, len(shiftRows))
	byIndex := make(map[int]*shiftState, len(shiftRows))
	for i := range shiftRows {
		s := &shiftRows[i]
		states[i] = shiftState{
			index:       s.ShiftIndex,
			duration:    s.DurationSeconds,
			malformed:   s.DurationSeconds <= 0 || s.DurationSeconds < s.StoppageSeconds,
			goalForHome: s.GoalFor(model.VenueHome),
			goalForAway: s.GoalFor(model.VenueAway),
		}
		byIndex[s.ShiftIndex] = &states[i]
	}

	for _, iv := range in.Intervals {
		st := byIndex[iv.ShiftIndex]
		if st == nil {
			continue
		}
		kind := unpivot.KindOf(in.Slots, iv.Slot)
		if !iv.Resolved() {
			if kind == unpivot.KindForward || kind == unpivot.KindDefense {
				if iv.Venue == model.VenueHome {
					st.unresolvedHome = true
				} else if iv.Venue == model.VenueAway {
					st.unresolvedAway = true
				}
			}
			continue
		}
		st.players = append(st.players, onIce{
			id:    *iv.PlayerID,
			name:  iv.PlayerName,
			venue: iv.Venue,
			kind:  kind,
		})
	}

	attributeCorsi(states, in.Events, in.IsCorsi)
	return states
}

// attributeCorsi maps events onto shifts through the shift timeline: shift n
// covers [sum of prior durations, +duration) on the game clock. Events outside
// every window, or without a start time, attribute to no shift.
func attributeCorsi(states []shiftState, events []model.RawEvent, isCorsi func(string) bool) {
	if isCorsi == nil || len(states) == 0 {
		return
	}

	starts := make([]float64, len(states))
	var clock float64
	for i := range states {
		starts[i] = clock
		if states[i].duration > 0 {
			clock += states[i].duration
		}
	}
	gameEnd := clock

	for i := range events {
		ev := &events[i]
		if !ev.HasStart() || !isCorsi(ev.Type) {
			continue
		}
		t := ev.Start()
		if t < 0 || t >= gameEnd {
			continue
		}
		// Binary search for the covering shift window.
		n := sort.Search(len(starts), func(j int) bool { return starts[j] > t }) - 1
		if n < 0 {
			continue
		}
		switch model.ParseVenue(ev.TeamVenue) {
		case model.VenueHome:
			states[n].corsiHome++
		case model.VenueAway:
			states[n].corsiAway++
		}
	}
}

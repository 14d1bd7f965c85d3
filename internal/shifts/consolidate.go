// Package shifts consolidates raw interval rows into logical shifts. The raw
// shift_index is a global counter — a new row is cut whenever any skater on
// either bench changes — so one continuous stretch of ice time for a player
// spans several consecutive raw rows.
package shifts

import (
	"sort"

	"github.com/rinkstats/go-shift-metrics/internal/model"
)

type playerKey struct {
	venue  model.Venue
	jersey int
}

// Consolidate assigns logical shift numbers, shift segments, and running TOI
// prefix sums to the unpivoted interval rows. The walk is per player: a new
// logical shift starts whenever the raw shift_index is not exactly the
// previous index + 1, or the period changes. Rows with non-positive or
// inverted durations are flagged malformed and contribute nothing to the TOI
// sums, but keep their place in the walk. Returns the annotated rows in
// (venue, jersey, shift_index) order.
func Consolidate(intervals []model.PlayerShiftInterval) ([]model.PlayerShiftInterval, model.WarningCounts) {
	var warnings model.WarningCounts

	grouped := make(map[playerKey][]model.PlayerShiftInterval)
	for _, iv := range intervals {
		k := playerKey{iv.Venue, iv.JerseyNumber}
		grouped[k] = append(grouped[k], iv)
	}

	keys := make([]playerKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].venue != keys[j].venue {
			return keys[i].venue < keys[j].venue
		}
		return keys[i].jersey < keys[j].jersey
	})

	out := make([]model.PlayerShiftInterval, 0, len(intervals))
	for _, k := range keys {
		rows := grouped[k]
		sort.Slice(rows, func(i, j int) bool { return rows[i].ShiftIndex < rows[j].ShiftIndex })

		logical := 0
		segment := 0
		var cumTOI, cumPlay float64
		prevIndex := -2
		prevPeriod := -1

		for i := range rows {
			row := &rows[i]

			if row.ShiftIndex != prevIndex+1 || row.Period != prevPeriod {
				logical++
				segment = 1
				cumTOI = 0
				cumPlay = 0
			} else {
				segment++
			}

			if row.DurationSeconds <= 0 || row.PlayingSeconds < 0 {
				row.Malformed = true
				warnings.MalformedInterval++
			} else {
				cumTOI += row.DurationSeconds
				cumPlay += row.PlayingSeconds
			}

			row.LogicalShiftNumber = logical
			row.ShiftSegment = segment
			row.CumulativeTOI = cumTOI
			row.CumulativePlay = cumPlay

			prevIndex = row.ShiftIndex
			prevPeriod = row.Period
		}

		out = append(out, rows...)
	}

	return out, warnings
}

// Summarize rolls consolidated intervals up to one row per resolved player.
// Malformed rows count toward raw row totals but not TOI.
func Summarize(gameID int, intervals []model.PlayerShiftInterval) []model.PlayerGameSummary {
	type accum struct {
		name                 string
		venue                model.Venue
		playerID             int
		logicalShifts        int
		rawRows              int
		toi, playing         float64
		goalsFor, goalsAgainst int
	}

	accums := make(map[playerKey]*accum)
	for _, iv := range intervals {
		if !iv.Resolved() {
			continue
		}
		k := playerKey{iv.Venue, iv.JerseyNumber}
		acc := accums[k]
		if acc == nil {
			acc = &accum{name: iv.PlayerName, venue: iv.Venue, playerID: *iv.PlayerID}
			accums[k] = acc
		}
		acc.rawRows++
		if iv.LogicalShiftNumber > acc.logicalShifts {
			acc.logicalShifts = iv.LogicalShiftNumber
		}
		if !iv.Malformed {
			acc.toi += iv.DurationSeconds
			acc.playing += iv.PlayingSeconds
		}
		// Goal flags are broadcast to every segment of a shift row; counting
		// per raw row matches the shift-level ledger downstream.
		acc.goalsFor += iv.GoalFor
		acc.goalsAgainst += iv.GoalAgainst
	}

	keys := make([]playerKey, 0, len(accums))
	for k := range accums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].venue != keys[j].venue {
			return keys[i].venue < keys[j].venue
		}
		return keys[i].jersey < keys[j].jersey
	})

	summaries := make([]model.PlayerGameSummary, 0, len(keys))
	for _, k := range keys {
		acc := accums[k]
		summaries = append(summaries, model.PlayerGameSummary{
			GameID:         gameID,
			PlayerID:       acc.playerID,
			PlayerName:     acc.name,
			Venue:          acc.venue,
			LogicalShifts:  acc.logicalShifts,
			RawShiftRows:   acc.rawRows,
			TOISeconds:     acc.toi,
			PlayingSeconds: acc.playing,
			GoalsFor:       acc.goalsFor,
			GoalsAgainst:   acc.goalsAgainst,
		})
	}
	return summaries
}

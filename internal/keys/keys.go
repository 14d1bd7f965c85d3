// Package keys generates the deterministic composite keys of every derived
// record and backfills foreign keys across the table set. It runs strictly
// after the other pipeline stages; identical inputs always regenerate
// identical keys.
package keys

import (
	"fmt"

	"github.com/rinkstats/go-shift-metrics/internal/model"
)

// Table prefixes. A key is <prefix><game id %05d><ordinal %06d>.
const (
	PrefixInterval = "PS"
	PrefixSummary  = "PG"
	PrefixSequence = "SQ"
	PrefixPlay     = "PL"
	PrefixPair     = "PO"
	PrefixCombo    = "LC"
)

// ScheduleRepo is the injected read-only schedule reference used for team-id
// backfill. Implementations must be safe for concurrent reads.
type ScheduleRepo interface {
	Game(gameID int) (model.Game, bool)
}

// Key formats one composite key.
func Key(prefix string, gameID, ordinal int) string {
	return fmt.Sprintf("%s%05d%06d", prefix, gameID, ordinal)
}

// Assign stamps keys onto every derived row of one game, in the deterministic
// order the rows already carry, and backfills foreign keys. Unresolvable team
// lookups leave the FK nil and count as missing-parent warnings; FKs are never
// dangling.
func Assign(out *model.GameOutput, repo ScheduleRepo) model.WarningCounts {
	var warnings model.WarningCounts

	gameID := out.Game.ID
	game, haveGame := repo.Game(gameID)

	teamRef := func(v model.Venue) *string {
		if !haveGame {
			warnings.MissingParent++
			return nil
		}
		id := game.TeamID(v)
		if id == "" {
			warnings.MissingParent++
			return nil
		}
		return &id
	}

	for i := range out.Intervals {
		iv := &out.Intervals[i]
		iv.Key = Key(PrefixInterval, gameID, i+1)
		iv.TeamID = teamRef(iv.Venue)
	}

	for i := range out.Summaries {
		s := &out.Summaries[i]
		s.Key = Key(PrefixSummary, gameID, i+1)
		s.TeamID = teamRef(s.Venue)
	}

	seqKeyByNumber := make(map[int]string, len(out.Sequences))
	for i := range out.Sequences {
		sq := &out.Sequences[i]
		sq.Key = Key(PrefixSequence, gameID, i+1)
		seqKeyByNumber[sq.SequenceNumber] = sq.Key
	}

	for i := range out.Plays {
		pl := &out.Plays[i]
		pl.Key = Key(PrefixPlay, gameID, i+1)
		if sk, ok := seqKeyByNumber[pl.SequenceNumber]; ok {
			ref := sk
			pl.SequenceKey = &ref
		} else {
			pl.SequenceKey = nil
			warnings.MissingParent++
		}
	}

	for i := range out.Pairs {
		po := &out.Pairs[i]
		po.Key = Key(PrefixPair, gameID, i+1)
		po.Team1ID = teamRef(po.Venue1)
		po.Team2ID = teamRef(po.Venue2)
	}

	for i := range out.Combos {
		lc := &out.Combos[i]
		lc.Key = Key(PrefixCombo, gameID, i+1)
		lc.TeamID = teamRef(lc.Venue)
	}

	return warnings
}

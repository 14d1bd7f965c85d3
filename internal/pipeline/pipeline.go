// Package pipeline wires the per-game stages together and fans games out over
// a bounded worker pool. Games are independent; one game's failure never
// aborts its siblings.
package pipeline

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/rinkstats/go-shift-metrics/internal/config"
	"github.com/rinkstats/go-shift-metrics/internal/faults"
	"github.com/rinkstats/go-shift-metrics/internal/ingest"
	"github.com/rinkstats/go-shift-metrics/internal/keys"
	"github.com/rinkstats/go-shift-metrics/internal/model"
	"github.com/rinkstats/go-shift-metrics/internal/overlap"
	"github.com/rinkstats/go-shift-metrics/internal/roster"
	"github.com/rinkstats/go-shift-metrics/internal/segment"
	"github.com/rinkstats/go-shift-metrics/internal/shifts"
	"github.com/rinkstats/go-shift-metrics/internal/unpivot"
)

// Mode selects which derived tables a run produces.
type Mode string

const (
	ModeFull         Mode = "full"
	ModeSegmentation Mode = "segmentation-only"
	ModeOverlap      Mode = "overlap-only"
)

// ParseMode validates a mode flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFull, ModeSegmentation, ModeOverlap:
		return Mode(s), nil
	default:
		return "", errors.Newf("unknown mode %q (want full, segmentation-only, or overlap-only)", s)
	}
}

// Pipeline runs the per-game stage chain: unpivot → consolidate → overlap on
// one track, segmentation on the other, key assignment last.
type Pipeline struct {
	cfg      config.Config
	slots    []unpivot.SlotDef
	schedule keys.ScheduleRepo
	log      *zap.Logger
}

// New builds a pipeline. The schedule is the single shared read-only
// reference; everything else is per-game.
func New(cfg config.Config, schedule keys.ScheduleRepo, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	slots, err := unpivot.Layout(cfg.SlotLayout)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, slots: slots, schedule: schedule, log: log}, nil
}

// RunGame processes one game end to end and returns its full derived row set.
func (p *Pipeline) RunGame(in *ingest.GameInputs, mode Mode) (*model.GameOutput, error) {
	if in == nil {
		return nil, errors.Mark(errors.New("nil game inputs"), faults.ErrFatalInput)
	}
	log := p.log.With(zap.Int("game_id", in.GameID))

	out := &model.GameOutput{Game: model.Game{ID: in.GameID}}
	if g, ok := p.schedule.Game(in.GameID); ok {
		out.Game = g
	}

	if mode != ModeSegmentation {
		res := roster.New(in.GameID, in.Roster, &p.cfg, log)

		intervals, w := unpivot.Unpivot(in.GameID, in.Shifts, res, p.slots)
		out.Warnings.Add(w)

		consolidated, w := shifts.Consolidate(intervals)
		out.Warnings.Add(w)
		out.Intervals = consolidated
		out.Summaries = shifts.Summarize(in.GameID, consolidated)

		out.Pairs, out.Combos = overlap.Compute(overlap.Input{
			GameID:    in.GameID,
			Shifts:    in.Shifts,
			Intervals: consolidated,
			Events:    in.Events,
			Slots:     p.slots,
			IsCorsi:   p.cfg.IsCorsiEvent,
		})
	}

	if mode != ModeOverlap {
		seqs, plays, w := segment.Segment(in.GameID, in.Events, segment.Options{
			GapSeconds: p.cfg.SequenceGapSeconds,
		})
		out.Warnings.Add(w)
		out.Sequences = seqs
		out.Plays = plays
	}

	// Key assignment runs last; it needs every other table in place.
	out.Warnings.Add(keys.Assign(out, p.schedule))

	log.Debug("game processed",
		zap.Int("intervals", len(out.Intervals)),
		zap.Int("sequences", len(out.Sequences)),
		zap.Int("pairs", len(out.Pairs)),
		zap.Int("warnings", out.Warnings.Total()))
	return out, nil
}

// GameSource supplies raw inputs per game.
type GameSource interface {
	LoadGame(gameID int) (*ingest.GameInputs, error)
}

// Sink persists one game's output set. The runner serializes calls, and each
// call must be atomic: all of the game's rows or none.
type Sink func(out *model.GameOutput) error

// RunAll fans the given games out over a bounded worker pool and collects a
// run summary. A failed game is reported and excluded; all other games
// complete normally.
func (p *Pipeline) RunAll(src GameSource, gameIDs []int, mode Mode, sink Sink) model.RunSummary {
	workers := p.cfg.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(gameIDs) && len(gameIDs) > 0 {
		workers = len(gameIDs)
	}

	type gameResult struct {
		gameID   int
		warnings model.WarningCounts
		err      error
	}
	results := make(chan gameResult, len(gameIDs))

	pool, err := ants.NewPool(workers)
	if err != nil {
		// Pool creation only fails on nonsensical sizes; degrade to inline.
		for _, id := range gameIDs {
			w, runErr := p.runOne(src, id, mode, sink, &sync.Mutex{})
			results <- gameResult{id, w, runErr}
		}
	} else {
		defer pool.Release()

		var sinkMu sync.Mutex
		var wg sync.WaitGroup
		for _, gameID := range gameIDs {
			gameID := gameID
			wg.Add(1)
			if submitErr := pool.Submit(func() {
				defer wg.Done()
				w, runErr := p.runOne(src, gameID, mode, sink, &sinkMu)
				results <- gameResult{gameID, w, runErr}
			}); submitErr != nil {
				wg.Done()
				results <- gameResult{gameID, model.WarningCounts{}, submitErr}
			}
		}
		wg.Wait()
	}
	close(results)

	var summary model.RunSummary
	for r := range results {
		if r.err != nil {
			summary.GamesFailed++
			summary.Failures = append(summary.Failures, model.GameFailure{
				GameID:   r.gameID,
				Category: faults.Category(r.err),
				Message:  r.err.Error(),
			})
			p.log.Warn("game failed",
				zap.Int("game_id", r.gameID),
				zap.String("category", faults.Category(r.err)),
				zap.Error(r.err))
			continue
		}
		summary.GamesProcessed++
		summary.Warnings.Add(r.warnings)
	}
	sort.Slice(summary.Failures, func(i, j int) bool {
		return summary.Failures[i].GameID < summary.Failures[j].GameID
	})
	return summary
}

func (p *Pipeline) runOne(src GameSource, gameID int, mode Mode, sink Sink, sinkMu *sync.Mutex) (model.WarningCounts, error) {
	in, err := src.LoadGame(gameID)
	if err != nil {
		return model.WarningCounts{}, err
	}
	out, err := p.RunGame(in, mode)
	if err != nil {
		return model.WarningCounts{}, err
	}
	if sink != nil {
		sinkMu.Lock()
		err = sink(out)
		sinkMu.Unlock()
		if err != nil {
			return model.WarningCounts{}, errors.Wrapf(err, "persist game %d", gameID)
		}
	}
	return out.Warnings, nil
}

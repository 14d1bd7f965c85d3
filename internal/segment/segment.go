// Package segment groups the tracked event stream into possession sequences
// and plays. A sequence is a maximal run of events with no possession reset;
// plays subdivide a sequence, one per event by default.
package segment

import (
	"strings"

	"github.com/rinkstats/go-shift-metrics/internal/model"
)

// BoundaryFunc decides whether cur opens a new play within a sequence.
// prev is nil for the first event of a sequence.
type BoundaryFunc func(prev, cur *model.RawEvent) bool

// EveryEvent is the base play boundary: one play per event.
func EveryEvent(prev, cur *model.RawEvent) bool {
	return true
}

// ZoneChange opens a new play when the event's team zone differs from the
// previous event's. Not the default; wired in via Options for refinement runs.
func ZoneChange(prev, cur *model.RawEvent) bool {
	if prev == nil {
		return true
	}
	return prev.Zone != cur.Zone
}

// Options configures a segmentation pass.
type Options struct {
	// GapSeconds is the possession-reset threshold between consecutive events.
	GapSeconds float64
	// PlayBoundary subdivides sequences; nil means EveryEvent.
	PlayBoundary BoundaryFunc
	// FaceoffType is the event type that force-opens a sequence.
	FaceoffType string
}

func (o *Options) normalize() {
	if o.GapSeconds <= 0 {
		o.GapSeconds = 5.0
	}
	if o.PlayBoundary == nil {
		o.PlayBoundary = EveryEvent
	}
	if o.FaceoffType == "" {
		o.FaceoffType = "Faceoff"
	}
}

// Segment walks the event stream in stream order and assigns every event to
// exactly one sequence and exactly one play. A new sequence opens when the
// time gap to the previous resolvable event exceeds the threshold, or the
// current event is a faceoff; the faceoff itself is the first event of its new
// sequence. Events without a resolvable start time are excluded from gap
// detection but stay attached to the current sequence, so segmentation remains
// total.
func Segment(gameID int, events []model.RawEvent, opts Options) ([]model.Sequence, []model.Play, model.WarningCounts) {
	opts.normalize()

	var (
		warnings  model.WarningCounts
		sequences []model.Sequence
		plays     []model.Play
	)
	if len(events) == 0 {
		return sequences, plays, warnings
	}

	type runState struct {
		seq       *model.Sequence
		chain     []string
		lastStart float64
		hasTime   bool

		play      *model.Play
		playChain []string
		prevEvent *model.RawEvent
	}
	var st runState

	flushPlay := func() {
		if st.play == nil {
			return
		}
		st.play.EventChain = strings.Join(st.playChain, ">")
		st.play.DurationSeconds = st.play.EndSeconds - st.play.StartSeconds
		plays = append(plays, *st.play)
		st.play = nil
		st.playChain = nil
	}
	flushSeq := func() {
		if st.seq == nil {
			return
		}
		flushPlay()
		st.seq.EventChain = strings.Join(st.chain, ">")
		st.seq.DurationSeconds = st.seq.EndSeconds - st.seq.StartSeconds
		sequences = append(sequences, *st.seq)
		st.seq = nil
		st.chain = nil
		st.prevEvent = nil
	}

	for i := range events {
		ev := &events[i]

		resolvable := ev.HasStart()
		if !resolvable {
			warnings.SegmentationGap++
		}

		newSeq := st.seq == nil
		if !newSeq && ev.Type == opts.FaceoffType {
			newSeq = true
		}
		if !newSeq && resolvable && st.hasTime && ev.Start()-st.lastStart > opts.GapSeconds {
			newSeq = true
		}

		if newSeq {
			flushSeq()
			st.seq = &model.Sequence{
				GameID:          gameID,
				SequenceNumber:  len(sequences) + 1,
				Period:          ev.Period,
				StartEventIndex: ev.EventIndex,
				StartSeconds:    ev.Start(),
				EndSeconds:      ev.End(),
			}
			st.hasTime = false
		}

		seq := st.seq
		seq.EndEventIndex = ev.EventIndex
		seq.EventCount++
		st.chain = append(st.chain, ev.Type)
		if resolvable {
			if !st.hasTime || ev.Start() < seq.StartSeconds {
				seq.StartSeconds = ev.Start()
			}
			if !st.hasTime || ev.End() > seq.EndSeconds {
				seq.EndSeconds = ev.End()
			}
			st.lastStart = ev.Start()
			st.hasTime = true
		}
		switch ev.Type {
		case "Shot", "Missed Shot", "Blocked Shot":
			seq.HasShot = true
		case "Goal":
			seq.HasShot = true
			seq.HasGoal = true
		case "Zone Entry":
			seq.HasZoneEntry = true
		}

		if newSeq || opts.PlayBoundary(st.prevEvent, ev) {
			flushPlay()
			st.play = &model.Play{
				GameID:          gameID,
				SequenceNumber:  seq.SequenceNumber,
				PlayNumber:      playCountFor(plays, seq.SequenceNumber) + 1,
				StartEventIndex: ev.EventIndex,
				StartSeconds:    ev.Start(),
				EndSeconds:      ev.End(),
			}
		}
		play := st.play
		play.EndEventIndex = ev.EventIndex
		play.EventCount++
		st.playChain = append(st.playChain, ev.Type)
		if resolvable && ev.End() > play.EndSeconds {
			play.EndSeconds = ev.End()
		}

		st.prevEvent = ev
	}
	flushSeq()

	return sequences, plays, warnings
}

// playCountFor counts already-flushed plays of one sequence; play numbering
// restarts at 1 for each sequence.
func playCountFor(plays []model.Play, seqNumber int) int {
	n := 0
	for i := len(plays) - 1; i >= 0; i-- {
		if plays[i].SequenceNumber != seqNumber {
			break
		}
		n++
	}
	return n
}

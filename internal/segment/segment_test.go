package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkstats/go-shift-metrics/internal/model"
)

func event(index int, eventType string, start float64) model.RawEvent {
	return model.RawEvent{EventIndex: index, Period: 1, Type: eventType, StartSeconds: model.At(start), GameID: 1}
}

func timelessEvent(index int, eventType string) model.RawEvent {
	return model.RawEvent{EventIndex: index, Period: 1, Type: eventType, GameID: 1}
}

// Events at [0,2,4,40,41] with a faceoff at t=4: sequence A holds the first
// two, sequence B opens at the faceoff and runs through t=41 because the
// remaining gaps stay within the threshold.
func TestFaceoffOpensSequence(t *testing.T) {
	events := []model.RawEvent{
		event(1, "Pass", 0),
		event(2, "Pass", 2),
		event(3, "Faceoff", 4),
		event(4, "Zone Entry", 40),
		event(5, "Shot", 41),
	}
	seqs, _, warnings := Segment(1, events, Options{GapSeconds: 5})

	require.Len(t, seqs, 3) // the 4→40 gap splits sequence B's tail
	assert.Equal(t, 0, warnings.SegmentationGap)

	assert.Equal(t, 1, seqs[0].StartEventIndex)
	assert.Equal(t, 2, seqs[0].EndEventIndex)
	assert.Equal(t, 2, seqs[0].EventCount)

	// The faceoff itself is the first event of its sequence.
	assert.Equal(t, 3, seqs[1].StartEventIndex)
	assert.Equal(t, "Faceoff", seqs[1].EventChain)

	assert.Equal(t, 4, seqs[2].StartEventIndex)
	assert.True(t, seqs[2].HasShot)
	assert.True(t, seqs[2].HasZoneEntry)
}

func TestGapWithinThresholdContinues(t *testing.T) {
	events := []model.RawEvent{
		event(1, "Faceoff", 4),
		event(2, "Pass", 9), // exactly at the 5s threshold: not a break
		event(3, "Shot", 10),
	}
	seqs, _, _ := Segment(1, events, Options{GapSeconds: 5})
	require.Len(t, seqs, 1)
	assert.Equal(t, 3, seqs[0].EventCount)
	assert.Equal(t, "Faceoff>Pass>Shot", seqs[0].EventChain)
}

// Every event lands in exactly one sequence and one play, timeless ones
// included.
func TestSegmentationTotality(t *testing.T) {
	events := []model.RawEvent{
		event(1, "Faceoff", 0),
		event(2, "Pass", 2),
		timelessEvent(3, "Turnover"),
		event(4, "Faceoff", 30),
		event(5, "Goal", 33),
	}
	seqs, plays, warnings := Segment(1, events, Options{})

	assert.Equal(t, 1, warnings.SegmentationGap)

	seqTotal := 0
	for _, s := range seqs {
		seqTotal += s.EventCount
	}
	assert.Equal(t, len(events), seqTotal, "sequence partition must cover every event")

	playTotal := 0
	for _, p := range plays {
		playTotal += p.EventCount
	}
	assert.Equal(t, len(events), playTotal, "play partition must cover every event")

	// Base mapping: one play per event, numbering restarting per sequence.
	require.Len(t, plays, len(events))
	assert.Equal(t, 1, plays[0].PlayNumber)
	assert.Equal(t, 3, plays[2].PlayNumber)
	assert.Equal(t, 1, plays[3].PlayNumber) // reset at second sequence
}

func TestTimelessEventDoesNotBreakSequence(t *testing.T) {
	events := []model.RawEvent{
		event(1, "Faceoff", 0),
		timelessEvent(2, "Pass"),
		event(3, "Shot", 3),
	}
	seqs, _, warnings := Segment(1, events, Options{})
	require.Len(t, seqs, 1)
	assert.Equal(t, 1, warnings.SegmentationGap)
	assert.Equal(t, "Faceoff>Pass>Shot", seqs[0].EventChain)
}

func TestSequenceAggregates(t *testing.T) {
	e1 := event(1, "Faceoff", 10)
	e1.EndSeconds = model.At(12)
	events := []model.RawEvent{e1, event(2, "Goal", 13)}

	seqs, _, _ := Segment(1, events, Options{})
	require.Len(t, seqs, 1)
	s := seqs[0]
	assert.Equal(t, 10.0, s.StartSeconds)
	assert.Equal(t, 13.0, s.EndSeconds)
	assert.Equal(t, 3.0, s.DurationSeconds)
	assert.True(t, s.HasGoal)
	assert.True(t, s.HasShot)
	assert.Equal(t, 1, s.SequenceNumber)
}

func TestZoneChangePlayBoundary(t *testing.T) {
	mk := func(index int, start float64, zone string) model.RawEvent {
		e := event(index, "Pass", start)
		e.Zone = zone
		return e
	}
	events := []model.RawEvent{
		mk(1, 0, "NZ"),
		mk(2, 1, "NZ"),
		mk(3, 2, "OZ"),
		mk(4, 3, "OZ"),
	}
	_, plays, _ := Segment(1, events, Options{PlayBoundary: ZoneChange})

	require.Len(t, plays, 2)
	assert.Equal(t, 2, plays[0].EventCount)
	assert.Equal(t, 2, plays[1].EventCount)
	assert.Equal(t, 2, plays[1].PlayNumber)
}

func TestMonotonicSequenceNumbers(t *testing.T) {
	events := []model.RawEvent{
		event(1, "Faceoff", 0),
		event(2, "Faceoff", 1),
		event(3, "Faceoff", 2),
	}
	seqs, _, _ := Segment(1, events, Options{})
	require.Len(t, seqs, 3)
	for i, s := range seqs {
		assert.Equal(t, i+1, s.SequenceNumber)
	}
}

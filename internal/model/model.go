package model

import (
	"strconv"
	"strings"
)

// Venue identifies which bench a player or event belongs to.
type Venue int

const (
	VenueUnknown Venue = 0
	VenueHome    Venue = 1
	VenueAway    Venue = 2
)

func (v Venue) String() string {
	switch v {
	case VenueHome:
		return "home"
	case VenueAway:
		return "away"
	default:
		return "?"
	}
}

// Opposite returns the other bench. Unknown maps to unknown.
func (v Venue) Opposite() Venue {
	switch v {
	case VenueHome:
		return VenueAway
	case VenueAway:
		return VenueHome
	default:
		return VenueUnknown
	}
}

// ParseVenue accepts the venue labels used by the tracking exports.
func ParseVenue(s string) Venue {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "h":
		return VenueHome
	case "away", "a", "visitor":
		return VenueAway
	default:
		return VenueUnknown
	}
}

// Game is one schedule entry.
type Game struct {
	ID            int    `csv:"game_id"`
	HomeTeamID    string `csv:"home_team_id"`
	AwayTeamID    string `csv:"away_team_id"`
	Periods       int    `csv:"periods"`
	PeriodSeconds int    `csv:"period_seconds"`
}

// WallClockSeconds returns the regulation length of the game.
func (g *Game) WallClockSeconds() float64 {
	periods := g.Periods
	if periods == 0 {
		periods = 3
	}
	perPeriod := g.PeriodSeconds
	if perPeriod == 0 {
		perPeriod = 1200
	}
	return float64(periods * perPeriod)
}

// TeamID returns the team id for a venue, or "" if unknown.
func (g *Game) TeamID(v Venue) string {
	switch v {
	case VenueHome:
		return g.HomeTeamID
	case VenueAway:
		return g.AwayTeamID
	default:
		return ""
	}
}

// ---- Raw per-game inputs (read-only) ----

// RawShift is one row of the wide shift chart: a new row is cut whenever any
// skater on either bench changes, so shift_index is a global counter, not a
// per-player one.
type RawShift struct {
	ShiftIndex      int     `csv:"shift_index"`
	Period          int     `csv:"period"`
	DurationSeconds float64 `csv:"shift_duration_seconds"`
	StoppageSeconds float64 `csv:"stoppage_time"`
	Situation       string  `csv:"situation"`
	Strength        string  `csv:"strength"`

	HomeForward1 int `csv:"home_forward_1"`
	HomeForward2 int `csv:"home_forward_2"`
	HomeForward3 int `csv:"home_forward_3"`
	HomeDefense1 int `csv:"home_defense_1"`
	HomeDefense2 int `csv:"home_defense_2"`
	HomeExtra    int `csv:"home_extra"`
	HomeGoalie   int `csv:"home_goalie"`

	AwayForward1 int `csv:"away_forward_1"`
	AwayForward2 int `csv:"away_forward_2"`
	AwayForward3 int `csv:"away_forward_3"`
	AwayDefense1 int `csv:"away_defense_1"`
	AwayDefense2 int `csv:"away_defense_2"`
	AwayExtra    int `csv:"away_extra"`
	AwayGoalie   int `csv:"away_goalie"`

	HomeTeamPlus  int `csv:"home_team_plus"`
	HomeTeamMinus int `csv:"home_team_minus"`
	AwayTeamPlus  int `csv:"away_team_plus"`
	AwayTeamMinus int `csv:"away_team_minus"`

	ShiftStopType string `csv:"shift_stop_type"`

	GameID int `csv:"-"`
}

func (s *RawShift) plusFlag(v Venue) int {
	switch v {
	case VenueHome:
		return s.HomeTeamPlus
	case VenueAway:
		return s.AwayTeamPlus
	}
	return 0
}

func (s *RawShift) minusFlag(v Venue) int {
	switch v {
	case VenueHome:
		return s.HomeTeamMinus
	case VenueAway:
		return s.AwayTeamMinus
	}
	return 0
}

// GoalFor reports whether the given venue's team scored during this shift.
// Exports may flag a goal on either bench or both, so the opposing bench's
// minus column counts as well; one flag is enough to charge both ledgers.
func (s *RawShift) GoalFor(v Venue) bool {
	return s.plusFlag(v) > 0 || s.minusFlag(v.Opposite()) > 0
}

// GoalAgainst reports whether the given venue's team was scored on during this shift.
func (s *RawShift) GoalAgainst(v Venue) bool {
	return s.minusFlag(v) > 0 || s.plusFlag(v.Opposite()) > 0
}

// Timestamp is a nullable game-clock reading. A blank CSV cell stays unset
// instead of collapsing to t=0, which matters because 0 is a legitimate clock
// value (the opening faceoff).
type Timestamp struct {
	Seconds float64
	Valid   bool
}

// At returns a resolved timestamp, for building events in code.
func At(seconds float64) Timestamp {
	return Timestamp{Seconds: seconds, Valid: true}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller: empty cells parse to an
// unset timestamp, anything else must be a float.
func (t *Timestamp) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*t = Timestamp{Seconds: v, Valid: true}
	return nil
}

// RawEvent is one row of the tracked event stream. Some tracked rows carry no
// resolvable timestamp; those rows are kept but sit out boundary detection.
type RawEvent struct {
	EventIndex       int       `csv:"event_index"`
	Period           int       `csv:"period"`
	Type             string    `csv:"event_type"`
	Detail           string    `csv:"event_detail"`
	Detail2          string    `csv:"event_detail_2"`
	Successful       int       `csv:"event_successful"`
	Zone             string    `csv:"event_team_zone"`
	TeamVenue        string    `csv:"team_venue"`
	PlayerRole       string    `csv:"player_role"`
	PlayerJersey     int       `csv:"player_game_number"`
	StartSeconds     Timestamp `csv:"event_start_seconds"`
	EndSeconds       Timestamp `csv:"event_end_seconds"`
	LinkedEventIndex int       `csv:"linked_event_index"`

	GameID int `csv:"-"`
}

// HasStart reports whether the event carries a resolvable start time.
func (e *RawEvent) HasStart() bool {
	return e.StartSeconds.Valid
}

// Start returns the start time, or 0 when unresolved.
func (e *RawEvent) Start() float64 {
	return e.StartSeconds.Seconds
}

// End returns the end time, falling back to the start time.
func (e *RawEvent) End() float64 {
	if e.EndSeconds.Valid {
		return e.EndSeconds.Seconds
	}
	return e.Start()
}

// RosterEntry is one row of the per-game roster manifest.
type RosterEntry struct {
	JerseyNumber int    `csv:"jersey_number"`
	Venue        string `csv:"venue"`
	PlayerID     int    `csv:"player_id"`
	PlayerName   string `csv:"player_name"`
}

// ---- Derived entities (rebuilt in full each run) ----

// PlayerShiftInterval is the long-format projection of one roster slot of one
// raw shift row: one row per (game, shift_index, player).
type PlayerShiftInterval struct {
	Key    string
	GameID int

	PlayerID     *int // nil when the jersey did not resolve against the roster
	PlayerName   string
	Venue        Venue
	Slot         string
	JerseyNumber int

	ShiftIndex         int
	Period             int
	LogicalShiftNumber int
	ShiftSegment       int

	DurationSeconds float64
	StoppageSeconds float64
	PlayingSeconds  float64
	CumulativeTOI   float64 // running TOI over the per-player walk
	CumulativePlay  float64 // running playing TOI (TOI minus stoppage)

	Situation   string
	Strength    string
	GoalFor     int
	GoalAgainst int

	// Malformed marks a non-positive or inverted duration; such rows are kept
	// for event attribution but contribute nothing to TOI sums.
	Malformed bool

	TeamID *string
}

// Resolved reports whether the slot matched a roster entry.
func (i *PlayerShiftInterval) Resolved() bool {
	return i.PlayerID != nil
}

// Sequence is a maximal run of events with no possession-reset boundary.
type Sequence struct {
	Key    string
	GameID int

	SequenceNumber  int
	Period          int
	StartEventIndex int
	EndEventIndex   int
	EventCount      int

	HasShot      bool
	HasGoal      bool
	HasZoneEntry bool

	StartSeconds    float64
	EndSeconds      float64
	DurationSeconds float64

	EventChain string
}

// Play is a sub-segment of a sequence. The base segmentation maps one play per
// event; an injected boundary predicate can coarsen that.
type Play struct {
	Key         string
	SequenceKey *string
	GameID      int

	SequenceNumber  int
	PlayNumber      int
	StartEventIndex int
	EndEventIndex   int
	EventCount      int

	StartSeconds    float64
	EndSeconds      float64
	DurationSeconds float64

	EventChain string
}

// PairRelation distinguishes teammate pairs (WOWY basis) from cross-venue
// pairs (H2H basis).
type PairRelation int

const (
	RelationTeammates PairRelation = 1
	RelationOpponents PairRelation = 2
)

func (r PairRelation) String() string {
	switch r {
	case RelationTeammates:
		return "teammates"
	case RelationOpponents:
		return "opponents"
	default:
		return "?"
	}
}

// PairOverlap accumulates shared ice time for one unordered player pair in one
// game. Goal and shot-attempt ledgers use on-ice attribution: a goal flagged
// on a shift is credited to every player present, not only direct
// participants. "For" is always from player 1's bench perspective.
type PairOverlap struct {
	Key    string
	GameID int

	Player1ID   int
	Player1Name string
	Venue1      Venue
	Player2ID   int
	Player2Name string
	Venue2      Venue
	Relation    PairRelation

	ShiftsTogether      int
	TOITogetherSeconds  float64
	GoalsFor            int
	GoalsAgainst        int
	ShotAttemptsFor     int
	ShotAttemptsAgainst int

	// Totals and complements. The "without" counts are derived by subtraction
	// from the totals, never by an independent rescan, so
	// ShiftsTogether + P1ShiftsWithoutP2 == TotalP1Shifts always holds.
	TotalP1Shifts     int
	TotalP2Shifts     int
	P1ShiftsWithoutP2 int
	P2ShiftsWithoutP1 int

	Team1ID *string
	Team2ID *string
}

// CorsiDiff returns the shot-attempt differential from player 1's perspective.
func (p *PairOverlap) CorsiDiff() int {
	return p.ShotAttemptsFor - p.ShotAttemptsAgainst
}

// LineCombo accumulates ice time and outcomes for one (forward line, defense
// pair) deployment of one bench. Combo keys are order-independent.
type LineCombo struct {
	Key    string
	GameID int

	Venue        Venue
	ForwardCombo string
	DefenseCombo string

	Shifts       int
	TOISeconds   float64
	GoalsFor     int
	GoalsAgainst int
	CorsiFor     int
	CorsiAgainst int

	TeamID *string
}

// CorsiPct returns the share of on-ice shot attempts taken by this combo's team.
func (c *LineCombo) CorsiPct() float64 {
	total := c.CorsiFor + c.CorsiAgainst
	if total == 0 {
		return 0
	}
	return float64(c.CorsiFor) / float64(total) * 100
}

// PlayerGameSummary rolls one resolved player's consolidated intervals up to
// game level, for reports and the WOWY totals.
type PlayerGameSummary struct {
	Key    string
	GameID int

	PlayerID   int
	PlayerName string
	Venue      Venue

	LogicalShifts  int
	RawShiftRows   int
	TOISeconds     float64
	PlayingSeconds float64
	GoalsFor       int
	GoalsAgainst   int

	TeamID *string
}

// AvgShiftSeconds returns mean logical-shift length.
func (s *PlayerGameSummary) AvgShiftSeconds() float64 {
	if s.LogicalShifts == 0 {
		return 0
	}
	return s.TOISeconds / float64(s.LogicalShifts)
}

// WarningCounts tallies recoverable problems per category for one game.
type WarningCounts struct {
	MissingParent     int
	MalformedInterval int
	SegmentationGap   int
}

// Add merges another tally into this one.
func (w *WarningCounts) Add(other WarningCounts) {
	w.MissingParent += other.MissingParent
	w.MalformedInterval += other.MalformedInterval
	w.SegmentationGap += other.SegmentationGap
}

// Total returns the combined warning count.
func (w *WarningCounts) Total() int {
	return w.MissingParent + w.MalformedInterval + w.SegmentationGap
}

// GameOutput is the complete derived row set for one game. It is persisted
// atomically: either every table lands or none does.
type GameOutput struct {
	Game Game

	Intervals []PlayerShiftInterval
	Summaries []PlayerGameSummary
	Sequences []Sequence
	Plays     []Play
	Pairs     []PairOverlap
	Combos    []LineCombo

	Warnings WarningCounts
}

// GameFailure records one game that was excluded from the run.
type GameFailure struct {
	GameID   int
	Category string
	Message  string
}

// RunSummary is the per-run report handed back to the CLI.
type RunSummary struct {
	GamesProcessed int
	GamesFailed    int
	Failures       []GameFailure
	Warnings       WarningCounts
}

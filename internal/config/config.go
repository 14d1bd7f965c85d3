// Package config carries the runtime knobs of the pipeline as one explicit
// struct handed down from the CLI. Nothing here is mutable at module level;
// every component receives the config (or the piece of it) it needs.
package config

// Config stores runtime configuration for a pipeline run.
type Config struct {
	// SequenceGapSeconds is the possession-reset threshold: a time gap larger
	// than this between consecutive events opens a new sequence.
	SequenceGapSeconds float64

	// VenueSwapGames lists game ids whose tracking export has home and away
	// rosters transposed; the roster resolver inverts venue before matching.
	VenueSwapGames map[int]bool

	// SlotLayout names the roster-slot column layout of the shift chart.
	SlotLayout string

	// CorsiEventTypes is the set of event types counted as shot attempts.
	CorsiEventTypes map[string]bool

	// MaxWorkers bounds the per-game worker pool.
	MaxWorkers int
}

// Default returns the production configuration.
func Default() Config {
	return Config{
		SequenceGapSeconds: 5.0,
		VenueSwapGames: map[int]bool{
			// Games whose export transposed the home/away roster columns.
			14: true,
			27: true,
		},
		SlotLayout: "standard",
		CorsiEventTypes: map[string]bool{
			"Shot":         true,
			"Goal":         true,
			"Missed Shot":  true,
			"Blocked Shot": true,
		},
		MaxWorkers: 4,
	}
}

// IsVenueSwapped reports whether the given game needs venue inversion.
func (c *Config) IsVenueSwapped(gameID int) bool {
	return c.VenueSwapGames[gameID]
}

// IsCorsiEvent reports whether the event type counts as a shot attempt.
func (c *Config) IsCorsiEvent(eventType string) bool {
	return c.CorsiEventTypes[eventType]
}

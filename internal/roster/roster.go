// Package roster maps (venue, jersey number) to stable player identities for
// one game, built once per game from the roster manifest.
package roster

import (
	"go.uber.org/zap"

	"github.com/rinkstats/go-shift-metrics/internal/config"
	"github.com/rinkstats/go-shift-metrics/internal/model"
)

// PlayerRef is a resolved roster identity.
type PlayerRef struct {
	PlayerID   int
	PlayerName string
}

type lookupKey struct {
	venue  model.Venue
	jersey int
}

// Resolver resolves jersey numbers against one game's roster manifest. A
// handful of exports have the home and away roster columns transposed; for
// those games (named in the config exception list) the resolver inverts the
// requested venue before matching.
type Resolver struct {
	gameID  int
	swapped bool
	byKey   map[lookupKey]PlayerRef
	log     *zap.Logger
}

// New builds a resolver for the given game from its roster manifest.
func New(gameID int, entries []model.RosterEntry, cfg *config.Config, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		gameID:  gameID,
		swapped: cfg.IsVenueSwapped(gameID),
		byKey:   make(map[lookupKey]PlayerRef, len(entries)),
		log:     log,
	}
	for _, e := range entries {
		v := model.ParseVenue(e.Venue)
		if v == model.VenueUnknown || e.JerseyNumber <= 0 {
			continue
		}
		r.byKey[lookupKey{v, e.JerseyNumber}] = PlayerRef{
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
		}
	}
	if r.swapped {
		r.log.Info("venue-swap game, inverting roster venues", zap.Int("game_id", gameID))
	}
	return r
}

// Resolve returns the player for a (venue, jersey) slot. ok is false when the
// jersey has no roster match; callers keep the raw row with a null player id
// and drop it from pairwise analytics.
func (r *Resolver) Resolve(venue model.Venue, jersey int) (PlayerRef, bool) {
	if jersey <= 0 {
		return PlayerRef{}, false
	}
	if r.swapped {
		venue = venue.Opposite()
	}
	ref, ok := r.byKey[lookupKey{venue, jersey}]
	if !ok {
		r.log.Warn("unresolved jersey number",
			zap.Int("game_id", r.gameID),
			zap.Stringer("venue", venue),
			zap.Int("jersey", jersey))
	}
	return ref, ok
}

// Size returns the number of resolvable roster entries.
func (r *Resolver) Size() int {
	return len(r.byKey)
}

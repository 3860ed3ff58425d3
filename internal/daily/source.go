package daily

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hang10/internal/puzzle"
)

// Published looks up the published set for a date. Implementations return
// ok=false when nothing is published.
type Published interface {
	PublishedSet(ctx context.Context, date string) (set puzzle.DailySet, ok bool, err error)
}

// Source resolves the set to play on a date: the published one when it
// exists, otherwise a deterministic pick from the fallback list.
type Source struct {
	published Published
	fallback  []puzzle.DailySet
	salt      string
}

// NewSource builds a Source. published may be nil (fallback only).
func NewSource(published Published, fallback []puzzle.DailySet, salt string) *Source {
	return &Source{published: published, fallback: fallback, salt: salt}
}

// ErrNoPuzzles is returned when neither a published nor a fallback set exists.
var ErrNoPuzzles = errors.New("no puzzles available")

// FetchDailySet returns the set for date. Lookup failures fall through to
// the fallback list so the game stays playable.
func (s *Source) FetchDailySet(ctx context.Context, date string) (puzzle.DailySet, error) {
	if s.published != nil {
		set, ok, err := s.published.PublishedSet(ctx, date)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("date", date).Msg("published set lookup failed; using fallback")
		case ok:
			return set, nil
		}
	}
	if len(s.fallback) == 0 {
		return puzzle.DailySet{}, ErrNoPuzzles
	}
	set := s.fallback[FallbackIndex(date, s.salt, len(s.fallback))]
	set.Date = date
	return set, nil
}

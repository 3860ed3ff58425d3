// internal/puzzle/types.go
//
// Core data model shared by the authoring path and the game engine.
// Defines:
//   - Puzzle:   one clue/answer pair plus its persisted reveal order.
//   - DailySet: the five puzzles assigned to one calendar date.
//   - LetterSet: a small set of upper-cased letters (guessed or revealed).

package puzzle

import (
	"encoding/json"
	"sort"
)

// SetSize is the number of puzzles in every daily set.
const SetSize = 5

// Puzzle is a single clue/answer pair.
//
// RevealOrder is computed once on the save path (see Prepare) and persisted
// verbatim; play time only ever reads it.
type Puzzle struct {
	Clue        string   `json:"clue"`
	Answer      string   `json:"answer"`
	RevealOrder []string `json:"revealOrder"`
	Comment     string   `json:"comment,omitempty"` // editor-only note, never shown to players
}

// DailySet is the ordered list of puzzles played on Date (YYYY-MM-DD, game timezone).
type DailySet struct {
	Date    string   `json:"date"`
	Puzzles []Puzzle `json:"puzzles"`
	Author  string   `json:"author,omitempty"`
}

// LetterSet holds upper-cased letters. The zero value is not usable; use NewLetterSet.
type LetterSet map[rune]struct{}

// NewLetterSet builds a set from single-letter strings. Longer strings
// contribute every rune they contain.
func NewLetterSet(letters ...string) LetterSet {
	s := make(LetterSet, len(letters))
	for _, l := range letters {
		for _, r := range l {
			s[r] = struct{}{}
		}
	}
	return s
}

// Has reports whether r is in the set.
func (s LetterSet) Has(r rune) bool {
	_, ok := s[r]
	return ok
}

// Add inserts r.
func (s LetterSet) Add(r rune) { s[r] = struct{}{} }

// Clone returns an independent copy of s.
func (s LetterSet) Clone() LetterSet {
	c := make(LetterSet, len(s))
	for r := range s {
		c[r] = struct{}{}
	}
	return c
}

// Len returns the number of letters held.
func (s LetterSet) Len() int { return len(s) }

// Sorted returns the letters in code-point order.
func (s LetterSet) Sorted() []string {
	rs := make([]rune, 0, len(s))
	for r := range s {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// MarshalJSON encodes the set as a sorted array so output is stable.
func (s LetterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of letters.
func (s *LetterSet) UnmarshalJSON(b []byte) error {
	var letters []string
	if err := json.Unmarshal(b, &letters); err != nil {
		return err
	}
	*s = NewLetterSet(letters...)
	return nil
}

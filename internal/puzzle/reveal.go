package puzzle

import (
	"sort"
	"strings"
)

// revealKey is the fixed ordering key for a letter. It depends only on the
// letter itself so the derived order is identical on every machine.
func revealKey(c byte) int { return (int(c)*13 + 7) % 100 }

// DeriveRevealOrder returns the unique A–Z letters of answer (after ASCII
// upper-casing) sorted by revealKey ascending. Letters with equal keys keep
// their first-occurrence order.
//
// Only the save path calls this; play time reads Puzzle.RevealOrder.
func DeriveRevealOrder(answer string) []string {
	var seen [26]bool
	letters := make([]byte, 0, 26)
	for i := 0; i < len(answer); i++ {
		c := answer[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' || seen[c-'A'] {
			continue
		}
		seen[c-'A'] = true
		letters = append(letters, c)
	}
	sort.SliceStable(letters, func(i, j int) bool {
		return revealKey(letters[i]) < revealKey(letters[j])
	})
	out := make([]string, len(letters))
	for i, c := range letters {
		out[i] = string(c)
	}
	return out
}

// Prepare upper-cases the answer and stamps a freshly derived reveal order.
// This is the editorial save-path normalization.
func Prepare(p Puzzle) Puzzle {
	p.Answer = strings.ToUpper(p.Answer)
	p.RevealOrder = DeriveRevealOrder(p.Answer)
	return p
}

// PrepareSet applies Prepare to every puzzle of the set, returning a copy.
func PrepareSet(ds DailySet) DailySet {
	out := ds
	out.Puzzles = make([]Puzzle, len(ds.Puzzles))
	for i, p := range ds.Puzzles {
		out.Puzzles[i] = Prepare(p)
	}
	return out
}

// RevealFirst returns the first n letters of the puzzle's persisted reveal
// order. n <= 0 yields an empty set.
func RevealFirst(p Puzzle, n int) LetterSet {
	s := NewLetterSet()
	if n <= 0 {
		return s
	}
	if n > len(p.RevealOrder) {
		n = len(p.RevealOrder)
	}
	for _, l := range p.RevealOrder[:n] {
		for _, r := range strings.ToUpper(l) {
			s.Add(r)
		}
	}
	return s
}

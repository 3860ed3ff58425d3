package puzzle

import "strings"

// IsSolved reports whether every non-space character of the answer is in
// guessed or revealed.
func IsSolved(p Puzzle, guessed, revealed LetterSet) bool {
	for _, r := range strings.ToUpper(p.Answer) {
		if r == ' ' {
			continue
		}
		if !guessed.Has(r) && !revealed.Has(r) {
			return false
		}
	}
	return true
}

// Board renders the answer with every unaccounted character replaced by '_'.
// Spaces are kept so word breaks stay visible.
func Board(p Puzzle, guessed, revealed LetterSet) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(p.Answer) {
		switch {
		case r == ' ', guessed.Has(r), revealed.Has(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// internal/puzzle/validate.go
//
// Authoring-time checks run before a puzzle set may leave draft.
//
// Rules:
//   - Exactly SetSize slots.
//   - Outside drafts every clue and answer is non-empty.
//   - A non-empty answer is at most MaxAnswerLen characters, has no word
//     longer than MaxWordLen, and uses only A–Z, space and Punctuation
//     after upper-casing.
//   - A non-empty clue is at most MaxClueLen characters.
//
// The first violation wins; slots are scanned in play order.

package puzzle

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultPunctuation is the answer punctuation the portal currently accepts.
const DefaultPunctuation = `'"“”-,&.?!`

// Rules holds the injectable validation limits.
type Rules struct {
	MaxAnswerLen int    // total characters, spaces included
	MaxWordLen   int    // per whitespace-delimited word
	MaxClueLen   int    // total characters
	Punctuation  string // allowed non-letter, non-space answer characters
}

// DefaultRules returns the current editorial limits.
func DefaultRules() Rules {
	return Rules{
		MaxAnswerLen: 200,
		MaxWordLen:   15,
		MaxClueLen:   200,
		Punctuation:  DefaultPunctuation,
	}
}

// ValidationError identifies the offending slot (1-based) and rule.
// Slot is 0 when the set as a whole is malformed.
type ValidationError struct {
	Slot int
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

func slotErr(slot int, format string, args ...any) *ValidationError {
	return &ValidationError{Slot: slot, Msg: fmt.Sprintf("Puzzle #%d ", slot) + fmt.Sprintf(format, args...)}
}

// Validate checks a whole set. It returns nil or a *ValidationError.
func (r Rules) Validate(puzzles []Puzzle, isDraft bool) error {
	if len(puzzles) > SetSize {
		return &ValidationError{Msg: fmt.Sprintf("Puzzle set has %d slots; exactly %d are required.", len(puzzles), SetSize)}
	}
	for i := 0; i < SetSize; i++ {
		if i >= len(puzzles) {
			return slotErr(i+1, "is missing (internal error).")
		}
		if err := r.CheckSlot(i+1, puzzles[i], isDraft); err != nil {
			return err
		}
	}
	return nil
}

// CheckSlot validates one puzzle as slot n (1-based).
func (r Rules) CheckSlot(n int, p Puzzle, isDraft bool) error {
	if !isDraft {
		if p.Clue == "" {
			return slotErr(n, "is missing a clue.")
		}
		if p.Answer == "" {
			return slotErr(n, "is missing an answer.")
		}
	}

	if p.Answer != "" {
		if utf8.RuneCountInString(p.Answer) > r.MaxAnswerLen {
			return slotErr(n, "answer is too long (max %d chars).", r.MaxAnswerLen)
		}
		for _, w := range strings.Fields(p.Answer) {
			if utf8.RuneCountInString(w) > r.MaxWordLen {
				return slotErr(n, "contains a word longer than %d characters.", r.MaxWordLen)
			}
		}
		if !r.allowedAnswer(strings.ToUpper(p.Answer)) {
			return slotErr(n, "answer contains invalid characters (A-Z, space, %s only).", r.describePunctuation())
		}
	}

	if p.Clue != "" && utf8.RuneCountInString(p.Clue) > r.MaxClueLen {
		return slotErr(n, "clue is too long (max %d chars).", r.MaxClueLen)
	}
	return nil
}

func (r Rules) allowedAnswer(s string) bool {
	for _, c := range s {
		if (c >= 'A' && c <= 'Z') || c == ' ' {
			continue
		}
		if !strings.ContainsRune(r.Punctuation, c) {
			return false
		}
	}
	return true
}

func (r Rules) describePunctuation() string {
	if r.Punctuation == "" {
		return "no punctuation"
	}
	parts := make([]string, 0, utf8.RuneCountInString(r.Punctuation))
	for _, c := range r.Punctuation {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, " ")
}

// Validate checks puzzles against DefaultRules.
func Validate(puzzles []Puzzle, isDraft bool) error {
	return DefaultRules().Validate(puzzles, isDraft)
}

// internal/game/engine.go
//
// Core game engine for a single Hang 10 session.
// Responsibilities:
//   - Create sessions from a five-puzzle daily set with the opening momentum reveal.
//   - Apply one letter guess at a time: strikes, per-level strikes, solve checks.
//   - Advance levels with the momentum bonus drawn from the persisted reveal order.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - A guess that reaches MaxStrikes loses immediately, before any solve check.
//   - Late and duplicate guesses are ignored; they are not errors.
//   - The engine never derives reveal orders; it only reads Puzzle.RevealOrder.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/robalobadob/hang10/internal/puzzle"
)

// New constructs a session for set. The set must hold exactly Levels puzzles.
func New(set puzzle.DailySet) (*Game, error) {
	if len(set.Puzzles) != Levels {
		return nil, fmt.Errorf("daily set %s has %d puzzles, want %d", set.Date, len(set.Puzzles), Levels)
	}
	return &Game{
		ID:       randomID(),
		Set:      set,
		Guessed:  puzzle.NewLetterSet(),
		Revealed: puzzle.RevealFirst(set.Puzzles[0], BaseMomentum),
		Status:   StatusPlaying,
	}, nil
}

// Momentum returns how many letters the next puzzle starts with, given the
// strikes taken on the puzzle just solved.
func Momentum(strikesOnLevel int) int {
	return max(0, BaseMomentum-strikesOnLevel)
}

// Current returns the puzzle being played.
func (g *Game) Current() puzzle.Puzzle { return g.Set.Puzzles[g.Level] }

// Finished reports whether the session reached a terminal state.
func (g *Game) Finished() bool { return g.Status != StatusPlaying }

// ApplyGuess processes one letter.
//
// State transitions:
//   - Terminal state, unusable input, or a letter already guessed/revealed → no-op.
//   - Wrong letter → Strikes and StrikesPerLevel[Level] increment.
//   - Strikes reaching MaxStrikes → lost (checked before solving).
//   - Puzzle solved on the last level → won.
//   - Puzzle solved earlier → next level with Momentum reveals and a fresh guess set.
func (g *Game) ApplyGuess(letter string) Move {
	if g.Finished() {
		return g.noop("")
	}
	r, ok := normalize(letter)
	if !ok {
		return g.noop("")
	}
	l := string(r)
	if g.Guessed.Has(r) || g.Revealed.Has(r) {
		return g.noop(l)
	}

	cur := g.Current()
	correct := strings.ContainsRune(strings.ToUpper(cur.Answer), r)
	g.Guessed.Add(r)
	g.Log = append(g.Log, GuessLog{PuzzleIndex: g.Level, Letter: l, IsCorrect: correct})

	if !correct {
		g.Strikes++
		g.StrikesPerLevel[g.Level]++
	}

	mv := Move{Letter: l, Accepted: true, Correct: correct}

	if g.Strikes >= MaxStrikes {
		g.Status = StatusLost
		return g.finish(mv)
	}

	if !puzzle.IsSolved(cur, g.Guessed, g.Revealed) {
		return g.finish(mv)
	}

	if g.Level == Levels-1 {
		g.Status = StatusWon
		return g.finish(mv)
	}

	bonus := Momentum(g.StrikesPerLevel[g.Level])
	g.Level++
	g.Revealed = puzzle.RevealFirst(g.Set.Puzzles[g.Level], bonus)
	g.Guessed = puzzle.NewLetterSet()
	mv.Advanced = true
	return g.finish(mv)
}

func (g *Game) noop(letter string) Move {
	return Move{Letter: letter, Level: g.Level, Status: g.Status}
}

func (g *Game) finish(mv Move) Move {
	mv.Level = g.Level
	mv.Status = g.Status
	return mv
}

// normalize upper-cases a single-rune guess. Empty, whitespace, control and
// multi-rune input is rejected.
func normalize(s string) (rune, bool) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsSpace(r) || unicode.IsControl(r) {
		return 0, false
	}
	return unicode.ToUpper(r), true
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

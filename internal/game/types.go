// internal/game/types.go
//
// Core type definitions for the Hang 10 game engine.
// Defines:
//   - Status: playing / won / lost.
//   - Game:   state of one daily session (five puzzles, shared strikes).
//   - Move:   what a single ApplyGuess call did.
//   - GuessLog: one accepted guess, kept for the game-event record.

package game

import "github.com/robalobadob/hang10/internal/puzzle"

// Status is the coarse session state. Won and lost are terminal.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

const (
	// MaxStrikes ends the session as lost once reached.
	MaxStrikes = 5
	// BaseMomentum is the reveal count for the first puzzle and the
	// ceiling for every later one.
	BaseMomentum = 2
	// Levels is the number of puzzles played per day.
	Levels = puzzle.SetSize
)

// Game holds the state of a single session.
type Game struct {
	ID              string           // Unique session identifier (random hex string).
	Set             puzzle.DailySet  // Read-only after construction.
	Level           int              // Index into Set.Puzzles, 0..Levels-1.
	Strikes         int              // Wrong guesses across the whole session.
	StrikesPerLevel [Levels]int      // Wrong guesses per puzzle; drives momentum.
	Guessed         puzzle.LetterSet // Letters guessed on the current puzzle only.
	Revealed        puzzle.LetterSet // Momentum reveals for the current puzzle.
	Status          Status
	Log             []GuessLog // Accepted guesses in order.
}

// GuessLog records one accepted guess.
type GuessLog struct {
	PuzzleIndex int    `json:"puzzleIndex"`
	Letter      string `json:"letter"`
	IsCorrect   bool   `json:"isCorrect"`
}

// Move reports the effect of one ApplyGuess call.
// Accepted is false for silent no-ops (terminal state, duplicate, or
// unusable input); nothing else in the Move is meaningful then except Status.
type Move struct {
	Letter   string `json:"letter"`
	Accepted bool   `json:"accepted"`
	Correct  bool   `json:"correct"`
	Advanced bool   `json:"advanced"` // solved a puzzle and moved to the next one
	Level    int    `json:"level"`    // level after the move
	Status   Status `json:"status"`
}

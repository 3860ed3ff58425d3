package game

import "github.com/robalobadob/hang10/internal/puzzle"

// View is the player-facing snapshot of a session. Answers of puzzles the
// player has not reached or solved are withheld until the session ends.
type View struct {
	ID              string           `json:"gameId"`
	Date            string           `json:"date"`
	Level           int              `json:"level"`
	Clue            string           `json:"clue"`
	Board           string           `json:"board"`
	Strikes         int              `json:"strikes"`
	StrikesPerLevel [Levels]int      `json:"strikesPerLevel"`
	Guessed         puzzle.LetterSet `json:"guessedLetters"`
	Revealed        puzzle.LetterSet `json:"revealedLetters"`
	Status          Status           `json:"status"`
	Solved          []string         `json:"solved"`            // answers of completed puzzles
	Answers         []string         `json:"answers,omitempty"` // every answer, terminal only
}

// Board renders the current puzzle with unknown characters masked.
func (g *Game) Board() string {
	return puzzle.Board(g.Current(), g.Guessed, g.Revealed)
}

// Snapshot builds the player-facing view. The view shares no mutable state
// with g, so it can be encoded after the session lock is released.
func (g *Game) Snapshot() View {
	v := View{
		ID:              g.ID,
		Date:            g.Set.Date,
		Level:           g.Level,
		Clue:            g.Current().Clue,
		Board:           g.Board(),
		Strikes:         g.Strikes,
		StrikesPerLevel: g.StrikesPerLevel,
		Guessed:         g.Guessed.Clone(),
		Revealed:        g.Revealed.Clone(),
		Status:          g.Status,
		Solved:          []string{},
	}
	for i := 0; i < g.Level; i++ {
		v.Solved = append(v.Solved, g.Set.Puzzles[i].Answer)
	}
	if g.Finished() {
		for _, p := range g.Set.Puzzles {
			v.Answers = append(v.Answers, p.Answer)
		}
	}
	return v
}

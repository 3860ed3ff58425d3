package assets

import (
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/hang10/internal/puzzle"
)

func TestEmbeddedFallbackSetsAreValid(t *testing.T) {
	sets, err := FallbackSets(puzzle.DefaultRules())
	if err != nil {
		t.Fatalf("FallbackSets: %v", err)
	}
	if len(sets) == 0 {
		t.Fatal("no fallback sets embedded")
	}
	for i, s := range sets {
		for j, p := range s.Puzzles {
			if len(p.RevealOrder) == 0 {
				t.Errorf("set %d puzzle %d has no reveal order", i+1, j+1)
			}
		}
	}
}

func TestMalformedFallbackRejected(t *testing.T) {
	cases := map[string]string{
		"short set":  `[{"puzzles":[{"clue":"c","answer":"CAT"}]}]`,
		"empty clue": `[{"puzzles":[{"clue":"","answer":"A"},{"clue":"b","answer":"B"},{"clue":"c","answer":"C"},{"clue":"d","answer":"D"},{"clue":"e","answer":"E"}]}]`,
		"bad answer": `[{"puzzles":[{"clue":"a","answer":"A1"},{"clue":"b","answer":"B"},{"clue":"c","answer":"C"},{"clue":"d","answer":"D"},{"clue":"e","answer":"E"}]}]`,
		"not json":   `{`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := decodeFallback([]byte(doc), puzzle.DefaultRules()); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := decodeFallback([]byte(cases["bad answer"]), puzzle.DefaultRules())
	var ve *puzzle.ValidationError
	if !errors.As(err, &ve) || ve.Slot != 1 || !strings.HasPrefix(err.Error(), "fallback set 1:") {
		t.Fatalf("err = %v", err)
	}
}

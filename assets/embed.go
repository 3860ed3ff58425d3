// assets/embed.go
//
// Files compiled into the binary:
//   - sql/*.sql      schema migrations, applied in lexical order.
//   - fallback.json  daily sets served when nothing is published for a date.

package assets

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/robalobadob/hang10/internal/puzzle"
)

//go:embed sql/*.sql fallback.json
var FS embed.FS

// Migrations returns the migration directory rooted at sql/.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}

// FallbackSets decodes the embedded fallback sets, checks each against rules
// at publish level and prepares each puzzle (upper-cased answer, derived
// reveal order) once, the same way the portal save path does.
func FallbackSets(rules puzzle.Rules) ([]puzzle.DailySet, error) {
	b, err := FS.ReadFile("fallback.json")
	if err != nil {
		return nil, err
	}
	return decodeFallback(b, rules)
}

func decodeFallback(b []byte, rules puzzle.Rules) ([]puzzle.DailySet, error) {
	var sets []puzzle.DailySet
	if err := json.Unmarshal(b, &sets); err != nil {
		return nil, err
	}
	for i := range sets {
		if err := rules.Validate(sets[i].Puzzles, false); err != nil {
			return nil, fmt.Errorf("fallback set %d: %w", i+1, err)
		}
		sets[i] = puzzle.PrepareSet(sets[i])
	}
	return sets, nil
}

// cmd/seed loads puzzle sets from a JSON file into the database through the
// same save path the portal uses, so answers are normalized and reveal
// orders derived.
//
// Usage:
//
//	seed [-status published] [-actor seed] sets.json
//
// The file holds an array of {"date", "author", "puzzles": [{"clue", "answer"}]}.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hang10/assets"
	"github.com/robalobadob/hang10/internal/authoring"
	"github.com/robalobadob/hang10/internal/config"
	"github.com/robalobadob/hang10/internal/puzzle"
	"github.com/robalobadob/hang10/internal/sqlitedb"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	status := flag.String("status", string(authoring.StatusPublished), "workflow status for every set")
	actor := flag.String("actor", "seed", "recorded as approver when publishing")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal().Msg("usage: seed [-status s] [-actor a] sets.json")
	}

	b, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("read input")
	}
	var sets []puzzle.DailySet
	if err := json.Unmarshal(b, &sets); err != nil {
		log.Fatal().Err(err).Msg("decode input")
	}

	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := sqlitedb.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	svc := authoring.NewService(authoring.NewRepository(db), cfg.Rules, nil)
	ctx := context.Background()
	saved := 0
	for _, set := range sets {
		if _, err := svc.Save(ctx, authoring.Document{DailySet: set}, authoring.Status(*status), *actor); err != nil {
			log.Error().Err(err).Str("date", set.Date).Msg("skip set")
			continue
		}
		saved++
	}
	log.Info().Int("saved", saved).Int("total", len(sets)).Msg("seed complete")
}

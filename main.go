package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hang10/assets"
	"github.com/robalobadob/hang10/internal/analytics"
	"github.com/robalobadob/hang10/internal/authoring"
	"github.com/robalobadob/hang10/internal/cache"
	"github.com/robalobadob/hang10/internal/config"
	"github.com/robalobadob/hang10/internal/daily"
	"github.com/robalobadob/hang10/internal/httpserver"
	"github.com/robalobadob/hang10/internal/sqlitedb"
	"github.com/robalobadob/hang10/internal/stats"
	"github.com/robalobadob/hang10/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cal, err := daily.LoadCalendar(cfg.GameTZ)
	if err != nil {
		log.Fatal().Err(err).Msg("game timezone")
	}

	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := sqlitedb.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	fallback, err := assets.FallbackSets(cfg.Rules)
	if err != nil {
		log.Fatal().Err(err).Msg("load fallback puzzles")
	}

	var gen authoring.Generator = authoring.MockGenerator{}
	if cfg.GeminiAPIKey != "" {
		gen = authoring.NewGeminiGenerator(authoring.GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; using mock puzzle generator")
	}

	repo := authoring.NewRepository(db)
	results := daily.NewResults(db)
	logs := analytics.NewStore(db)
	sink := analytics.NewAsyncSink(logs, 5*time.Second)

	var lb cache.Leaderboard = cache.NewResultsLeaderboard(results)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; leaderboard served from sqlite")
		} else {
			lb = cache.NewRedisLeaderboard(rdb)
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis leaderboard enabled")
		}
		cancel()
	}

	srv := httpserver.New(httpserver.Deps{
		DB:          db,
		Sessions:    store.NewMemoryStore(),
		Calendar:    cal,
		Source:      daily.NewSource(repo, fallback, cfg.DailySalt),
		Results:     results,
		Stats:       stats.NewSQLiteStore(db),
		Leaderboard: lb,
		Analytics:   sink,
		Logs:        logs,
		Authoring:   authoring.NewService(repo, cfg.Rules, gen),
		Auth: httpserver.AuthConfig{
			Secret:         cfg.JWTSecret,
			ExpiresDays:    cfg.JWTExpiresDays,
			CookieName:     cfg.CookieName,
			Production:     cfg.Production,
			AdminUsernames: cfg.AdminUsernames,
		},
		ClientOrigin: cfg.ClientOrigin,
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Str("tz", cal.Loc.String()).Msg("starting hang10 server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	sink.Wait()
}

// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily game.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's session
//   - POST /daily/guess       → guess one letter in a session
//   - GET  /daily/leaderboard → top results for today (or a given date)
//
// Each owner plays once per day: a stored result short-circuits /daily/new.
// Live sessions are held in memory; when one finishes the result, stats,
// leaderboard entry and game log are written best-effort.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hang10/internal/analytics"
	"github.com/robalobadob/hang10/internal/daily"
	"github.com/robalobadob/hang10/internal/game"
	"github.com/robalobadob/hang10/internal/puzzle"
	"github.com/robalobadob/hang10/internal/stats"
	"github.com/robalobadob/hang10/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Post("/guess", s.handleDailyGuess)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new. Game is absent when already played.
type newRes struct {
	Date   string        `json:"date"`
	Played bool          `json:"played"`
	Result *daily.Result `json:"result,omitempty"`
	Game   *game.View    `json:"game,omitempty"`
}

// handleDailyNew returns the stored result if the owner already finished
// today, otherwise resumes or creates today's session.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := s.ownerID(w, r)
	date := s.Calendar.Today()

	res, err := s.Results.Get(ctx, owner, date)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Str("date", date).Msg("load result")
	}
	if res != nil {
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: true, Result: res})
		return
	}

	if sess, err := s.Sessions.ForOwner(ctx, owner, date); err == nil {
		sess.Lock()
		v := sess.Game.Snapshot()
		sess.Unlock()
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Game: &v})
		return
	}

	set, err := s.Source.FetchDailySet(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("fetch daily set")
		http.Error(w, `{"error":"no_puzzles"}`, http.StatusServiceUnavailable)
		return
	}
	sess, err := s.startSession(ctx, set, owner, false)
	if err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	v := sess.Game.Snapshot()
	_ = json.NewEncoder(w).Encode(newRes{Date: date, Game: &v})
}

// startSession creates and stores a session over set.
func (s *Server) startSession(ctx context.Context, set puzzle.DailySet, owner string, preview bool) (*store.Session, error) {
	g, err := game.New(set)
	if err != nil {
		log.Error().Err(err).Str("date", set.Date).Msg("start game")
		return nil, err
	}
	sess := &store.Session{Game: g, OwnerID: owner, Preview: preview}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		log.Error().Err(err).Msg("save session")
		return nil, err
	}
	return sess, nil
}

// -----------------------------------------------------------------------------
// /daily/guess

type guessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

type guessRes struct {
	Move game.Move `json:"move"`
	Game game.View `json:"game"`
}

// handleDailyGuess applies one letter to a session owned by the caller.
// Guesses after the end, repeats and unusable input come back with
// move.accepted=false and an unchanged view.
func (s *Server) handleDailyGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.Sessions.Get(r.Context(), req.GameID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	if sess.OwnerID != s.ownerID(w, r) {
		http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
		return
	}

	sess.Lock()
	wasPlaying := !sess.Game.Finished()
	mv := sess.Game.ApplyGuess(req.Letter)
	view := sess.Game.Snapshot()
	finished := wasPlaying && sess.Game.Finished()
	var gl analytics.GameLog
	if finished {
		gl = gameLog(sess)
	}
	sess.Unlock()

	if finished && !sess.Preview {
		s.recordFinished(r.Context(), gl)
	}
	_ = json.NewEncoder(w).Encode(guessRes{Move: mv, Game: view})
}

// gameLog builds the finished-game record. Caller holds the session lock.
func gameLog(sess *store.Session) analytics.GameLog {
	g := sess.Game
	won := g.Status == game.StatusWon
	return analytics.GameLog{
		OwnerID: sess.OwnerID,
		Date:    g.Set.Date,
		Status:  string(g.Status),
		Strikes: g.Strikes,
		Score:   stats.Score(won, g.Strikes),
		Guesses: append([]game.GuessLog(nil), g.Log...),
	}
}

// recordFinished persists a finished game. Every step is best-effort:
// failures are logged and never surface to the player. The writes are
// detached from ctx cancellation so a disconnect or handler timeout does not
// drop them.
func (s *Server) recordFinished(ctx context.Context, gl analytics.GameLog) {
	ctx = context.WithoutCancel(ctx)
	won := gl.Status == string(game.StatusWon)
	l := log.With().Str("owner", gl.OwnerID).Str("date", gl.Date).Logger()

	prev, err := s.Stats.Load(ctx, gl.OwnerID)
	if err != nil {
		l.Warn().Err(err).Msg("load stats")
	} else if err := s.Stats.Save(ctx, gl.OwnerID, stats.RecordGame(prev, won, gl.Strikes, gl.Date)); err != nil {
		l.Warn().Err(err).Msg("save stats")
	}

	res := daily.Result{OwnerID: gl.OwnerID, Date: gl.Date, Status: gl.Status, Strikes: gl.Strikes, Score: gl.Score}
	if err := s.Results.Insert(ctx, res); err != nil {
		l.Warn().Err(err).Msg("insert result")
	}
	if err := s.Leaderboard.Record(ctx, res); err != nil {
		l.Warn().Err(err).Msg("record leaderboard")
	}
	if s.Analytics != nil {
		if err := s.Analytics.Log(ctx, gl); err != nil {
			l.Warn().Err(err).Msg("log game")
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
// Rows carry display names only.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.Calendar.Today()
	} else if _, err := s.Calendar.Parse(date); err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.Leaderboard.Top(r.Context(), date, limit)
	if err != nil {
		log.Warn().Err(err).Str("date", date).Msg("leaderboard")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	if err := s.Results.Label(r.Context(), rows); err != nil {
		log.Warn().Err(err).Str("date", date).Msg("leaderboard names")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}

// internal/httpserver/routes_portal.go
//
// Editorial portal under /portal (pm and admin roles):
//   - GET    /portal/puzzles?month=YYYY-MM      → calendar of documents
//   - GET    /portal/puzzles/{date}             → one document
//   - PUT    /portal/puzzles/{date}             → save with a workflow status
//   - DELETE /portal/puzzles/{date}             → delete
//   - POST   /portal/puzzles/{date}/move        → swap two adjacent slots
//   - POST   /portal/puzzles/{date}/validate    → dry-run validation
//   - POST   /portal/puzzles/{date}/preview     → play the set without recording
//   - POST   /portal/generate                   → generated suggestions
//   - GET    /portal/analytics/{date}           → average score + recent games
//   - GET    /portal/authors                    → per-author stats
//   - PUT    /portal/users/{username}/role      → admin only

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hang10/internal/analytics"
	"github.com/robalobadob/hang10/internal/authoring"
	"github.com/robalobadob/hang10/internal/puzzle"
)

func (s *Server) mountPortal(r chi.Router) {
	r.Route("/portal", func(r chi.Router) {
		r.Get("/puzzles", s.handlePortalMonth)
		r.Route("/puzzles/{date}", func(r chi.Router) {
			r.Get("/", s.handlePortalGet)
			r.Put("/", s.handlePortalSave)
			r.Delete("/", s.handlePortalDelete)
			r.Post("/move", s.handlePortalMove)
			r.Post("/validate", s.handlePortalValidate)
			r.Post("/preview", s.handlePortalPreview)
		})
		r.Post("/generate", s.handlePortalGenerate)
		r.Get("/analytics/{date}", s.handlePortalAnalytics)
		r.Get("/authors", s.handlePortalAuthors)
		r.With(requireRole(roleAdmin)).Put("/users/{username}/role", s.handleSetRole)
	})
}

// writeAuthoringErr maps service errors to status codes.
func writeAuthoringErr(w http.ResponseWriter, err error) {
	var ve *puzzle.ValidationError
	switch {
	case errors.As(err, &ve):
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": ve.Msg, "slot": ve.Slot})
	case errors.Is(err, authoring.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	case errors.Is(err, authoring.ErrInvalidStatus), errors.Is(err, authoring.ErrInvalidDate):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, authoring.ErrGeneratorDisabled):
		writeErr(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Warn().Err(err).Msg("portal")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
	}
}

// dateParam validates the {date} URL parameter.
func (s *Server) dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := s.Calendar.Parse(date); err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return "", false
	}
	return date, true
}

func actor(r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.Username
	}
	return ""
}

// ------------------------------- documents ---------------------------------

func (s *Server) handlePortalMonth(w http.ResponseWriter, r *http.Request) {
	var (
		month time.Time
		err   error
	)
	if m := r.URL.Query().Get("month"); m != "" {
		month, err = time.Parse("2006-01", m)
		if err != nil {
			http.Error(w, `{"error":"bad_month"}`, http.StatusBadRequest)
			return
		}
	} else {
		month, _ = s.Calendar.Parse(s.Calendar.Today())
	}
	from, to := s.Calendar.MonthRange(month.Year(), month.Month())
	docs, err := s.Authoring.Range(r.Context(), from, to)
	if err != nil {
		writeAuthoringErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(docs)
}

func (s *Server) handlePortalGet(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	doc, err := s.Authoring.Get(r.Context(), date)
	if err != nil {
		writeAuthoringErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(doc)
}

type saveReq struct {
	Author  string           `json:"author"`
	Status  authoring.Status `json:"status"`
	Puzzles []puzzle.Puzzle  `json:"puzzles"`
}

func (s *Server) handlePortalSave(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	var req saveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	doc := authoring.Document{DailySet: puzzle.DailySet{Date: date, Author: req.Author, Puzzles: req.Puzzles}}
	saved, err := s.Authoring.Save(r.Context(), doc, req.Status, actor(r))
	if err != nil {
		writeAuthoringErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(saved)
}

func (s *Server) handlePortalDelete(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	if err := s.Authoring.Delete(r.Context(), date); err != nil {
		writeAuthoringErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

type moveReq struct {
	Index int `json:"index"`
	Dir   int `json:"dir"` // -1 up, +1 down
}

func (s *Server) handlePortalMove(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	doc, err := s.Authoring.Move(r.Context(), date, req.Index, req.Dir, actor(r))
	if err != nil {
		var ve *puzzle.ValidationError
		if errors.Is(err, authoring.ErrNotFound) || errors.As(err, &ve) {
			writeAuthoringErr(w, err)
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(doc)
}

func (s *Server) handlePortalValidate(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.dateParam(w, r); !ok {
		return
	}
	var req saveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = authoring.StatusReview
	}
	if err := s.Authoring.Check(req.Puzzles, req.Status); err != nil {
		writeAuthoringErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handlePortalPreview starts a session over the stored document whatever its
// status. Preview sessions are never recorded to stats or results.
func (s *Server) handlePortalPreview(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	doc, err := s.Authoring.Get(r.Context(), date)
	if err != nil {
		writeAuthoringErr(w, err)
		return
	}
	if err := s.Authoring.Check(doc.Puzzles, authoring.StatusReview); err != nil {
		writeAuthoringErr(w, err)
		return
	}
	sess, err := s.startSession(r.Context(), doc.DailySet, s.ownerID(w, r), true)
	if err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(sess.Game.Snapshot())
}

// ------------------------------ generation ---------------------------------

type generateReq struct {
	Theme    string   `json:"theme"`
	Slot     int      `json:"slot"`     // 1-5 for a single replacement, 0 for a full set
	Existing []string `json:"existing"` // answers to avoid for a single replacement
}

func (s *Server) handlePortalGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	req.Theme = strings.TrimSpace(req.Theme)
	if req.Theme == "" {
		http.Error(w, `{"error":"theme_required"}`, http.StatusBadRequest)
		return
	}
	if req.Slot > 0 {
		p, err := s.Authoring.SuggestOne(r.Context(), req.Theme, req.Slot, req.Existing)
		if err != nil {
			writeAuthoringErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
		return
	}
	ps, err := s.Authoring.Suggest(r.Context(), req.Theme)
	if err != nil {
		writeAuthoringErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(ps)
}

// ------------------------------- analytics ---------------------------------

type analyticsRes struct {
	Date    string              `json:"date"`
	Average *float64            `json:"averageScore"` // null when nobody has played
	Recent  []analytics.GameLog `json:"recent"`
}

func (s *Server) handlePortalAnalytics(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	res := analyticsRes{Date: date}
	avg, played, err := s.Logs.DailyAverage(r.Context(), date)
	if err == nil && played {
		res.Average = &avg
	}
	if err == nil {
		res.Recent, err = s.Logs.Recent(r.Context(), date, 50)
	}
	if err != nil {
		log.Warn().Err(err).Str("date", date).Msg("portal analytics")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handlePortalAuthors(w http.ResponseWriter, r *http.Request) {
	docs, err := s.Authoring.Range(r.Context(), "", "")
	if err != nil {
		writeAuthoringErr(w, err)
		return
	}
	sets := make([]analytics.AuthoredSet, len(docs))
	for i, d := range docs {
		sets[i] = analytics.AuthoredSet{Author: d.Author, Date: d.Date}
	}
	out, err := s.Logs.AuthorStats(r.Context(), sets, s.Calendar.Today())
	if err != nil {
		log.Warn().Err(err).Msg("author stats")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// --------------------------------- users -----------------------------------

type roleReq struct {
	Role string `json:"role"`
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req roleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	switch req.Role {
	case rolePlayer, rolePM, roleAdmin:
	default:
		http.Error(w, `{"error":"bad_role"}`, http.StatusBadRequest)
		return
	}
	username := chi.URLParam(r, "username")
	res, err := s.DB.ExecContext(r.Context(), `UPDATE users SET role=? WHERE lower(username)=lower(?)`, req.Role, username)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	log.Info().Str("user", username).Str("role", req.Role).Str("by", actor(r)).Msg("role changed")
	_ = json.NewEncoder(w).Encode(map[string]string{"username": username, "role": req.Role})
}

// internal/httpserver/server.go
//
// HTTP server wiring for the Hang 10 backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Daily game endpoints (optional auth): mounted under /daily.
//   - Auth + profile endpoints: /auth/*, /stats/me.
//   - Editorial portal (pm/admin only): mounted under /portal.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     guests are identified by an anonymous cookie instead.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/hang10/internal/analytics"
	"github.com/robalobadob/hang10/internal/authoring"
	"github.com/robalobadob/hang10/internal/cache"
	"github.com/robalobadob/hang10/internal/daily"
	"github.com/robalobadob/hang10/internal/stats"
	"github.com/robalobadob/hang10/internal/store"
)

// AuthConfig controls token signing and cookies.
type AuthConfig struct {
	Secret         string
	ExpiresDays    int
	CookieName     string
	Production     bool     // Secure + SameSite=None cookies
	AdminUsernames []string // granted the admin role at signup
}

// Deps are the collaborators the handlers use.
type Deps struct {
	DB           *sql.DB
	Sessions     store.Store
	Calendar     daily.Calendar
	Source       *daily.Source
	Results      *daily.Results
	Stats        stats.Store
	Leaderboard  cache.Leaderboard
	Analytics    analytics.Sink   // write path (usually an AsyncSink)
	Logs         *analytics.Store // read path for the portal
	Authoring    *authoring.Service
	Auth         AuthConfig
	ClientOrigin string
}

// Server bundles the router and its dependencies.
type Server struct {
	r *chi.Mux
	Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter(), Deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hang10","endpoints":["/health","POST /daily/new","POST /daily/guess","/auth/*","/portal/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Daily game and personal stats: OPTIONAL AUTH (guests play under an anon cookie)
	s.mountDaily(s.r.With(s.withOptionalAuth()))
	s.r.With(s.withOptionalAuth()).Get("/stats/me", s.handleMyStats)

	// Auth
	s.mountAuthRoutes()

	// Editorial portal: pm or admin
	s.mountPortal(s.r.With(s.requireAuth(), requireRole(rolePM, roleAdmin)))

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeErr writes {"error": msg} with the given status.
func writeErr(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

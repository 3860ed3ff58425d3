package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// handleMyStats returns the caller's cumulative stats. Guests get the stats
// recorded under their anonymous cookie.
func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	st, err := s.Stats.Load(r.Context(), owner)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("load stats")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

// Package server exposes the read-only stats API. There is no write path.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"predtrack/internal/stats"
	"predtrack/internal/store"
	"predtrack/models"
)

// Server serves aggregate statistics and the public record set as JSON.
// Aggregates are recomputed from the store on every read; malformed records
// are already skipped (and logged) at the store level, so a single bad file
// never fails a response.
type Server struct {
	store  *store.Store
	logger zerolog.Logger
}

// New creates a server over the given store.
func New(s *store.Store) *Server {
	return &Server{
		store:  s,
		logger: log.With().Str("component", "stats_server").Logger(),
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/predictions", s.handlePredictions)
	return mux
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("Serving stats API")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		s.logger.Error().Err(err).Msg("Listing records failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, stats.Compute(records))
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		s.logger.Error().Err(err).Msg("Listing records failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	public := make([]*models.Record, 0, len(records))
	for _, rec := range records {
		if rec.IsPublic() {
			public = append(public, rec)
		}
	}
	s.writeJSON(w, public)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Encoding response failed")
	}
}

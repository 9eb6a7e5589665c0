package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rickgao/smartbet/internal/elo"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// TeamRating is one team's state as served by the API.
type TeamRating struct {
	Team         string    `json:"team"`
	Rating       float64   `json:"rating"`
	Form         []float64 `json:"form"`
	WeightedForm float64   `json:"weighted_form"`
	Adjusted     float64   `json:"adjusted_rating"`
	Known        bool      `json:"known"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sports := make(map[string]int, len(s.engines))
	for sport, e := range s.engines {
		sports[sport] = e.Store().Len()
	}

	resp := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"sports":    sports,
	}
	if s.runs != nil {
		if run := s.runs.Latest(); run != nil {
			resp["last_run"] = run.GeneratedAt
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSports(w http.ResponseWriter, r *http.Request) {
	profiles := make([]elo.Profile, 0, len(s.engines))
	for _, e := range s.engines {
		profiles = append(profiles, e.Profile())
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Sport < profiles[j].Sport })

	respondJSON(w, http.StatusOK, map[string]any{
		"sports": profiles,
		"count":  len(profiles),
	})
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}

	teams := engine.Store().Teams()
	ratings := make([]TeamRating, 0, len(teams))
	for _, team := range teams {
		ratings = append(ratings, teamRating(engine, team))
	}
	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].Rating > ratings[j].Rating })

	respondJSON(w, http.StatusOK, map[string]any{
		"sport":   engine.Profile().Sport,
		"ratings": ratings,
		"count":   len(ratings),
	})
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, teamRating(engine, urlParam(r, "team")))
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	m := elo.Match{Home: q.Get("home"), Away: q.Get("away")}
	if m.Home == "" || m.Away == "" {
		respondError(w, http.StatusBadRequest, "home and away are required")
		return
	}
	if v := q.Get("neutral"); v != "" {
		neutral, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "neutral must be a boolean")
			return
		}
		m.Neutral = neutral
	}

	respondJSON(w, http.StatusOK, engine.Predict(m))
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		respondError(w, http.StatusNotFound, "no prediction run yet")
		return
	}
	run := s.runs.Latest()
	if run == nil {
		respondError(w, http.StatusNotFound, "no prediction run yet")
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// engine resolves the {sport} parameter, writing a 404 when it is unknown.
func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*elo.Engine, bool) {
	sport := urlParam(r, "sport")
	engine, ok := s.engines[sport]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown sport: "+sport)
		return nil, false
	}
	return engine, true
}

func teamRating(e *elo.Engine, team string) TeamRating {
	rec, known := e.Store().Lookup(team)
	return TeamRating{
		Team:         team,
		Rating:       rec.Rating,
		Form:         rec.Form,
		WeightedForm: elo.WeightedForm(rec.Form),
		Adjusted:     e.AdjustedRating(team),
		Known:        known,
	}
}

// urlParam returns a decoded path parameter. chi matches on the raw path
// when the request carries one, leaving escapes in place.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

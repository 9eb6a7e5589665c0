package elo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Record is the persisted state of one team.
//
// A zero Rating means unset: a stored rating of 0, whether loaded from a
// persister or passed to Put, reads back as the sport's DefaultRating.
type Record struct {
	Rating float64   `json:"rating"`
	Form   []float64 `json:"form,omitempty"`
}

// Table maps team name to record for a single sport.
type Table map[string]Record

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for team, rec := range t {
		out[team] = rec.clone()
	}
	return out
}

func (r Record) clone() Record {
	if r.Form != nil {
		r.Form = append([]float64(nil), r.Form...)
	}
	return r
}

// Persister loads and saves the rating table of a sport.
type Persister interface {
	Load(ctx context.Context, sport string) (Table, error)
	Save(ctx context.Context, sport string, table Table) error
}

// Store holds the rating table of one sport and resolves unknown teams to
// the profile defaults.
type Store struct {
	profile   Profile
	persister Persister
	logger    *slog.Logger

	mu    sync.RWMutex
	table Table
}

// NewStore creates a store and loads the sport's table from the persister.
// A failed load leaves the store empty: every team reads as default.
func NewStore(ctx context.Context, profile Profile, persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		profile:   profile,
		persister: persister,
		logger:    logger,
		table:     make(Table),
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.persister == nil {
		return
	}

	table, err := s.persister.Load(ctx, s.profile.Sport)
	if err != nil {
		s.logger.Warn("rating table unavailable, using defaults",
			"sport", s.profile.Sport,
			"error", err,
		)
		return
	}

	for team, rec := range table {
		s.table[team] = s.normalize(rec)
	}

	s.logger.Info("rating table loaded",
		"sport", s.profile.Sport,
		"teams", len(s.table),
	)
}

// Rating returns the team's stored rating or the sport default.
func (s *Store) Rating(team string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.table[team]
	if !ok {
		return s.profile.DefaultRating
	}
	return rec.Rating
}

// Form returns a copy of the team's recent results, most recent first,
// or the neutral default history.
func (s *Store) Form(team string) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.table[team]
	if !ok || rec.Form == nil {
		return DefaultForm()
	}
	return append([]float64(nil), rec.Form...)
}

// Lookup returns the team's record and whether it is stored.
func (s *Store) Lookup(team string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.table[team]
	if !ok {
		return Record{Rating: s.profile.DefaultRating, Form: DefaultForm()}, false
	}
	rec = rec.clone()
	if rec.Form == nil {
		rec.Form = DefaultForm()
	}
	return rec, true
}

// Put stores a team record. Only the FormLength most recent results are kept.
func (s *Store) Put(team string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[team] = s.normalize(rec.clone())
}

// Teams returns the stored team names in sorted order.
func (s *Store) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]string, 0, len(s.table))
	for team := range s.table {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Len returns the number of stored teams.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}

// Snapshot returns a copy of the whole table.
func (s *Store) Snapshot() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Save hands the whole table to the persister in one call.
func (s *Store) Save(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	table := s.Snapshot()
	if err := s.persister.Save(ctx, s.profile.Sport, table); err != nil {
		return fmt.Errorf("save %s ratings: %w", s.profile.Sport, err)
	}

	s.logger.Info("rating table saved",
		"sport", s.profile.Sport,
		"teams", len(table),
	)
	return nil
}

// normalize fills a zero (unset) rating with the sport default and trims
// the form history.
func (s *Store) normalize(rec Record) Record {
	if rec.Rating == 0 {
		rec.Rating = s.profile.DefaultRating
	}
	if len(rec.Form) > FormLength {
		rec.Form = rec.Form[:FormLength]
	}
	return rec
}

package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rickgao/smartbet/internal/elo"
)

// Fixture is a scheduled match.
type Fixture struct {
	ID          string    `json:"id"`
	Sport       string    `json:"sport"`
	Competition string    `json:"competition,omitempty"`
	Home        string    `json:"home_team"`
	Away        string    `json:"away_team"`
	Kickoff     time.Time `json:"kickoff"`
	Status      string    `json:"status,omitempty"`
}

// MatchOdds holds the best decimal prices quoted for a match.
// DrawPrice is zero for markets without a draw.
type MatchOdds struct {
	Home       string    `json:"home_team"`
	Away       string    `json:"away_team"`
	Kickoff    time.Time `json:"kickoff"`
	HomePrice  float64   `json:"home_price"`
	DrawPrice  float64   `json:"draw_price,omitempty"`
	AwayPrice  float64   `json:"away_price"`
	Bookmakers int       `json:"bookmakers"`
}

// Key identifies the pairing for matching odds to fixtures.
func (o MatchOdds) Key() string {
	return MatchKey(o.Home, o.Away)
}

// MatchKey joins home and away names into a lookup key.
func MatchKey(home, away string) string {
	return home + "|" + away
}

// Entry is one predicted fixture.
type Entry struct {
	Fixture    Fixture        `json:"fixture"`
	Prediction elo.Prediction `json:"prediction"`
	Odds       *MatchOdds     `json:"odds,omitempty"`
}

// PredictionRun is the output of one update cycle.
type PredictionRun struct {
	ID          uuid.UUID `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Entries     []Entry   `json:"entries"`
}

// NewPredictionRun creates an empty run stamped with a fresh ID.
func NewPredictionRun(now time.Time) *PredictionRun {
	return &PredictionRun{
		ID:          uuid.New(),
		GeneratedAt: now.UTC(),
	}
}

// SortEntries orders entries by kickoff, then sport, then home team.
func (r *PredictionRun) SortEntries() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		a, b := r.Entries[i].Fixture, r.Entries[j].Fixture
		if !a.Kickoff.Equal(b.Kickoff) {
			return a.Kickoff.Before(b.Kickoff)
		}
		if a.Sport != b.Sport {
			return a.Sport < b.Sport
		}
		return a.Home < b.Home
	})
}

// BySport returns the entries of one sport.
func (r *PredictionRun) BySport(sport string) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Fixture.Sport == sport {
			out = append(out, e)
		}
	}
	return out
}

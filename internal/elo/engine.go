package elo

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// FormSensitivity converts form deviation from neutral into rating points.
const FormSensitivity = 20.0

// Match identifies the two sides of a fixture.
type Match struct {
	Home    string
	Away    string
	Neutral bool // No home advantage for either side
}

// Prediction is the outcome distribution of a match together with the
// inputs that produced it.
type Prediction struct {
	Sport   string `json:"sport"`
	Home    string `json:"home_team"`
	Away    string `json:"away_team"`
	Neutral bool   `json:"neutral,omitempty"`

	HomeWin float64 `json:"home_win_prob"`
	Draw    float64 `json:"draw_prob"`
	AwayWin float64 `json:"away_win_prob"`

	// Stored ratings before form adjustment.
	HomeRating float64 `json:"home_rating"`
	AwayRating float64 `json:"away_rating"`

	// Recency-weighted form scores.
	HomeForm float64 `json:"home_form"`
	AwayForm float64 `json:"away_form"`

	// Ratings after form adjustment, before home advantage.
	HomeAdjusted float64 `json:"home_adjusted_rating"`
	AwayAdjusted float64 `json:"away_adjusted_rating"`
}

// Engine predicts matches for one sport.
type Engine struct {
	profile Profile
	store   *Store
}

// New resolves the sport's profile and loads its rating table.
// It fails with ErrUnknownSport when the sport is not registered.
func New(ctx context.Context, sport string, profiles *Profiles, persister Persister, logger *slog.Logger) (*Engine, error) {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	profile, err := profiles.Lookup(sport)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return NewEngine(profile, NewStore(ctx, profile, persister, logger))
}

// NewEngine binds a validated profile to an existing store.
func NewEngine(profile Profile, store *Store) (*Engine, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("new engine: %s: store is required", profile.Sport)
	}
	return &Engine{profile: profile, store: store}, nil
}

// Profile returns the sport constants bound to the engine.
func (e *Engine) Profile() Profile {
	return e.profile
}

// Store returns the engine's rating store.
func (e *Engine) Store() *Store {
	return e.store
}

// Rating returns the team's stored rating or the sport default.
func (e *Engine) Rating(team string) float64 {
	return e.store.Rating(team)
}

// Form returns the team's recency-weighted form score.
func (e *Engine) Form(team string) float64 {
	return WeightedForm(e.store.Form(team))
}

// AdjustedRating returns the rating shifted by form.
func (e *Engine) AdjustedRating(team string) float64 {
	return adjust(e.Rating(team), e.Form(team))
}

func adjust(rating, form float64) float64 {
	return rating + (form-NeutralForm)*FormSensitivity
}

// ExpectedScore is the logistic probability that a side rated a
// outperforms a side rated b. A 400 point edge gives 10:1 odds.
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// side selects which of the two compared ratings, if any, plays at home.
type side int

const (
	noHome side = iota
	homeA
	homeB
)

// expectedScore applies the home advantage to the side at home before
// comparing ratings.
func (e *Engine) expectedScore(a, b float64, home side) float64 {
	switch home {
	case homeA:
		a += e.profile.HomeAdvantage
	case homeB:
		b += e.profile.HomeAdvantage
	}
	return ExpectedScore(a, b)
}

// Predict returns the outcome distribution for a match.
func (e *Engine) Predict(m Match) Prediction {
	p := Prediction{
		Sport:      e.profile.Sport,
		Home:       m.Home,
		Away:       m.Away,
		Neutral:    m.Neutral,
		HomeRating: e.Rating(m.Home),
		AwayRating: e.Rating(m.Away),
		HomeForm:   e.Form(m.Home),
		AwayForm:   e.Form(m.Away),
	}
	p.HomeAdjusted = adjust(p.HomeRating, p.HomeForm)
	p.AwayAdjusted = adjust(p.AwayRating, p.AwayForm)

	// Each side is scored from its own perspective; the home team keeps its
	// advantage in both evaluations.
	fromHome, fromAway := homeA, homeB
	if m.Neutral {
		fromHome, fromAway = noHome, noHome
	}
	margin := 0.0
	if e.profile.AllowsDraw() {
		margin = e.profile.DrawMargin
	}
	home := e.expectedScore(p.HomeAdjusted, p.AwayAdjusted+margin, fromHome)
	away := e.expectedScore(p.AwayAdjusted, p.HomeAdjusted+margin, fromAway)

	if e.profile.AllowsDraw() {
		p.HomeWin, p.Draw, p.AwayWin = normalize3(home, 1-(home+away), away)
	} else {
		p.HomeWin, p.AwayWin = normalize2(home, away)
	}
	return p
}

// PredictTeams is Predict for a match with a home side.
func (e *Engine) PredictTeams(home, away string) Prediction {
	return e.Predict(Match{Home: home, Away: away})
}

// clamp maps a probability estimate into [0, 1]; NaN becomes 0.
func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// normalize3 clamps the three components and rescales them to sum to 1.
// A zero sum yields the uniform distribution.
func normalize3(home, draw, away float64) (float64, float64, float64) {
	home, draw, away = clamp(home), clamp(draw), clamp(away)
	total := home + draw + away
	if total == 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return home / total, draw / total, away / total
}

// normalize2 is normalize3 without a draw.
func normalize2(home, away float64) (float64, float64) {
	home, away = clamp(home), clamp(away)
	total := home + away
	if total == 0 {
		return 0.5, 0.5
	}
	return home / total, away / total
}

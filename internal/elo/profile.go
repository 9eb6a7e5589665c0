package elo

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSport is returned when a sport has no registered Profile.
var ErrUnknownSport = errors.New("unknown sport")

// Sport names with built-in profiles.
const (
	SportSoccer     = "soccer"
	SportBasketball = "basketball"
)

// Profile holds the constants that parameterise the model for one sport.
type Profile struct {
	Sport         string  `json:"sport"`
	BaseK         float64 `json:"base_k"`         // Rating update factor, carried for result ingestion
	HomeAdvantage float64 `json:"home_advantage"` // Rating points added to the home side
	DefaultRating float64 `json:"default_rating"` // Rating of a team with no stored record
	Outcomes      int     `json:"outcomes"`       // 3 when draws are possible, 2 otherwise

	// DrawMargin handicaps each side by this many rating points when it is
	// scored from its own perspective; the probability mass lost on both
	// sides becomes the draw. Zero for two-outcome sports.
	DrawMargin float64 `json:"draw_margin"`
}

// Soccer is the built-in three-outcome profile.
var Soccer = Profile{
	Sport:         SportSoccer,
	BaseK:         32,
	HomeAdvantage: 100,
	DefaultRating: 1500,
	Outcomes:      3,
	DrawMargin:    100,
}

// Basketball is the built-in two-outcome profile.
var Basketball = Profile{
	Sport:         SportBasketball,
	BaseK:         20,
	HomeAdvantage: 70,
	DefaultRating: 1500,
	Outcomes:      2,
}

// AllowsDraw reports whether the sport has a draw outcome.
func (p Profile) AllowsDraw() bool {
	return p.Outcomes == 3
}

// Validate checks that every constant is bound to a usable value.
func (p Profile) Validate() error {
	if p.Sport == "" {
		return errors.New("sport name is required")
	}
	if p.Outcomes != 2 && p.Outcomes != 3 {
		return fmt.Errorf("%s: outcomes must be 2 or 3, got %d", p.Sport, p.Outcomes)
	}
	if p.DefaultRating <= 0 {
		return fmt.Errorf("%s: default rating must be > 0", p.Sport)
	}
	if p.BaseK <= 0 {
		return fmt.Errorf("%s: base factor must be > 0", p.Sport)
	}
	if p.HomeAdvantage < 0 {
		return fmt.Errorf("%s: home advantage must be >= 0", p.Sport)
	}
	if p.DrawMargin < 0 {
		return fmt.Errorf("%s: draw margin must be >= 0", p.Sport)
	}
	if !p.AllowsDraw() && p.DrawMargin != 0 {
		return fmt.Errorf("%s: draw margin requires 3 outcomes", p.Sport)
	}
	return nil
}

// Profiles is a registry of sport profiles keyed by sport name.
type Profiles struct {
	bySport map[string]Profile
}

// NewProfiles builds a registry from the given profiles. A later profile
// for the same sport replaces an earlier one.
func NewProfiles(profiles ...Profile) (*Profiles, error) {
	r := &Profiles{bySport: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultProfiles returns a registry holding the built-in sports.
func DefaultProfiles() *Profiles {
	return &Profiles{bySport: map[string]Profile{
		SportSoccer:     Soccer,
		SportBasketball: Basketball,
	}}
}

// Register validates and adds a profile.
func (r *Profiles) Register(p Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("register profile: %w", err)
	}
	r.bySport[p.Sport] = p
	return nil
}

// Lookup returns the profile for a sport.
func (r *Profiles) Lookup(sport string) (Profile, error) {
	p, ok := r.bySport[sport]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownSport, sport)
	}
	return p, nil
}

// Sports returns the registered sport names in sorted order.
func (r *Profiles) Sports() []string {
	sports := make([]string, 0, len(r.bySport))
	for s := range r.bySport {
		sports = append(sports, s)
	}
	sort.Strings(sports)
	return sports
}

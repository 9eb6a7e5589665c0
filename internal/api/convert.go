package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rickgao/smartbet/internal/model"
)

// drawOutcome is the outcome name The Odds API uses for a draw.
const drawOutcome = "Draw"

// ToFixture converts a football-data match to a model.Fixture.
func (m APIMatch) ToFixture(sport string) (model.Fixture, error) {
	kickoff, err := parseTimestamp(m.UTCDate)
	if err != nil {
		return model.Fixture{}, fmt.Errorf("match %d: %w", m.ID, err)
	}
	if m.HomeTeam.Name == "" || m.AwayTeam.Name == "" {
		return model.Fixture{}, fmt.Errorf("match %d: missing team name", m.ID)
	}
	return model.Fixture{
		ID:          strconv.Itoa(m.ID),
		Sport:       sport,
		Competition: m.Competition.Code,
		Home:        m.HomeTeam.Name,
		Away:        m.AwayTeam.Name,
		Kickoff:     kickoff,
		Status:      m.Status,
	}, nil
}

// ToFixture converts an odds event to a model.Fixture.
func (e OddsEvent) ToFixture(sport string) (model.Fixture, error) {
	kickoff, err := parseTimestamp(e.CommenceTime)
	if err != nil {
		return model.Fixture{}, fmt.Errorf("event %s: %w", e.ID, err)
	}
	if e.HomeTeam == "" || e.AwayTeam == "" {
		return model.Fixture{}, fmt.Errorf("event %s: missing team name", e.ID)
	}
	return model.Fixture{
		ID:          e.ID,
		Sport:       sport,
		Competition: e.SportKey,
		Home:        e.HomeTeam,
		Away:        e.AwayTeam,
		Kickoff:     kickoff,
		Status:      "SCHEDULED",
	}, nil
}

// ToMatchOdds collects the best head-to-head price per outcome across
// bookmakers. ok is false when no bookmaker quotes the h2h market.
func (e OddsEvent) ToMatchOdds() (odds model.MatchOdds, ok bool) {
	odds = model.MatchOdds{
		Home: e.HomeTeam,
		Away: e.AwayTeam,
	}
	odds.Kickoff, _ = parseTimestamp(e.CommenceTime)

	for _, bm := range e.Bookmakers {
		quoted := false
		for _, market := range bm.Markets {
			if market.Key != MarketH2H {
				continue
			}
			for _, o := range market.Outcomes {
				switch o.Name {
				case e.HomeTeam:
					odds.HomePrice = max(odds.HomePrice, o.Price)
				case e.AwayTeam:
					odds.AwayPrice = max(odds.AwayPrice, o.Price)
				case drawOutcome:
					odds.DrawPrice = max(odds.DrawPrice, o.Price)
				default:
					continue
				}
				quoted = true
			}
		}
		if quoted {
			odds.Bookmakers++
		}
	}

	return odds, odds.Bookmakers > 0
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

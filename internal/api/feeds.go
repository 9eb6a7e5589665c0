package api

import (
	"context"
	"time"

	"github.com/rickgao/smartbet/internal/model"
)

// FixtureFeed lists a competition's scheduled matches from football-data.org.
type FixtureFeed struct {
	client *Client
}

// NewFixtureFeed wraps a football-data client.
func NewFixtureFeed(client *Client) *FixtureFeed {
	return &FixtureFeed{client: client}
}

// Fixtures returns the scheduled matches of a competition on the given UTC day.
// Matches that cannot be converted are logged and skipped.
func (f *FixtureFeed) Fixtures(ctx context.Context, sport, competition string, day time.Time) ([]model.Fixture, error) {
	day = day.UTC()
	resp, err := f.client.GetCompetitionMatches(ctx, competition, MatchesOptions{
		Status:   "SCHEDULED",
		DateFrom: day,
		DateTo:   day,
	})
	if err != nil {
		return nil, err
	}

	fixtures := make([]model.Fixture, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		fx, err := m.ToFixture(sport)
		if err != nil {
			f.client.logger.Warn("skipping match", "competition", competition, "error", err)
			continue
		}
		fixtures = append(fixtures, fx)
	}
	return fixtures, nil
}

// OddsFeed reads events and head-to-head prices from The Odds API.
type OddsFeed struct {
	client  *Client
	regions string
}

// NewOddsFeed wraps an odds client.
func NewOddsFeed(client *Client, regions string) *OddsFeed {
	return &OddsFeed{client: client, regions: regions}
}

// Odds returns the events starting on the given UTC day as fixtures, and
// the best prices of every listed event.
func (f *OddsFeed) Odds(ctx context.Context, sport, sportKey string, day time.Time) ([]model.Fixture, []model.MatchOdds, error) {
	events, err := f.client.GetOdds(ctx, sportKey, OddsOptions{
		Regions: f.regions,
		Markets: MarketH2H,
	})
	if err != nil {
		return nil, nil, err
	}

	y, m, d := day.UTC().Date()
	var fixtures []model.Fixture
	var odds []model.MatchOdds
	for _, e := range events {
		if o, ok := e.ToMatchOdds(); ok {
			odds = append(odds, o)
		}

		fx, err := e.ToFixture(sport)
		if err != nil {
			f.client.logger.Warn("skipping event", "sport_key", sportKey, "error", err)
			continue
		}
		if fy, fm, fd := fx.Kickoff.Date(); fy == y && fm == m && fd == d {
			fixtures = append(fixtures, fx)
		}
	}
	return fixtures, odds, nil
}

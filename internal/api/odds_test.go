package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const oddsJSON = `[
	{
		"id": "ev1",
		"sport_key": "basketball_nba",
		"sport_title": "NBA",
		"commence_time": "2026-10-15T23:30:00Z",
		"home_team": "Boston Celtics",
		"away_team": "New York Knicks",
		"bookmakers": [
			{"key": "bk1", "title": "Book One", "markets": [
				{"key": "h2h", "outcomes": [
					{"name": "Boston Celtics", "price": 1.60},
					{"name": "New York Knicks", "price": 2.30}
				]}
			]},
			{"key": "bk2", "title": "Book Two", "markets": [
				{"key": "h2h", "outcomes": [
					{"name": "Boston Celtics", "price": 1.65},
					{"name": "New York Knicks", "price": 2.25}
				]}
			]}
		]
	},
	{
		"id": "ev2",
		"sport_key": "basketball_nba",
		"commence_time": "2026-10-16T23:30:00Z",
		"home_team": "Denver Nuggets",
		"away_team": "Utah Jazz",
		"bookmakers": [
			{"key": "bk1", "markets": [
				{"key": "h2h", "outcomes": [
					{"name": "Denver Nuggets", "price": 1.20},
					{"name": "Utah Jazz", "price": 4.50}
				]}
			]}
		]
	},
	{
		"id": "ev3",
		"sport_key": "basketball_nba",
		"commence_time": "2026-10-15T20:00:00Z",
		"home_team": "Miami Heat",
		"away_team": "Orlando Magic",
		"bookmakers": []
	}
]`

func TestGetOdds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sports/basketball_nba/odds/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("oddsFormat") != "decimal" {
			t.Errorf("oddsFormat = %q, want decimal", q.Get("oddsFormat"))
		}
		if q.Get("markets") != "h2h" {
			t.Errorf("markets = %q, want h2h", q.Get("markets"))
		}
		if q.Get("regions") != "us,uk" {
			t.Errorf("regions = %q, want us,uk", q.Get("regions"))
		}
		if q.Get("apiKey") != "odds-key" {
			t.Errorf("apiKey = %q, want odds-key", q.Get("apiKey"))
		}
		w.Write([]byte(oddsJSON))
	}))
	defer server.Close()

	c := NewOddsClient(server.URL, "odds-key")
	events, err := c.GetOdds(context.Background(), "basketball_nba", OddsOptions{Regions: "us,uk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].Bookmakers[1].Markets[0].Outcomes[0].Price != 1.65 {
		t.Errorf("price = %v", events[0].Bookmakers[1].Markets[0].Outcomes[0].Price)
	}
}

func TestOddsEventToMatchOdds(t *testing.T) {
	t.Run("best price per outcome", func(t *testing.T) {
		e := OddsEvent{
			HomeTeam:     "Arsenal FC",
			AwayTeam:     "Chelsea FC",
			CommenceTime: "2026-10-15T19:00:00Z",
			Bookmakers: []OddsBookmaker{
				{Markets: []OddsMarket{{Key: MarketH2H, Outcomes: []OddsOutcome{
					{Name: "Arsenal FC", Price: 2.1}, {Name: "Draw", Price: 3.4}, {Name: "Chelsea FC", Price: 3.5},
				}}}},
				{Markets: []OddsMarket{{Key: MarketH2H, Outcomes: []OddsOutcome{
					{Name: "Arsenal FC", Price: 2.2}, {Name: "Draw", Price: 3.3}, {Name: "Chelsea FC", Price: 3.6},
				}}}},
				{Markets: []OddsMarket{{Key: MarketTotals, Outcomes: []OddsOutcome{
					{Name: "Over", Price: 1.9}, {Name: "Under", Price: 1.9},
				}}}},
			},
		}

		odds, ok := e.ToMatchOdds()
		if !ok {
			t.Fatal("ToMatchOdds() ok = false, want true")
		}
		if odds.HomePrice != 2.2 || odds.DrawPrice != 3.4 || odds.AwayPrice != 3.6 {
			t.Errorf("prices = %v/%v/%v, want 2.2/3.4/3.6", odds.HomePrice, odds.DrawPrice, odds.AwayPrice)
		}
		if odds.Bookmakers != 2 {
			t.Errorf("Bookmakers = %d, want 2", odds.Bookmakers)
		}
		if odds.Key() != "Arsenal FC|Chelsea FC" {
			t.Errorf("Key() = %q, want %q", odds.Key(), "Arsenal FC|Chelsea FC")
		}
		if odds.Kickoff.IsZero() {
			t.Error("Kickoff should be parsed")
		}
	})

	t.Run("no h2h quotes", func(t *testing.T) {
		e := OddsEvent{HomeTeam: "A", AwayTeam: "B"}
		if _, ok := e.ToMatchOdds(); ok {
			t.Error("ToMatchOdds() ok = true, want false")
		}
	})
}

func TestOddsFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(oddsJSON))
	}))
	defer server.Close()

	feed := NewOddsFeed(NewOddsClient(server.URL, "key"), "us")
	day := time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC)
	fixtures, odds, err := feed.Odds(context.Background(), "basketball", "basketball_nba", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ev2 is tomorrow; ev3 has no prices but still plays today.
	if len(fixtures) != 2 {
		t.Fatalf("len(fixtures) = %d, want 2", len(fixtures))
	}
	if fixtures[0].Home != "Boston Celtics" || fixtures[1].Home != "Miami Heat" {
		t.Errorf("fixtures = %q, %q", fixtures[0].Home, fixtures[1].Home)
	}
	for _, fx := range fixtures {
		if fx.Sport != "basketball" || fx.Competition != "basketball_nba" {
			t.Errorf("fixture = %+v", fx)
		}
	}

	if len(odds) != 2 {
		t.Fatalf("len(odds) = %d, want 2", len(odds))
	}
	if odds[0].HomePrice != 1.65 || odds[0].AwayPrice != 2.30 {
		t.Errorf("odds[0] = %+v", odds[0])
	}
	if odds[0].DrawPrice != 0 {
		t.Errorf("DrawPrice = %v, want 0", odds[0].DrawPrice)
	}
}

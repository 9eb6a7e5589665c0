package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const matchesJSON = `{
	"matches": [
		{
			"id": 1001,
			"utcDate": "2026-10-15T19:00:00Z",
			"status": "SCHEDULED",
			"matchday": 8,
			"homeTeam": {"id": 57, "name": "Arsenal FC", "shortName": "Arsenal", "tla": "ARS"},
			"awayTeam": {"id": 61, "name": "Chelsea FC", "shortName": "Chelsea", "tla": "CHE"},
			"competition": {"id": 2021, "code": "PL", "name": "Premier League"}
		},
		{
			"id": 1002,
			"utcDate": "not-a-date",
			"status": "SCHEDULED",
			"homeTeam": {"name": "Everton FC"},
			"awayTeam": {"name": "Fulham FC"},
			"competition": {"code": "PL"}
		}
	]
}`

func TestGetCompetitionMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/PL/matches" {
			t.Errorf("path = %q, want /competitions/PL/matches", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("status") != "SCHEDULED" {
			t.Errorf("status = %q, want SCHEDULED", q.Get("status"))
		}
		if q.Get("dateFrom") != "2026-10-15" || q.Get("dateTo") != "2026-10-16" {
			t.Errorf("date range = %q..%q", q.Get("dateFrom"), q.Get("dateTo"))
		}
		w.Write([]byte(matchesJSON))
	}))
	defer server.Close()

	c := NewFootballDataClient(server.URL, "key")
	resp, err := c.GetCompetitionMatches(context.Background(), "PL", MatchesOptions{
		Status:   "SCHEDULED",
		DateFrom: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(resp.Matches))
	}
	if resp.Matches[0].HomeTeam.Name != "Arsenal FC" {
		t.Errorf("HomeTeam = %q", resp.Matches[0].HomeTeam.Name)
	}
}

func TestGetCompetitionMatchesOmitsEmptyFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		w.Write([]byte(`{"matches": []}`))
	}))
	defer server.Close()

	c := NewFootballDataClient(server.URL, "")
	if _, err := c.GetCompetitionMatches(context.Background(), "PL", MatchesOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFixtureFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("dateFrom") != "2026-10-15" || q.Get("dateTo") != "2026-10-15" {
			t.Errorf("date range = %q..%q", q.Get("dateFrom"), q.Get("dateTo"))
		}
		w.Write([]byte(matchesJSON))
	}))
	defer server.Close()

	feed := NewFixtureFeed(NewFootballDataClient(server.URL, "key"))
	day := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	fixtures, err := feed.Fixtures(context.Background(), "soccer", "PL", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The match with the broken timestamp is skipped.
	if len(fixtures) != 1 {
		t.Fatalf("len(fixtures) = %d, want 1", len(fixtures))
	}
	fx := fixtures[0]
	if fx.ID != "1001" || fx.Sport != "soccer" || fx.Competition != "PL" {
		t.Errorf("fixture = %+v", fx)
	}
	if fx.Home != "Arsenal FC" || fx.Away != "Chelsea FC" {
		t.Errorf("teams = %q vs %q", fx.Home, fx.Away)
	}
	if !fx.Kickoff.Equal(time.Date(2026, 10, 15, 19, 0, 0, 0, time.UTC)) {
		t.Errorf("Kickoff = %v", fx.Kickoff)
	}
}

func TestFixtureFeedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	feed := NewFixtureFeed(NewFootballDataClient(server.URL, "bad"))
	if _, err := feed.Fixtures(context.Background(), "soccer", "PL", time.Now()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAPIMatchToFixture(t *testing.T) {
	tests := []struct {
		name    string
		match   APIMatch
		wantErr bool
	}{
		{
			name: "valid",
			match: APIMatch{
				ID: 7, UTCDate: "2026-10-15T14:00:00+02:00", Status: "SCHEDULED",
				HomeTeam: APITeam{Name: "A"}, AwayTeam: APITeam{Name: "B"},
			},
		},
		{
			name:    "missing date",
			match:   APIMatch{ID: 8, HomeTeam: APITeam{Name: "A"}, AwayTeam: APITeam{Name: "B"}},
			wantErr: true,
		},
		{
			name:    "missing team",
			match:   APIMatch{ID: 9, UTCDate: "2026-10-15T14:00:00Z", HomeTeam: APITeam{Name: "A"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx, err := tt.match.ToFixture("soccer")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToFixture() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if fx.Kickoff.Location() != time.UTC {
				t.Errorf("Kickoff location = %v, want UTC", fx.Kickoff.Location())
			}
			if fx.Kickoff.Hour() != 12 {
				t.Errorf("Kickoff hour = %d, want 12", fx.Kickoff.Hour())
			}
		})
	}
}

package api

// MatchesResponse from GET /competitions/{code}/matches (football-data.org)
type MatchesResponse struct {
	Matches []APIMatch `json:"matches"`
}

// APIMatch represents a match from football-data.org.
type APIMatch struct {
	ID          int            `json:"id"`
	UTCDate     string         `json:"utcDate"` // ISO 8601
	Status      string         `json:"status"`
	Matchday    int            `json:"matchday"`
	HomeTeam    APITeam        `json:"homeTeam"`
	AwayTeam    APITeam        `json:"awayTeam"`
	Competition APICompetition `json:"competition"`
}

// APITeam represents a team reference from football-data.org.
type APITeam struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
}

// APICompetition represents a competition reference from football-data.org.
type APICompetition struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// OddsEvent is one event from GET /sports/{sport}/odds (The Odds API).
type OddsEvent struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	SportTitle   string          `json:"sport_title"`
	CommenceTime string          `json:"commence_time"` // ISO 8601
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []OddsBookmaker `json:"bookmakers"`
}

// OddsBookmaker is one bookmaker's markets for an event.
type OddsBookmaker struct {
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	LastUpdate string       `json:"last_update"`
	Markets    []OddsMarket `json:"markets"`
}

// OddsMarket is a market (h2h, totals, ...) quoted by a bookmaker.
type OddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []OddsOutcome `json:"outcomes"`
}

// OddsOutcome is a priced outcome. Price is decimal when oddsFormat=decimal.
type OddsOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

package api

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// MatchesOptions filters GET /competitions/{code}/matches.
type MatchesOptions struct {
	Status   string // SCHEDULED, LIVE, FINISHED, ...
	DateFrom time.Time
	DateTo   time.Time
}

const dateLayout = "2006-01-02"

// GetCompetitionMatches fetches the matches of a competition.
func (c *Client) GetCompetitionMatches(ctx context.Context, code string, opts MatchesOptions) (*MatchesResponse, error) {
	query := url.Values{}

	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if !opts.DateFrom.IsZero() {
		query.Set("dateFrom", opts.DateFrom.Format(dateLayout))
	}
	if !opts.DateTo.IsZero() {
		query.Set("dateTo", opts.DateTo.Format(dateLayout))
	}

	var resp MatchesResponse
	if err := c.get(ctx, "/competitions/"+url.PathEscape(code)+"/matches", query, &resp); err != nil {
		return nil, fmt.Errorf("get matches %s: %w", code, err)
	}

	return &resp, nil
}

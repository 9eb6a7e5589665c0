package api

import (
	"context"
	"fmt"
	"net/url"
)

// Market keys.
const (
	MarketH2H    = "h2h"
	MarketTotals = "totals"
)

// OddsOptions filters GET /sports/{sport}/odds.
type OddsOptions struct {
	Regions string // comma separated, e.g. "us,uk"
	Markets string // comma separated, e.g. "h2h,totals"
}

// GetOdds fetches upcoming events with bookmaker prices in decimal format.
func (c *Client) GetOdds(ctx context.Context, sportKey string, opts OddsOptions) ([]OddsEvent, error) {
	query := url.Values{}
	query.Set("oddsFormat", "decimal")

	if opts.Regions != "" {
		query.Set("regions", opts.Regions)
	}
	markets := opts.Markets
	if markets == "" {
		markets = MarketH2H
	}
	query.Set("markets", markets)

	var events []OddsEvent
	if err := c.get(ctx, "/sports/"+url.PathEscape(sportKey)+"/odds/", query, &events); err != nil {
		return nil, fmt.Errorf("get odds %s: %w", sportKey, err)
	}

	return events, nil
}

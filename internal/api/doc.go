// Package api provides REST clients for the third-party sports data providers.
//
// Providers:
//   - football-data.org v4 (fixtures): https://api.football-data.org/v4, key in X-Auth-Token
//   - The Odds API v4 (bookmaker odds): https://api.the-odds-api.com/v4, key in the apiKey query parameter
//
// Both share one Client with retries on 429/5xx. FixtureFeed and OddsFeed adapt
// the raw responses to model types for the updater.
package api

// Package writer implements the prediction log.
//
// Every completed run is appended to the predictions table, one row per
// match, keyed by (run_id, sport, home_team, away_team). Rows are never
// updated; replaying a run is a no-op.
package writer

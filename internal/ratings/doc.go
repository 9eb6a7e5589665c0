// Package ratings provides the storage backends behind elo.Persister.
//
// Four drivers are available, selected by storage.driver:
//
//   - file: one JSON document per sport, data/<sport>_elo.json
//   - postgres: the team_ratings table, one row per team
//   - redis: one hash per sport, team name to JSON record
//   - memory: process-local, for tests and dry runs
//
// Every backend returns an empty table, not an error, for a sport that has
// never been saved.
package ratings

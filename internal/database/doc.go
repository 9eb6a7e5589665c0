// Package database provides PostgreSQL connection pools.
//
// Two optional consumers share it:
//   - the postgres rating backend (team_ratings table)
//   - the prediction log writer (predictions table)
package database

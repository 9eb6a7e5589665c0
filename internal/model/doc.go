// Package model defines the data types shared between the provider clients,
// the updater and the publishers (report, prediction log, HTTP API).
//
// Conventions:
//   - Team names are provider display names and double as rating keys
//   - Times are UTC time.Time values
//   - Odds are decimal (European) prices
//   - Run IDs are uuid.UUID
package model

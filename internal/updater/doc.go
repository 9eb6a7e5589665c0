// Package updater runs the fetch, predict and publish cycle.
//
// Each cycle:
//   - Fetches today's fixtures and bookmaker prices for every configured feed,
//     bounded by Config.Concurrency
//   - Predicts every fixture with its sport's engine
//   - Hands the resulting PredictionRun to each RunHandler (report, log, ...)
//
// A provider failure costs only that feed's fixtures for the cycle.
package updater

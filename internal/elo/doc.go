// Package elo implements the rating and prediction engine.
//
// Each sport has a Profile (base factor, home advantage, default rating,
// outcome count). An Engine binds one Profile to a Store of team records and
// turns the rating gap between two teams into win/draw/loss probabilities:
//
//   - ratings are adjusted by recent form: rating + (WeightedForm - 1.5) * 20
//   - the home side gets the profile's home advantage unless the venue is neutral
//   - each side is scored with the logistic curve 1 / (1 + 10^((b - a) / 400))
//   - three-outcome sports take the remainder as the draw and renormalise
//
// Unknown teams resolve to the profile defaults. Unknown sports are a
// configuration error (ErrUnknownSport).
package elo

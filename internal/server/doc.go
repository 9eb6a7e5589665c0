// Package server exposes ratings and predictions over HTTP.
//
// Routes:
//
//	GET /health
//	GET /api/v1/sports
//	GET /api/v1/sports/{sport}/ratings
//	GET /api/v1/sports/{sport}/ratings/{team}
//	GET /api/v1/sports/{sport}/predict?home=&away=&neutral=
//	GET /api/v1/predictions/latest
package server

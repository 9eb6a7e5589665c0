// Package report renders a PredictionRun as a static HTML page.
//
// The page groups the day's matches by sport and shows the model's outcome
// percentages next to each team's rating, form score and the best
// bookmaker prices. The default template is embedded; report.template in
// the config overrides it.
package report

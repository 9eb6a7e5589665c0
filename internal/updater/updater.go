package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/smartbet/internal/config"
	"github.com/rickgao/smartbet/internal/elo"
	"github.com/rickgao/smartbet/internal/model"
)

// FixtureSource lists a competition's scheduled matches on a UTC day.
type FixtureSource interface {
	Fixtures(ctx context.Context, sport, competition string, day time.Time) ([]model.Fixture, error)
}

// OddsSource lists a sport key's priced events. The fixtures it returns are
// the events starting on day.
type OddsSource interface {
	Odds(ctx context.Context, sport, sportKey string, day time.Time) ([]model.Fixture, []model.MatchOdds, error)
}

// Sources groups the providers a cycle reads from. Either may be nil.
type Sources struct {
	Fixtures FixtureSource
	Odds     OddsSource
}

// RunHandler receives every completed run.
type RunHandler interface {
	HandleRun(ctx context.Context, run *model.PredictionRun) error
}

// RunHandlerFunc is a function adapter for RunHandler.
type RunHandlerFunc func(context.Context, *model.PredictionRun) error

func (f RunHandlerFunc) HandleRun(ctx context.Context, run *model.PredictionRun) error {
	return f(ctx, run)
}

// Config holds updater configuration.
type Config struct {
	Interval    time.Duration // Cycle interval (default: 6h)
	Concurrency int           // Max feeds fetched at once (default: 4)
	Timeout     time.Duration // Per-feed fetch timeout (default: 2m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    config.DefaultUpdateInterval,
		Concurrency: config.DefaultUpdateConcurrency,
		Timeout:     config.DefaultUpdateTimeout,
	}
}

// ConfigFrom converts the file configuration.
func ConfigFrom(c config.UpdaterConfig) Config {
	return Config{
		Interval:    c.Interval,
		Concurrency: c.Concurrency,
		Timeout:     c.Timeout,
	}
}

// Updater periodically predicts the day's fixtures.
type Updater struct {
	cfg      Config
	feeds    []config.FeedConfig
	engines  map[string]*elo.Engine
	sources  Sources
	handlers []RunHandler
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.RWMutex
	latest *model.PredictionRun

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an Updater. Every feed's sport must have an engine.
func New(
	cfg Config,
	feeds []config.FeedConfig,
	engines map[string]*elo.Engine,
	sources Sources,
	logger *slog.Logger,
	handlers ...RunHandler,
) (*Updater, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultUpdateTimeout
	}
	for i, f := range feeds {
		if _, ok := engines[f.Sport]; !ok {
			return nil, fmt.Errorf("feeds[%d]: %w: %q", i, elo.ErrUnknownSport, f.Sport)
		}
	}
	return &Updater{
		cfg:      cfg,
		feeds:    feeds,
		engines:  engines,
		sources:  sources,
		handlers: handlers,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Latest returns the most recent completed run, or nil before the first one.
// The run must not be modified.
func (u *Updater) Latest() *model.PredictionRun {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.latest
}

// Start runs a cycle immediately and then on every interval.
func (u *Updater) Start(ctx context.Context) error {
	if u.cfg.Interval <= 0 {
		return fmt.Errorf("start updater: interval must be positive, got %v", u.cfg.Interval)
	}
	u.ctx, u.cancel = context.WithCancel(ctx)

	u.wg.Add(1)
	go u.run()

	u.logger.Info("updater started",
		"interval", u.cfg.Interval,
		"feeds", len(u.feeds),
		"concurrency", u.cfg.Concurrency,
	)
	return nil
}

// Stop gracefully shuts down the updater.
func (u *Updater) Stop(ctx context.Context) error {
	if u.cancel != nil {
		u.cancel()
	}

	done := make(chan struct{})
	go func() {
		u.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		u.logger.Info("updater stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *Updater) run() {
	defer u.wg.Done()

	ticker := time.NewTicker(u.cfg.Interval)
	defer ticker.Stop()

	u.cycle()

	for {
		select {
		case <-u.ctx.Done():
			return
		case <-ticker.C:
			u.cycle()
		}
	}
}

func (u *Updater) cycle() {
	if _, err := u.RunOnce(u.ctx); err != nil {
		u.logger.Error("update cycle failed", "error", err)
	}
}

// feedResult is what one feed contributed to a cycle.
type feedResult struct {
	feed     config.FeedConfig
	fixtures []model.Fixture
	odds     []model.MatchOdds
}

// RunOnce fetches, predicts and publishes a single cycle. Handler errors are
// joined into the returned error; the run itself is still returned and
// recorded as latest.
func (u *Updater) RunOnce(ctx context.Context) (*model.PredictionRun, error) {
	start := u.now()
	day := start.UTC()

	results := make([]feedResult, len(u.feeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.Concurrency)
	for i, feed := range u.feeds {
		g.Go(func() error {
			results[i] = u.fetchFeed(gctx, feed, day)
			return nil
		})
	}
	// fetchFeed never returns an error; failures are logged per feed.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run update: %w", err)
	}

	run := model.NewPredictionRun(start)
	seen := make(map[string]bool)
	for _, res := range results {
		engine := u.engines[res.feed.Sport]

		odds := make(map[string]model.MatchOdds, len(res.odds))
		for _, o := range res.odds {
			odds[o.Key()] = o
		}

		for _, fx := range res.fixtures {
			key := fx.Sport + "|" + model.MatchKey(fx.Home, fx.Away)
			if seen[key] {
				continue
			}
			seen[key] = true

			entry := model.Entry{
				Fixture:    fx,
				Prediction: engine.PredictTeams(fx.Home, fx.Away),
			}
			if o, ok := odds[model.MatchKey(fx.Home, fx.Away)]; ok {
				entry.Odds = &o
			}
			u.logEntry(entry)
			run.Entries = append(run.Entries, entry)
		}
	}
	run.SortEntries()

	u.mu.Lock()
	u.latest = run
	u.mu.Unlock()

	u.logger.Info("update cycle complete",
		"run_id", run.ID,
		"feeds", len(u.feeds),
		"matches", len(run.Entries),
		"duration", u.now().Sub(start),
	)

	var errs []error
	for _, h := range u.handlers {
		if err := h.HandleRun(ctx, run); err != nil {
			u.logger.Warn("run handler failed", "run_id", run.ID, "error", err)
			errs = append(errs, err)
		}
	}

	return run, errors.Join(errs...)
}

// fetchFeed reads one feed's fixtures and prices. A failed fixture fetch
// leaves the feed empty; a failed odds fetch only drops the prices.
func (u *Updater) fetchFeed(ctx context.Context, feed config.FeedConfig, day time.Time) feedResult {
	res := feedResult{feed: feed}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	switch feed.Source {
	case config.SourceFootballData:
		if u.sources.Fixtures == nil {
			u.logger.Warn("no fixture source configured", "sport", feed.Sport)
			return res
		}
		fixtures, err := u.sources.Fixtures.Fixtures(ctx, feed.Sport, feed.Competition, day)
		if err != nil {
			u.logger.Warn("failed to fetch fixtures",
				"sport", feed.Sport,
				"competition", feed.Competition,
				"error", err,
			)
			return res
		}
		res.fixtures = fixtures

		if feed.OddsKey != "" && u.sources.Odds != nil {
			_, odds, err := u.sources.Odds.Odds(ctx, feed.Sport, feed.OddsKey, day)
			if err != nil {
				u.logger.Warn("failed to fetch odds",
					"sport", feed.Sport,
					"odds_key", feed.OddsKey,
					"error", err,
				)
			}
			res.odds = odds
		}

	case config.SourceOdds:
		if u.sources.Odds == nil {
			u.logger.Warn("no odds source configured", "sport", feed.Sport)
			return res
		}
		fixtures, odds, err := u.sources.Odds.Odds(ctx, feed.Sport, feed.OddsKey, day)
		if err != nil {
			u.logger.Warn("failed to fetch odds",
				"sport", feed.Sport,
				"odds_key", feed.OddsKey,
				"error", err,
			)
			return res
		}
		res.fixtures, res.odds = fixtures, odds

	default:
		u.logger.Warn("unknown feed source", "sport", feed.Sport, "source", feed.Source)
	}

	u.logger.Debug("feed fetched",
		"sport", feed.Sport,
		"source", feed.Source,
		"fixtures", len(res.fixtures),
		"odds", len(res.odds),
	)
	return res
}

func (u *Updater) logEntry(e model.Entry) {
	p := e.Prediction
	u.logger.Info("match predicted",
		"sport", e.Fixture.Sport,
		"home", p.Home,
		"away", p.Away,
		"home_rating", p.HomeRating,
		"away_rating", p.AwayRating,
		"home_win", pct(p.HomeWin),
		"draw", pct(p.Draw),
		"away_win", pct(p.AwayWin),
	)
}

func pct(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

package updater

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/smartbet/internal/config"
	"github.com/rickgao/smartbet/internal/elo"
	"github.com/rickgao/smartbet/internal/model"
	"github.com/rickgao/smartbet/internal/ratings"
)

var testDay = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

type fakeFixtures struct {
	fixtures []model.Fixture
	err      error
	calls    atomic.Int32
}

func (f *fakeFixtures) Fixtures(ctx context.Context, sport, competition string, day time.Time) ([]model.Fixture, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.fixtures, nil
}

type fakeOdds struct {
	fixtures map[string][]model.Fixture
	odds     map[string][]model.MatchOdds
	err      error
}

func (f *fakeOdds) Odds(ctx context.Context, sport, sportKey string, day time.Time) ([]model.Fixture, []model.MatchOdds, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.fixtures[sportKey], f.odds[sportKey], nil
}

// deadlineFixtures fails like a real client once its context is done.
type deadlineFixtures struct {
	fixtures []model.Fixture
}

func (f *deadlineFixtures) Fixtures(ctx context.Context, sport, competition string, day time.Time) ([]model.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.fixtures, nil
}

func fixture(sport, home, away string, hour int) model.Fixture {
	return model.Fixture{
		ID:      home + "-" + away,
		Sport:   sport,
		Home:    home,
		Away:    away,
		Kickoff: time.Date(2026, 10, 15, hour, 0, 0, 0, time.UTC),
	}
}

func testEngines(t *testing.T) map[string]*elo.Engine {
	t.Helper()
	ctx := context.Background()

	mem := ratings.NewMemory()
	mem.Save(ctx, elo.SportSoccer, elo.Table{
		"Arsenal": {Rating: 1650},
		"Chelsea": {Rating: 1500},
	})

	engines := make(map[string]*elo.Engine)
	for _, sport := range []string{elo.SportSoccer, elo.SportBasketball} {
		e, err := elo.New(ctx, sport, nil, mem, nil)
		if err != nil {
			t.Fatalf("elo.New(%s) error = %v", sport, err)
		}
		engines[sport] = e
	}
	return engines
}

func testFeeds() []config.FeedConfig {
	return []config.FeedConfig{
		{Sport: elo.SportSoccer, Source: config.SourceFootballData, Competition: "PL", OddsKey: "soccer_epl"},
		{Sport: elo.SportBasketball, Source: config.SourceOdds, OddsKey: "basketball_nba"},
	}
}

func testConfig() Config {
	return Config{Interval: time.Hour, Concurrency: 2, Timeout: 5 * time.Second}
}

func TestNewRejectsFeedWithoutEngine(t *testing.T) {
	feeds := []config.FeedConfig{{Sport: "cricket", Source: config.SourceOdds, OddsKey: "cricket_ipl"}}
	_, err := New(testConfig(), feeds, testEngines(t), Sources{}, nil)
	if !errors.Is(err, elo.ErrUnknownSport) {
		t.Errorf("New() error = %v, want ErrUnknownSport", err)
	}
}

func TestRunOnce(t *testing.T) {
	fixtures := &fakeFixtures{fixtures: []model.Fixture{
		fixture(elo.SportSoccer, "Arsenal", "Chelsea", 19),
		fixture(elo.SportSoccer, "Everton", "Fulham", 14),
	}}
	odds := &fakeOdds{
		fixtures: map[string][]model.Fixture{
			"basketball_nba": {fixture(elo.SportBasketball, "Celtics", "Knicks", 23)},
		},
		odds: map[string][]model.MatchOdds{
			"soccer_epl": {{Home: "Arsenal", Away: "Chelsea", HomePrice: 1.8, DrawPrice: 3.6, AwayPrice: 4.5, Bookmakers: 3}},
		},
	}

	var handled atomic.Int32
	handler := RunHandlerFunc(func(ctx context.Context, run *model.PredictionRun) error {
		handled.Add(1)
		return nil
	})

	u, err := New(testConfig(), testFeeds(), testEngines(t), Sources{Fixtures: fixtures, Odds: odds}, nil, handler)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	u.now = func() time.Time { return testDay }

	if u.Latest() != nil {
		t.Fatal("Latest() before first run should be nil")
	}

	run, err := u.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if handled.Load() != 1 {
		t.Errorf("handler calls = %d, want 1", handled.Load())
	}
	if u.Latest() != run {
		t.Error("Latest() should return the completed run")
	}
	if !run.GeneratedAt.Equal(testDay) {
		t.Errorf("GeneratedAt = %v, want %v", run.GeneratedAt, testDay)
	}

	if len(run.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(run.Entries))
	}
	wantOrder := []string{"Everton", "Arsenal", "Celtics"}
	for i, home := range wantOrder {
		if got := run.Entries[i].Fixture.Home; got != home {
			t.Errorf("Entries[%d].Home = %q, want %q", i, got, home)
		}
	}

	ars := run.Entries[1]
	if ars.Odds == nil || ars.Odds.HomePrice != 1.8 {
		t.Errorf("Arsenal odds = %+v, want home price 1.8", ars.Odds)
	}
	if ars.Prediction.HomeRating != 1650 || ars.Prediction.AwayRating != 1500 {
		t.Errorf("ratings = %v/%v", ars.Prediction.HomeRating, ars.Prediction.AwayRating)
	}
	if ars.Prediction.HomeWin <= ars.Prediction.AwayWin {
		t.Errorf("stronger home side should be favourite: %+v", ars.Prediction)
	}
	if run.Entries[0].Odds != nil {
		t.Errorf("Everton should have no odds, got %+v", run.Entries[0].Odds)
	}

	nba := run.Entries[2].Prediction
	if nba.Draw != 0 {
		t.Errorf("basketball draw = %v, want 0", nba.Draw)
	}
}

func TestRunOnceZeroTimeoutUsesDefault(t *testing.T) {
	sources := Sources{Fixtures: &deadlineFixtures{fixtures: []model.Fixture{
		fixture(elo.SportSoccer, "Arsenal", "Chelsea", 19),
	}}}
	feeds := testFeeds()[:1]

	for _, timeout := range []time.Duration{0, -time.Second} {
		cfg := Config{Interval: time.Hour, Concurrency: 1, Timeout: timeout}
		u, err := New(cfg, feeds, testEngines(t), sources, nil)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if u.cfg.Timeout != config.DefaultUpdateTimeout {
			t.Errorf("timeout %v: cfg.Timeout = %v, want %v", timeout, u.cfg.Timeout, config.DefaultUpdateTimeout)
		}

		run, err := u.RunOnce(context.Background())
		if err != nil {
			t.Fatalf("RunOnce() error = %v", err)
		}
		if len(run.Entries) != 1 {
			t.Errorf("timeout %v: len(Entries) = %d, want 1", timeout, len(run.Entries))
		}
	}
}

func TestRunOnceProviderFailure(t *testing.T) {
	fixtures := &fakeFixtures{err: errors.New("football-data api error 503: Service Unavailable")}
	odds := &fakeOdds{
		fixtures: map[string][]model.Fixture{
			"basketball_nba": {fixture(elo.SportBasketball, "Celtics", "Knicks", 23)},
		},
	}

	u, err := New(testConfig(), testFeeds(), testEngines(t), Sources{Fixtures: fixtures, Odds: odds}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	run, err := u.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(run.Entries) != 1 || run.Entries[0].Fixture.Sport != elo.SportBasketball {
		t.Errorf("Entries = %+v, want only the basketball fixture", run.Entries)
	}
}

func TestRunOnceAllProvidersDown(t *testing.T) {
	sources := Sources{
		Fixtures: &fakeFixtures{err: errors.New("down")},
		Odds:     &fakeOdds{err: errors.New("down")},
	}
	u, err := New(testConfig(), testFeeds(), testEngines(t), sources, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	run, err := u.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(run.Entries) != 0 {
		t.Errorf("len(Entries) = %d, want 0", len(run.Entries))
	}
}

func TestRunOnceDeduplicates(t *testing.T) {
	fx := fixture(elo.SportSoccer, "Arsenal", "Chelsea", 19)
	feeds := []config.FeedConfig{
		{Sport: elo.SportSoccer, Source: config.SourceFootballData, Competition: "PL"},
		{Sport: elo.SportSoccer, Source: config.SourceFootballData, Competition: "PL"},
	}
	u, err := New(testConfig(), feeds, testEngines(t), Sources{Fixtures: &fakeFixtures{fixtures: []model.Fixture{fx}}}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	run, err := u.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(run.Entries) != 1 {
		t.Errorf("len(Entries) = %d, want 1", len(run.Entries))
	}
}

func TestRunOnceHandlerError(t *testing.T) {
	boom := errors.New("disk full")
	handler := RunHandlerFunc(func(ctx context.Context, run *model.PredictionRun) error {
		return boom
	})

	u, err := New(testConfig(), nil, testEngines(t), Sources{}, nil, handler)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	run, err := u.RunOnce(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("RunOnce() error = %v, want %v", err, boom)
	}
	if run == nil || u.Latest() != run {
		t.Error("run should be recorded even when a handler fails")
	}
}

func TestUpdater_StartStop(t *testing.T) {
	fixtures := &fakeFixtures{fixtures: []model.Fixture{fixture(elo.SportSoccer, "Arsenal", "Chelsea", 19)}}
	feeds := testFeeds()[:1]

	var called atomic.Bool
	handler := RunHandlerFunc(func(ctx context.Context, run *model.PredictionRun) error {
		called.Store(true)
		return nil
	})

	cfg := Config{Interval: 100 * time.Millisecond, Concurrency: 1, Timeout: time.Second}
	u, err := New(cfg, feeds, testEngines(t), Sources{Fixtures: fixtures}, nil, handler)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := u.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for at least one cycle.
	time.Sleep(150 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := u.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !called.Load() {
		t.Error("handler should have been called")
	}
	if fixtures.calls.Load() < 1 {
		t.Error("fixture source should have been queried")
	}
}

func TestStartRejectsZeroInterval(t *testing.T) {
	u, err := New(Config{Concurrency: 1}, nil, testEngines(t), Sources{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := u.Start(context.Background()); err == nil {
		t.Error("Start() error = nil, want error")
	}
}

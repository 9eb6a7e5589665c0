package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLogLevel          = "info"
	DefaultStorageDriver     = "file"
	DefaultStorageDir        = "data"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisKeyPrefix    = "smartbet:"
	DefaultFixturesURL       = "https://api.football-data.org/v4"
	DefaultOddsURL           = "https://api.the-odds-api.com/v4"
	DefaultOddsRegions       = "us,uk"
	DefaultProviderTimeout   = 10 * time.Second
	DefaultProviderRetries   = 3
	DefaultUpdateInterval    = 6 * time.Hour
	DefaultUpdateConcurrency = 4
	DefaultUpdateTimeout     = 2 * time.Minute
	DefaultReportPath        = "index.html"
	DefaultServerPort        = 8080
)

// DefaultFeeds mirrors the fixtures the service tracks out of the box.
func DefaultFeeds() []FeedConfig {
	return []FeedConfig{
		{Sport: "soccer", Source: SourceFootballData, Competition: "PL", OddsKey: "soccer_epl"},
		{Sport: "basketball", Source: SourceOdds, OddsKey: "basketball_nba"},
	}
}

// ApplyDefaults fills every unset optional field.
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	// Storage defaults
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir
	}
	applyDBDefaults(&c.Storage.Postgres)
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = DefaultRedisAddr
	}
	if c.Storage.Redis.KeyPrefix == "" {
		c.Storage.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// Provider defaults
	if c.Providers.Fixtures.BaseURL == "" {
		c.Providers.Fixtures.BaseURL = DefaultFixturesURL
	}
	if c.Providers.Odds.BaseURL == "" {
		c.Providers.Odds.BaseURL = DefaultOddsURL
	}
	if c.Providers.Odds.Regions == "" {
		c.Providers.Odds.Regions = DefaultOddsRegions
	}
	applyProviderDefaults(&c.Providers.Fixtures)
	applyProviderDefaults(&c.Providers.Odds)

	if len(c.Feeds) == 0 {
		c.Feeds = DefaultFeeds()
	}

	// Updater defaults
	if c.Updater.Interval == 0 {
		c.Updater.Interval = DefaultUpdateInterval
	}
	if c.Updater.Concurrency == 0 {
		c.Updater.Concurrency = DefaultUpdateConcurrency
	}
	if c.Updater.Timeout == 0 {
		c.Updater.Timeout = DefaultUpdateTimeout
	}

	if c.Report.Path == "" {
		c.Report.Path = DefaultReportPath
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}

	if c.Predictions.Enabled {
		applyDBDefaults(&c.Predictions.Database)
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func applyProviderDefaults(p *ProviderConfig) {
	if p.Timeout == 0 {
		p.Timeout = DefaultProviderTimeout
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultProviderRetries
	}
}

package config

import (
	"time"

	"github.com/rickgao/smartbet/internal/elo"
)

// Config is the root configuration for the prediction service.
type Config struct {
	Log         LogConfig              `yaml:"log"`
	Storage     StorageConfig          `yaml:"storage"`
	Providers   ProvidersConfig        `yaml:"providers"`
	Sports      map[string]SportConfig `yaml:"sports"`
	Feeds       []FeedConfig           `yaml:"feeds"`
	Updater     UpdaterConfig          `yaml:"updater"`
	Report      ReportConfig           `yaml:"report"`
	Server      ServerConfig           `yaml:"server"`
	Predictions PredictionLogConfig    `yaml:"predictions"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// StorageConfig selects where rating tables live.
type StorageConfig struct {
	Driver   string      `yaml:"driver"` // file, postgres, redis, memory
	Dir      string      `yaml:"dir"`    // file driver: directory of <sport>_elo.json
	Postgres DBConfig    `yaml:"postgres"`
	Redis    RedisConfig `yaml:"redis"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RedisConfig holds the Redis connection for the redis driver.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ProvidersConfig holds the third-party data providers.
type ProvidersConfig struct {
	Fixtures ProviderConfig `yaml:"fixtures"` // football-data.org
	Odds     ProviderConfig `yaml:"odds"`     // the-odds-api.com
}

// ProviderConfig holds one REST provider.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	Regions    string        `yaml:"regions"` // odds only
}

// SportConfig overrides or adds a sport profile. Nil fields keep the
// built-in value; an explicit zero overrides it.
type SportConfig struct {
	BaseK         *float64 `yaml:"base_k"`
	HomeAdvantage *float64 `yaml:"home_advantage"`
	DefaultRating *float64 `yaml:"default_rating"`
	Outcomes      *int     `yaml:"outcomes"`
	DrawMargin    *float64 `yaml:"draw_margin"`
}

// Feed sources.
const (
	SourceFootballData = "football-data"
	SourceOdds         = "odds"
)

// FeedConfig describes where the fixtures of one sport come from.
type FeedConfig struct {
	Sport       string `yaml:"sport"`
	Source      string `yaml:"source"`      // football-data or odds
	Competition string `yaml:"competition"` // football-data competition code, e.g. PL
	OddsKey     string `yaml:"odds_key"`    // the-odds-api sport key, e.g. soccer_epl
}

// UpdaterConfig holds the fetch/predict/publish cycle settings.
type UpdaterConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ReportConfig holds the HTML report settings.
type ReportConfig struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"` // optional override of the embedded template
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// PredictionLogConfig enables the PostgreSQL prediction log.
type PredictionLogConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Database DBConfig `yaml:"database"`
}

// Profiles returns the built-in sport profiles with the configured
// overrides and additions applied.
func (c *Config) Profiles() (*elo.Profiles, error) {
	profiles := elo.DefaultProfiles()
	for sport, sc := range c.Sports {
		p, err := profiles.Lookup(sport)
		if err != nil {
			p = elo.Profile{Sport: sport}
		}
		if sc.BaseK != nil {
			p.BaseK = *sc.BaseK
		}
		if sc.HomeAdvantage != nil {
			p.HomeAdvantage = *sc.HomeAdvantage
		}
		if sc.DefaultRating != nil {
			p.DefaultRating = *sc.DefaultRating
		}
		if sc.Outcomes != nil {
			p.Outcomes = *sc.Outcomes
		}
		if sc.DrawMargin != nil {
			p.DrawMargin = *sc.DrawMargin
		}
		if err := profiles.Register(p); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// FeedSports returns the distinct sports named by the feeds, in order.
func (c *Config) FeedSports() []string {
	seen := make(map[string]bool, len(c.Feeds))
	var sports []string
	for _, f := range c.Feeds {
		if !seen[f.Sport] {
			seen[f.Sport] = true
			sports = append(sports, f.Sport)
		}
	}
	return sports
}

package config

import (
	"errors"
	"fmt"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	switch c.Storage.Driver {
	case "file":
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required")
		}
	case "postgres":
		if err := c.Storage.Postgres.validate("storage.postgres"); err != nil {
			return err
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return errors.New("storage.redis.addr is required")
		}
		if c.Storage.Redis.DB < 0 {
			return errors.New("storage.redis.db must be >= 0")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.driver must be one of file, postgres, redis, memory, got %q", c.Storage.Driver)
	}

	profiles, err := c.Profiles()
	if err != nil {
		return fmt.Errorf("sports: %w", err)
	}

	if len(c.Feeds) == 0 {
		return errors.New("feeds must not be empty")
	}
	for i, f := range c.Feeds {
		prefix := fmt.Sprintf("feeds[%d]", i)
		if _, err := profiles.Lookup(f.Sport); err != nil {
			return fmt.Errorf("%s.sport: %w", prefix, err)
		}
		switch f.Source {
		case SourceFootballData:
			if f.Competition == "" {
				return fmt.Errorf("%s.competition is required for source %s", prefix, f.Source)
			}
		case SourceOdds:
			if f.OddsKey == "" {
				return fmt.Errorf("%s.odds_key is required for source %s", prefix, f.Source)
			}
		default:
			return fmt.Errorf("%s.source must be %s or %s, got %q", prefix, SourceFootballData, SourceOdds, f.Source)
		}
	}

	if c.Providers.Fixtures.MaxRetries < 0 || c.Providers.Odds.MaxRetries < 0 {
		return errors.New("providers.*.max_retries must be >= 0")
	}

	if c.Updater.Interval <= 0 {
		return errors.New("updater.interval must be > 0")
	}
	if c.Updater.Concurrency < 1 {
		return errors.New("updater.concurrency must be >= 1")
	}
	if c.Updater.Timeout <= 0 {
		return errors.New("updater.timeout must be > 0")
	}

	if c.Report.Path == "" {
		return errors.New("report.path is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Predictions.Enabled {
		if err := c.Predictions.Database.validate("predictions.database"); err != nil {
			return err
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

package database

import (
	"net/url"
	"strconv"

	"github.com/rickgao/smartbet/internal/config"
)

// ApplicationName is reported to PostgreSQL for every connection.
const ApplicationName = "smartbet"

// BuildConnString builds a PostgreSQL connection URL from config.
// Credentials are escaped so passwords may contain URL metacharacters.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("application_name", ApplicationName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

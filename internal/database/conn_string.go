package database

import (
	"fmt"
	"net/url"

	"github.com/Glx28/billigst-mat/internal/config"
)

// BuildConnString assembles the pgx connection URL for the history
// database. The password is URL-escaped so secrets with reserved
// characters survive; sslmode falls back to "prefer" when unset.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}

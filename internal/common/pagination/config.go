// Package pagination implements offset/limit pagination over a counted,
// windowed result set and builds the previous/next links for a page.
package pagination

import (
	envcfg "ashes-live/pkg/config"
)

// Config bounds the page window a client may ask for.
type Config struct {
	DefaultLimit int // used when the request carries no limit
	MaxLimit     int
}

// DefaultConfig pages 30 rows at a time, at most 100.
func DefaultConfig() Config {
	return Config{DefaultLimit: 30, MaxLimit: 100}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT.
// Unset, malformed or inconsistent values fall back to DefaultConfig.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultLimit: envcfg.GetEnvInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     envcfg.GetEnvInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(def.DefaultLimit, cfg.MaxLimit)
	}
	return cfg
}

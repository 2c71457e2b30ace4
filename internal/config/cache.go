package config

import "time"

// CacheConfig defines settings for the restaurant settings cache that fronts
// the financial calculator. When Enabled is false or no Redis client is
// configured, settings are read from the database on every calculation.
type CacheConfig struct {
	Enabled bool          `envconfig:"ENABLED" default:"true"`
	TTL     time.Duration `envconfig:"TTL" default:"30s"`
	Prefix  string        `envconfig:"PREFIX" default:"settings"`
}

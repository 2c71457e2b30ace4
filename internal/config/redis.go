package config

// Redis is used for distributed rate limiting and for caching restaurant
// settings. If the server cannot be reached during startup the constructor
// returns nil and callers degrade gracefully by disabling both features.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisConfig is read from REDIS_* variables. Host and Port take precedence
// over Addr when both are set.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
	TLS      bool   `envconfig:"TLS"`
}

// Address resolves the host:port pair to dial.
func (c RedisConfig) Address() string {
	if c.Host != "" && c.Port != "" {
		return c.Host + ":" + c.Port
	}
	if c.Addr == "" {
		return "localhost:6379"
	}
	return c.Addr
}

// NewRedisClient instantiates a Redis client and pings it. The returned
// client is nil if a connection cannot be established.
func NewRedisClient(cfg RedisConfig, log logrus.FieldLogger) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Address(),
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.Address()).Warn("redis unavailable; rate limiting and settings cache disabled")
		_ = client.Close()
		return nil
	}
	return client
}

package pricing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// CachedSettings fronts another SettingsSource with Redis. Redis errors are
// logged and the request falls through to the wrapped source.
type CachedSettings struct {
	next   SettingsSource
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    logrus.FieldLogger
}

// NewCachedSettings wraps next. When caching is disabled or rdb is nil the
// wrapped source is returned unchanged.
func NewCachedSettings(next SettingsSource, rdb *redis.Client, cfg config.CacheConfig, log logrus.FieldLogger) SettingsSource {
	if !cfg.Enabled || rdb == nil || cfg.TTL <= 0 {
		return next
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "settings"
	}
	return &CachedSettings{next: next, rdb: rdb, ttl: cfg.TTL, prefix: prefix, log: log}
}

func (c *CachedSettings) key(restaurantID string) string {
	return c.prefix + ":" + restaurantID
}

// Settings implements SettingsSource.
func (c *CachedSettings) Settings(ctx context.Context, q database.Querier, restaurantID string) (model.RestaurantSettings, error) {
	key := c.key(restaurantID)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var s model.RestaurantSettings
		if jerr := json.Unmarshal(raw, &s); jerr == nil {
			return s, nil
		}
		c.log.WithField("key", key).Warn("discarding undecodable cached settings")
	case err != redis.Nil:
		c.log.WithError(err).WithField("key", key).Warn("settings cache read failed")
	}

	s, err := c.next.Settings(ctx, q, restaurantID)
	if err != nil {
		return model.RestaurantSettings{}, err
	}
	if body, jerr := json.Marshal(s); jerr == nil {
		if serr := c.rdb.Set(ctx, key, body, c.ttl).Err(); serr != nil {
			c.log.WithError(serr).WithField("key", key).Warn("settings cache write failed")
		}
	}
	return s, nil
}

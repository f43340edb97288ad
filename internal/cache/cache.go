// Package cache puts a Redis read-through cache in front of a shop source.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shop-finder/internal/logger"
	"shop-finder/internal/models"
	"shop-finder/internal/search"
)

const DefaultTTL = 10 * time.Minute

type Source struct {
	inner search.ShopSource
	rdb   redis.UniversalClient
	name  string
	ttl   time.Duration
	log   *zap.Logger
}

// New wraps inner. name separates the key space of different inner sources.
func New(inner search.ShopSource, rdb redis.UniversalClient, name string, ttl time.Duration, log *zap.Logger) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Source{
		inner: inner,
		rdb:   rdb,
		name:  name,
		ttl:   ttl,
		log:   logger.OrNop(log),
	}
}

// Key is the cache key of one lookup. Centers are rounded to 4 decimals so
// nearby repeats share an entry.
func Key(name string, center models.Coordinate, radiusKm float64) string {
	return fmt.Sprintf("shops:%s:%.4f:%.4f:%g", name, center.Lat, center.Lon, radiusKm)
}

// Search serves from Redis when possible. Redis failures fall through to the
// inner source; inner failures are returned and never stored.
func (s *Source) Search(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error) {
	key := Key(s.name, center, radiusKm)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var shops []models.Shop
		if err := json.Unmarshal(raw, &shops); err == nil {
			s.log.Debug("cache hit", zap.String("key", key), zap.Int("shops", len(shops)))
			return shops, nil
		}
		s.log.Warn("discarding corrupt cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	shops, err := s.inner.Search(ctx, center, radiusKm)
	if err != nil {
		return nil, err
	}
	if shops == nil {
		shops = []models.Shop{}
	}

	payload, err := json.Marshal(shops)
	if err != nil {
		return shops, nil
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return shops, nil
}

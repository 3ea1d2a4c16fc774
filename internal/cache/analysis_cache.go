package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oddsflow/fightline/internal/models"
)

// AnalysisCacheStats tracks cache performance metrics.
type AnalysisCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// AnalysisCache caches computed market-analysis payloads in Redis. Analyses
// are cheap to recompute but requested far more often than odds change, so a
// short TTL removes most of the recomputation without serving stale lines
// for long.
type AnalysisCache struct {
	redis   *redis.Client
	ttl     time.Duration
	statsMu sync.RWMutex
	stats   AnalysisCacheStats
	prefix  string
}

// NewAnalysisCache creates a Redis-backed analysis cache.
func NewAnalysisCache(redisClient *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "analysis_cache:",
	}
}

// Get retrieves a cached analysis for a fight. A miss or any Redis error
// reports not-found; the caller recomputes.
func (c *AnalysisCache) Get(ctx context.Context, fightID string) (*models.MarketAnalysis, bool) {
	data, err := c.redis.Get(ctx, c.prefix+fightID).Result()
	if err == redis.Nil {
		c.recordMiss()
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("fight_id", fightID).Warn("Redis error reading analysis cache")
		c.recordMiss()
		return nil, false
	}

	var analysis models.MarketAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		logrus.WithError(err).WithField("fight_id", fightID).Warn("Failed to decode cached analysis")
		c.recordMiss()
		return nil, false
	}

	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()

	return &analysis, true
}

// Set stores an analysis for a fight with the configured TTL.
func (c *AnalysisCache) Set(ctx context.Context, fightID string, analysis *models.MarketAnalysis) {
	data, err := json.Marshal(analysis)
	if err != nil {
		logrus.WithError(err).WithField("fight_id", fightID).Warn("Failed to encode analysis for cache")
		return
	}

	if err := c.redis.Set(ctx, c.prefix+fightID, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("fight_id", fightID).Warn("Redis error writing analysis cache")
		return
	}

	c.statsMu.Lock()
	c.stats.Sets++
	c.statsMu.Unlock()
}

// Invalidate drops the cached analysis for a fight, used after ingesting a
// new snapshot so readers never wait out the TTL on a moved line.
func (c *AnalysisCache) Invalidate(ctx context.Context, fightID string) {
	if err := c.redis.Del(ctx, c.prefix+fightID).Err(); err != nil {
		logrus.WithError(err).WithField("fight_id", fightID).Warn("Redis error invalidating analysis cache")
	}
}

// GetStats returns a copy of the cache counters.
func (c *AnalysisCache) GetStats() AnalysisCacheStats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

func (c *AnalysisCache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}

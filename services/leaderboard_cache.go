package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"club-management-system/models"

	"github.com/redis/go-redis/v9"
)

const leaderboardCacheKey = "leaderboard:top"

// LeaderboardCache keeps the fully ranked club list in Redis under a short
// TTL. A cache failure is never fatal: callers fall through to the ledger.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLeaderboardCache(rdb *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LeaderboardCache{rdb: rdb, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]models.LeaderboardEntry, bool) {
	payload, err := c.rdb.Get(ctx, leaderboardCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("⚠️ [LEADERBOARD_CACHE] read failed: %v", err)
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		log.Printf("⚠️ [LEADERBOARD_CACHE] corrupt payload, dropping: %v", err)
		_ = c.rdb.Del(ctx, leaderboardCacheKey).Err()
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, entries []models.LeaderboardEntry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, leaderboardCacheKey, payload, c.ttl).Err(); err != nil {
		log.Printf("⚠️ [LEADERBOARD_CACHE] write failed: %v", err)
	}
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		log.Printf("⚠️ [LEADERBOARD_CACHE] invalidate failed: %v", err)
	}
}

// LeaderboardInvalidator drops the cached leaderboard whenever a mission
// completes, since the award just changed some club's balance.
type LeaderboardInvalidator struct {
	Cache *LeaderboardCache
}

func (l *LeaderboardInvalidator) OnMissionCompleted(models.MissionProgress) error {
	l.Cache.Invalidate(context.Background())
	return nil
}

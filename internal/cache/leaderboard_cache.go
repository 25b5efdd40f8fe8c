package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// LookupRecorder mencatat hit/miss cache (diimplementasikan observability.Metrics)
type LookupRecorder interface {
	IncrCacheLookup(cache, result string)
}

// LeaderboardCache menyimpan top-N leaderboard per tenant.
// Get mengembalikan ok=false saat cache miss.
type LeaderboardCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (entries []model.LeaderboardEntry, ok bool, err error)
	Set(ctx context.Context, tenantID uuid.UUID, entries []model.LeaderboardEntry) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

type redisLeaderboardCache struct {
	client   *redis.Client
	ttl      time.Duration
	recorder LookupRecorder
}

// NewRedisClient membuka koneksi Redis; Addr kosong berarti cache tidak dipakai (nil, nil)
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  3,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewLeaderboardCache memakai Redis bila client tersedia, selain itu cache no-op
func NewLeaderboardCache(client *redis.Client, ttl time.Duration, recorder LookupRecorder) LeaderboardCache {
	if client == nil {
		return NoopLeaderboardCache{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisLeaderboardCache{client: client, ttl: ttl, recorder: recorder}
}

func leaderboardKey(tenantID uuid.UUID) string {
	return "leaderboard:" + tenantID.String()
}

func (c *redisLeaderboardCache) record(result string) {
	if c.recorder != nil {
		c.recorder.IncrCacheLookup("leaderboard", result)
	}
}

func (c *redisLeaderboardCache) Get(ctx context.Context, tenantID uuid.UUID) ([]model.LeaderboardEntry, bool, error) {
	val, err := c.client.Get(ctx, leaderboardKey(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record("miss")
		return nil, false, nil
	} else if err != nil {
		c.record("error")
		return nil, false, err
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(val, &entries); err != nil {
		c.record("error")
		return nil, false, err
	}
	c.record("hit")
	return entries, true, nil
}

func (c *redisLeaderboardCache) Set(ctx context.Context, tenantID uuid.UUID, entries []model.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardKey(tenantID), data, c.ttl).Err()
}

func (c *redisLeaderboardCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return c.client.Del(ctx, leaderboardKey(tenantID)).Err()
}

// NoopLeaderboardCache selalu miss
type NoopLeaderboardCache struct{}

func (NoopLeaderboardCache) Get(context.Context, uuid.UUID) ([]model.LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (NoopLeaderboardCache) Set(context.Context, uuid.UUID, []model.LeaderboardEntry) error {
	return nil
}

func (NoopLeaderboardCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}

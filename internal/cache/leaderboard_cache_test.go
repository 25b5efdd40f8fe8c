package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ results []string }

func (r *recorder) IncrCacheLookup(_ string, result string) { r.results = append(r.results, result) }

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := NewRedisClient(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)

	c := NewLeaderboardCache(client, time.Minute, nil)
	assert.IsType(t, NoopLeaderboardCache{}, c)
}

func TestNoopLeaderboardCacheAlwaysMisses(t *testing.T) {
	c := NoopLeaderboardCache{}
	tenantID := uuid.New()

	require.NoError(t, c.Set(context.Background(), tenantID, nil))
	entries, ok, err := c.Get(context.Background(), tenantID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, entries)
	assert.NoError(t, c.Invalidate(context.Background(), tenantID))
}

func TestRedisLeaderboardCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	rec := &recorder{}
	c := NewLeaderboardCache(client, 0, rec)

	_, ok, err := c.Get(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"error"}, rec.results)
}

func TestLeaderboardKey(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "leaderboard:11111111-2222-3333-4444-555555555555", leaderboardKey(id))
}

// Package redis caches similarity lookups. The lookup is deterministic per
// normalized query over an immutable index, so the cached (score, pos)
// pair is always valid until the process restarts with a new corpus.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	idx "github.com/postop-assist/backend/internal/index"
	"github.com/postop-assist/backend/internal/metrics"
	"github.com/postop-assist/backend/pkg/logger"
	"github.com/postop-assist/backend/pkg/utils"
)

type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GetMatch returns the cached lookup for a normalized query, if any.
func (c *Client) GetMatch(ctx context.Context, normalized string) (idx.Match, bool) {
	key := matchKey(normalized)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return idx.Match{}, false
	}
	if err != nil {
		logger.Warn("Match cache read failed", zap.Error(err))
		metrics.CacheMisses.Inc()
		return idx.Match{}, false
	}

	var m idx.Match
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn("Match cache entry corrupt", zap.Error(err))
		return idx.Match{}, false
	}

	metrics.CacheHits.Inc()
	return m, true
}

// SetMatch stores a lookup result; failures are logged and swallowed.
func (c *Client) SetMatch(ctx context.Context, normalized string, m idx.Match) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, matchKey(normalized), data, c.ttl).Err(); err != nil {
		logger.Warn("Match cache write failed", zap.Error(err))
	}
}

func matchKey(normalized string) string {
	return "match:" + utils.Digest(normalized)
}

package item

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courseloop/assessment-platform/internal/assessment"
)

const defaultCacheTTL = 5 * time.Minute

// RedisCache keeps authored items in Redis to offload hot reads (the
// same item is fetched once per learner attempt).
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) key(id string) string {
	return "item:" + id
}

func (c *RedisCache) Get(ctx context.Context, id string) (*assessment.Item, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var it assessment.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *RedisCache) Set(ctx context.Context, it assessment.Item) error {
	data, err := json.Marshal(it)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(it.ID), data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

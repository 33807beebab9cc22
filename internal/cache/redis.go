package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	entryKeyPrefix = "web:cache:"     // cached payload: web:cache:{key}
	tagKeyPrefix   = "web:cache:tag:" // set of cache keys per tag: web:cache:tag:{tag}
	tagTTLPadding  = time.Minute
)

// Redis is a Cache shared by every web instance.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps a redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, entryKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, entryKeyPrefix+key, value, ttl)
	for _, tag := range tags {
		tagKey := tagKeyPrefix + tag
		pipe.SAdd(ctx, tagKey, key)
		if ttl > 0 {
			pipe.Expire(ctx, tagKey, ttl+tagTTLPadding)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// invalidateScript drops a tag set and every entry it lists in one step, so
// a concurrent Set either lands before (and is dropped) or after (and keeps
// its membership).
var invalidateScript = redis.NewScript(`
local keys = redis.call('SMEMBERS', KEYS[1])
for _, k in ipairs(keys) do
	redis.call('DEL', ARGV[1] .. k)
end
redis.call('DEL', KEYS[1])
return #keys
`)

func (r *Redis) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		if err := invalidateScript.Run(ctx, r.client, []string{tagKeyPrefix + tag}, entryKeyPrefix).Err(); err != nil {
			return fmt.Errorf("cache invalidate %s: %w", tag, err)
		}
	}
	return nil
}

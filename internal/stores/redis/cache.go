package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache stores serialized analytics payloads under prefixed keys with
// a per-entry TTL. Entries are never deleted explicitly, the store
// expires them
type Cache struct {
	rdb    *Client
	prefix string
}

// prefix example "cometstats:"
func NewCache(rdb *Client, prefix string) (*Cache, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client is required to the cache")
	}

	return &Cache{rdb: rdb, prefix: prefix}, nil
}

// Get returns the stored payload; a missing key is (nil, false, nil)
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis GET error=%w", err)
	}
	return b, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET error=%w", err)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

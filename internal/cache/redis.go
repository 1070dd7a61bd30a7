package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "adetta:cache:"

// Redis keys every entry under the current generation number. Invalidate
// bumps the generation; stale entries are never read again and expire by TTL.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis wraps a connected client. A ttl of zero or less defaults to two seconds.
func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &Redis{rdb: rdb, ttl: ttl, prefix: defaultPrefix}
}

func (c *Redis) genKey() string { return c.prefix + "gen" }

func (c *Redis) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Redis) entryKey(gen int64, key string) string {
	return c.prefix + strconv.FormatInt(gen, 10) + ":" + key
}

func (c *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	gen, err := c.Generation(ctx)
	if err != nil {
		return false, err
	}
	b, err := c.rdb.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := decode(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetAt writes under gen itself. If Invalidate ran in between, the entry
// lands in a generation no reader asks for and expires by TTL.
func (c *Redis) SetAt(ctx context.Context, gen int64, key string, v any) error {
	b, err := encode(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.entryKey(gen, key), b, c.ttl).Err()
}

func (c *Redis) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.genKey()).Err()
}

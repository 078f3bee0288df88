package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultStateKey = "lightwatch:state"

type Client struct {
	rdb redis.Cmdable
	key string
}

// New connects to redisURL and fails fast when the server is unreachable.
func New(redisURL, key string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	// Timeouts
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	// a single writer, keep the pool small
	opt.PoolSize = 4
	opt.MinIdleConns = 1

	// Connection lifecycle
	opt.ConnMaxLifetime = 2 * time.Minute
	opt.ConnMaxIdleTime = 30 * time.Second

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return NewWithCmdable(rdb, key), nil
}

func NewWithCmdable(rdb redis.Cmdable, key string) *Client {
	if key == "" {
		key = defaultStateKey
	}
	return &Client{rdb: rdb, key: key}
}

func (c *Client) Close() error {
	if closer, ok := c.rdb.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

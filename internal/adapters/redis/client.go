package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// Client is a JSON key/value cache over go-redis. Every key is namespaced with
// the configured prefix so several deployments can share one database.
type Client struct {
	rdb    *redis.Client
	prefix string
	log    *logger.Logger
}

// NewClient connects and pings Redis
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.WrapKind(errors.ErrUnavailable, errors.Wrapf(err, "redis %s", cfg.Addr()))
	}

	log := logger.Get().With("component", "redis", "db", cfg.DB)
	log.Infow("Connected to cache", "addr", cfg.Addr(), "prefix", cfg.KeyPrefix)

	return &Client{rdb: rdb, prefix: cfg.KeyPrefix, log: log}, nil
}

// Set stores value as JSON under the prefixed key. A zero ttl keeps the key forever.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return c.rdb.Set(ctx, c.key(key), data, ttl).Err()
}

// Get decodes the JSON stored at key into dest. A missing key yields ErrCacheMiss.
func (c *Client) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrCacheMiss
	case err != nil:
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

// Health pings Redis
func (c *Client) Health(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.WrapKind(errors.ErrUnavailable, err)
	}
	return nil
}

// Close closes the connection pool
func (c *Client) Close() error {
	c.log.Info("Closing cache")
	return c.rdb.Close()
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/redis"
)

// NewTestRedis connects using settings from the environment. Keys are
// namespaced per test and deleted on cleanup, so tests never flush shared data.
func NewTestRedis(t *testing.T, keys ...string) *redis.Client {
	t.Helper()

	cfg := RedisConfigFromEnv(t)
	cfg.KeyPrefix = fmt.Sprintf("test:%s:%d:", t.Name(), time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Delete(context.Background(), keys...)
		_ = client.Close()
	})

	return client
}

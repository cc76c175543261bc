package testsupport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5543")
	t.Setenv("CLICKHOUSE_HOST", "click")
	t.Setenv("CLICKHOUSE_PORT", "8123")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_DB", "2")

	pg := PostgresConfigFromEnv(t)
	assert.Equal(t, "localhost", pg.Host)
	assert.Equal(t, 5543, pg.Port)
	assert.Equal(t, "disable", pg.SSLMode)
	assert.Equal(t, 5, pg.MaxConns)

	ch := ClickHouseConfigFromEnv(t)
	assert.Equal(t, 8123, ch.Port)
	assert.Equal(t, "default", ch.User)

	rd := RedisConfigFromEnv(t)
	assert.Equal(t, 6379, rd.Port)
	assert.Equal(t, 2, rd.DB)
	assert.Equal(t, "finagents:", rd.KeyPrefix)
}

func TestConfigFromEnv_SkipsWithoutHost(t *testing.T) {
	t.Setenv("REDIS_HOST", "")

	skipped := true
	t.Run("redis", func(t *testing.T) {
		RedisConfigFromEnv(t)
		skipped = false
	})
	assert.True(t, skipped)
}

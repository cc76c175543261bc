package testsupport

import (
	"testing"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
)

// envFile is loaded, when present, before any integration settings are read
const envFile = ".env.test"

// PostgresConfigFromEnv reads the company store settings. The test is skipped
// unless POSTGRES_HOST is set.
func PostgresConfigFromEnv(t *testing.T) config.PostgresConfig {
	t.Helper()
	cfg := fromEnv[config.PostgresConfig](t)
	skipUnless(t, cfg.Enabled(), "POSTGRES_HOST")
	cfg.MaxConns = 5
	return cfg
}

// ClickHouseConfigFromEnv reads the run history settings. The test is skipped
// unless CLICKHOUSE_HOST is set.
func ClickHouseConfigFromEnv(t *testing.T) config.ClickHouseConfig {
	t.Helper()
	cfg := fromEnv[config.ClickHouseConfig](t)
	skipUnless(t, cfg.Enabled(), "CLICKHOUSE_HOST")
	return cfg
}

// RedisConfigFromEnv reads the cache settings. The test is skipped unless REDIS_HOST is set.
func RedisConfigFromEnv(t *testing.T) config.RedisConfig {
	t.Helper()
	cfg := fromEnv[config.RedisConfig](t)
	skipUnless(t, cfg.Enabled(), "REDIS_HOST")
	return cfg
}

func fromEnv[T any](t *testing.T) T {
	t.Helper()
	_ = godotenv.Load(envFile)

	var cfg T
	if err := envconfig.Process("", &cfg); err != nil {
		t.Fatalf("invalid integration environment: %v", err)
	}
	return cfg
}

func skipUnless(t *testing.T, enabled bool, key string) {
	t.Helper()
	if !enabled {
		t.Skipf("integration environment missing, set %s to run", key)
	}
}

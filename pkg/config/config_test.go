package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/stanza/pkg/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stanza.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
chains:
  url: https://poems.example.org
pool:
  preferred: [there]
engine:
  attribution: historical
  seed: 7
store:
  kind: redis
  redis:
    addr: redis:6379
    ttl: 1h
http:
  metrics: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")
	assert.Equal(t, "https://poems.example.org", cfg.Chains.URL)
	assert.Equal(t, []string{"there"}, cfg.Pool.Preferred)
	assert.Len(t, cfg.Pool.All, 10)
	assert.Equal(t, uint64(7), cfg.Engine.Seed)
	assert.Equal(t, "redis", cfg.Store.Kind)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "stanza:session:", cfg.Store.Redis.Prefix)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.True(t, cfg.HTTP.Metrics)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "http:\n  addr: \":9000\"\n")
	t.Setenv("STANZA_HTTP_ADDR", ":7000")
	t.Setenv("STANZA_POOL_ALL", "a,b,c")
	t.Setenv("STANZA_ENGINE_EARLY_MIN_WORDS", "6")
	t.Setenv("STANZA_CHAINS_WATCH", "true")
	t.Setenv("STANZA_STORE_LOCK_TTL", "5s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Pool.All)
	assert.Equal(t, 6, cfg.Engine.EarlyMinWords)
	assert.True(t, cfg.Chains.Watch)
	assert.Equal(t, 5*time.Second, cfg.Store.LockTTL)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "log: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("Unknown Key", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "lgo:\n  level: debug\n"))
		assert.Error(t, err)
	})

	t.Run("Bad Store Kind", func(t *testing.T) {
		_, err := config.Load(writeFile(t, "store:\n  kind: etcd\n"))
		assert.ErrorContains(t, err, "etcd")
	})

	t.Run("Bad Duration", func(t *testing.T) {
		t.Setenv("STANZA_REDIS_TTL", "forever")
		_, err := config.Load("")
		assert.Error(t, err)
	})
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-demodata/components/mockapi"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(42), cfg.Seeds.Dashboard)
	assert.Equal(t, int64(123), cfg.Seeds.Historical)
	assert.Equal(t, BackendMemory, cfg.Catalog.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.API)
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
seeds:
  dashboard: 7
network:
  preset: slow
  error_rate: 0
  max_latency: 3s
catalog:
  backend: sqlite
  path: /tmp/catalog.db
server:
  transport: fiber
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(7), cfg.Seeds.Dashboard)
	assert.Equal(t, int64(123), cfg.Seeds.Historical)
	assert.Equal(t, BackendSQLite, cfg.Catalog.Backend)
	assert.Equal(t, TransportFiber, cfg.Server.Transport)
	assert.True(t, cfg.Catalog.Samples)

	cond, err := cfg.Conditions()
	require.NoError(t, err)
	assert.Zero(t, cond.ErrorRate)
	assert.Equal(t, 2*time.Second, cond.MinLatency)
	assert.Equal(t, 3*time.Second, cond.MaxLatency)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("catalog:\n  backnd: file\n"))
	assert.Error(t, err)
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Backend = "mongo"
	cfg.Server.Transport = "grpc"
	cfg.Network.Preset = "lunar"
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "mongo")
	assert.Contains(t, err.Error(), "grpc")
	assert.Contains(t, err.Error(), "lunar")
}

func TestValidateRejectsInvertedLatency(t *testing.T) {
	cfg := Default()
	lo, hi := 2*time.Second, time.Second
	cfg.Network.MinLatency, cfg.Network.MaxLatency = &lo, &hi
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DEMODATA_SEED":            "99",
		"DEMODATA_CATALOG_BACKEND": "redis",
		"DEMODATA_REDIS_ADDR":      "cache:6379",
		"DEMODATA_NETWORK_PRESET":  mockapi.PresetOffline,
		"DEMODATA_CATALOG_LATENCY": "false",
		"DEMODATA_ERROR_RATE":      "0.5",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.Equal(t, int64(99), cfg.Seeds.Dashboard)
	assert.Equal(t, BackendRedis, cfg.Catalog.Backend)
	assert.Equal(t, "cache:6379", cfg.Catalog.RedisAddr)
	assert.False(t, cfg.Catalog.Latency)
	cond, err := cfg.Conditions()
	require.NoError(t, err)
	assert.False(t, cond.Online)
	assert.Equal(t, 0.5, cond.ErrorRate)

	bad := Default()
	err = bad.ApplyEnv(func(k string) (string, bool) {
		if k == "DEMODATA_SEED" {
			return "forty-two", true
		}
		return "", false
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demodata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  backend: file\n"), 0o600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEMODATA_CATALOG_PATH="+filepath.Join(dir, "blobs")+"\n"), 0o600))
	t.Setenv("DEMODATA_CATALOG_PATH", "")
	os.Unsetenv("DEMODATA_CATALOG_PATH")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Catalog.Backend)
	assert.Equal(t, filepath.Join(dir, "blobs"), cfg.Catalog.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log = Log{Level: "warn", Format: "json"}
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte("tickers: [BTC-USD]\n"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, "1d", c.Defaults.Period)
	assert.Equal(t, "1m", c.Defaults.Interval)
	assert.Equal(t, 600, c.CacheTTLSeconds)
	assert.Nil(t, c.NegativeCacheTTLSeconds)
	assert.Equal(t, 3, c.UI.ColumnsPerRow)
	assert.Equal(t, 350, c.UI.ChartHeight)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Source.Timeout)
	assert.True(t, c.Source.AutoAdjustEnabled())
	assert.Equal(t, "yahoo", c.Source.Type)
	assert.Equal(t, 4, c.Prefetch.Concurrency)
}

func TestParse_ExplicitZeroTTLKept(t *testing.T) {
	c, err := Parse([]byte("tickers: [A]\ncache_ttl_seconds: 0\nsource:\n  auto_adjust: false\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.CacheTTLSeconds)
	assert.False(t, c.Source.AutoAdjustEnabled())
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"negative ttl":          "tickers: [A]\ncache_ttl_seconds: -1\n",
		"negative negative ttl": "tickers: [A]\nnegative_cache_ttl_seconds: -5\n",
		"no tickers":            "cache_ttl_seconds: 10\n",
		"blank ticker":          "tickers: ['']\n",
		"bad source":            "tickers: [A]\nsource:\n  type: bloomberg\n",
		"bad log level":         "tickers: [A]\nlog:\n  level: loud\n",
		"bad yaml":              "tickers: [A\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte("tickers: [A]\n"))
	require.NoError(t, err)

	env := map[string]string{
		"TICKERS":           " BTC-USD, ETH-USD ,,",
		"CACHE_TTL_SECONDS": "30",
		"LOG_LEVEL":         "DEBUG",
		"HTTPS_PROXY":       "http://proxy:3128",
		"REDIS_ADDR":        "redis:6379",
		"SERVER_PORT":       "9090",
	}
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, []string{"BTC-USD", "ETH-USD"}, c.Tickers)
	assert.Equal(t, 30, c.CacheTTLSeconds)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "http://proxy:3128", c.Source.Proxy)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Redis.Addr)
	assert.Equal(t, 9090, c.Server.Port)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	c, err := Parse([]byte("tickers: [A]\n"))
	require.NoError(t, err)
	err = c.applyEnv(func(k string) string {
		if k == "CACHE_TTL_SECONDS" {
			return "ten"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLoadWithEnv_NegativeTTLFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tickers: [A]\n"), 0o600))
	t.Setenv("CACHE_TTL_SECONDS", "-3")

	_, err := LoadWithEnv(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOptionsIncludeDefault(t *testing.T) {
	c, err := Parse([]byte("tickers: [A]\noptions:\n  periods: [5d, 1mo]\n  intervals: [1m, 5m]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1d", "5d", "1mo"}, c.PeriodOptions())
	assert.Equal(t, []string{"1m", "5m"}, c.IntervalOptions())
}

func TestColor(t *testing.T) {
	c, err := Parse([]byte("tickers: [A]\ncolors:\n  A: red\n"))
	require.NoError(t, err)
	assert.Equal(t, "red", c.Color("A"))
	assert.Empty(t, c.Color("B"))
}

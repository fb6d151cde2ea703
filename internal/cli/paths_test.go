package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/pydocs/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestFileCacheDirFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/var/cache/pydocs-test"

	dir, err := fileCacheDir(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if dir != cfg.Cache.Dir {
		t.Errorf("fileCacheDir() = %q, want %q", dir, cfg.Cache.Dir)
	}
}

func TestDescribeCache(t *testing.T) {
	cfg := config.Default()

	cfg.Cache.Backend = config.CacheNone
	if got := describeCache(cfg); got != "none" {
		t.Errorf("describeCache(none) = %q", got)
	}

	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.RedisURL = "redis://cache.internal:6379/2"
	if got := describeCache(cfg); got != cfg.Cache.RedisURL {
		t.Errorf("describeCache(redis) = %q", got)
	}

	cfg.Cache.Backend = config.CacheFile
	cfg.Cache.Dir = "/tmp/pydocs-cache"
	if got := describeCache(cfg); got != "/tmp/pydocs-cache" {
		t.Errorf("describeCache(file) = %q", got)
	}
}

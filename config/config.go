// Package config loads the loopback service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	envAddr         = "WEBCOMPRESS_ADDR"
	envCacheDir     = "WEBCOMPRESS_CACHE_DIR"
	envCacheSize    = "WEBCOMPRESS_CACHE_SIZE"
	envLegacyFormat = "WEBCOMPRESS_LEGACY_FORMAT"

	defaultAddr      = "127.0.0.1:2024"
	defaultCacheDir  = "cache"
	defaultCacheSize = 128
)

type Config struct {
	Addr         string // listen address of the loopback service
	CacheDir     string // directory holding saved pages
	CacheSize    int    // decoded assets kept in memory
	LegacyFormat bool   // read and write sentinel-framed archives
}

// Load reads the configuration from the environment, falling back to
// defaults for unset variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:      getenv(envAddr, defaultAddr),
		CacheDir:  getenv(envCacheDir, defaultCacheDir),
		CacheSize: defaultCacheSize,
	}
	if v := os.Getenv(envCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: %s must be a positive integer, got %q", envCacheSize, v)
		}
		cfg.CacheSize = n
	}
	if v := os.Getenv(envLegacyFormat); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", envLegacyFormat, err)
		}
		cfg.LegacyFormat = b
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/leonardcser/redis-basic/internal/kv"
	"github.com/leonardcser/redis-basic/internal/ttlcache"
)

// Config holds the settings shared by the binaries.
type Config struct {
	Backend       kv.Kind       `env:"REDIS_BASIC_BACKEND" envDefault:"bolt"`
	BoltPath      string        `env:"REDIS_BASIC_BOLT_PATH"`
	RedisAddr     string        `env:"REDIS_BASIC_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_BASIC_REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_BASIC_REDIS_DB" envDefault:"0"`
	SocketPath    string        `env:"REDIS_BASIC_SOCK"`
	CacheCapacity int           `env:"REDIS_BASIC_CACHE_CAPACITY" envDefault:"100"`
	CacheTTL      time.Duration `env:"REDIS_BASIC_CACHE_TTL" envDefault:"10s"`
	FetchTimeout  time.Duration `env:"REDIS_BASIC_FETCH_TIMEOUT" envDefault:"20s"`
}

// Load parses the environment and fills home-relative defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Backend = kv.Kind(strings.ToLower(strings.TrimSpace(string(cfg.Backend))))
	switch cfg.Backend {
	case kv.KindBolt, kv.KindRedis, kv.KindSocket:
	default:
		return Config{}, fmt.Errorf("REDIS_BASIC_BACKEND: unknown backend %q", cfg.Backend)
	}
	if cfg.BoltPath == "" {
		cfg.BoltPath = filepath.Join(cacheDir(), "store.bbolt")
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = filepath.Join(cacheDir(), "kv.sock")
	}
	return cfg, nil
}

// KVOptions returns the backend options selected by c.
func (c Config) KVOptions() kv.Options {
	return kv.Options{
		Kind:     c.Backend,
		BoltPath: c.BoltPath,
		Redis: kv.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		SocketPath: c.SocketPath,
	}
}

// CacheOptions returns the page cache options.
func (c Config) CacheOptions() ttlcache.Options {
	return ttlcache.Options{Capacity: c.CacheCapacity, TTL: c.CacheTTL}
}

func cacheDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "redis-basic")
}
